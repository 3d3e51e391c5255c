package utils

import (
	"net"
	"strconv"
	"strings"
)

func IsPortAvailable(host string, port int) bool {
	Verbose("Checking if port %d is available on %s", port, host)
	listener, err := net.ListenTCP("tcp4", &net.TCPAddr{IP: net.ParseIP(host), Port: port})
	if err != nil {
		Verbose("error: %v", err)
		return false
	}

	defer listener.Close()
	return true
}

// IsAddressAvailable reports whether a "host:port" listen address is free.
// A bare port, an empty host or "localhost" is checked on the IPv4 loopback.
func IsAddressAvailable(addr string) bool {
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		Verbose("invalid address %q: %v", addr, err)
		return false
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}

	if host == "" || host == "localhost" {
		host = "127.0.0.1"
	}

	return IsPortAvailable(host, port)
}
