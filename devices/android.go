package devices

import (
	"fmt"
	"os/exec"
	"strings"
)

func runAdbCommand(deviceID string, args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-s", deviceID}, args...)
	cmd := exec.Command("adb", cmdArgs...)
	return cmd.CombinedOutput()
}

// adbEntry is one row of `adb devices` output.
type adbEntry struct {
	serial string
	state  string
}

func parseAdbDevicesOutput(output string) []adbEntry {
	var entries []adbEntry

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "List of devices") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		entries = append(entries, adbEntry{serial: parts[0], state: parts[1]})
	}

	return entries
}

// isOnlineState reports whether an adb state allows mirroring.
// "offline", "unauthorized" and "no permissions" rows are listed but cannot be connected.
func isOnlineState(state string) bool {
	return state == "device"
}

func getAndroidDeviceName(deviceID string) string {
	output, err := runAdbCommand(deviceID, "shell", "getprop", "ro.product.model")
	if err == nil && len(output) > 0 {
		return strings.TrimSpace(string(output))
	}

	return deviceID
}

// getAndroidAvdID asks a running emulator for the AVD it was started from.
func getAndroidAvdID(deviceID string) string {
	if !strings.HasPrefix(deviceID, "emulator-") {
		return ""
	}

	output, err := runAdbCommand(deviceID, "emu", "avd", "name")
	if err != nil {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(lines[0])
}

// GetAndroidDevices lists adb-attached devices plus AVDs that are not running.
func GetAndroidDevices() ([]DeviceInfo, error) {
	command := exec.Command("adb", "devices")
	output, err := command.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to run 'adb devices': %v", err)
	}

	var devices []DeviceInfo
	runningAvds := make(map[string]bool)

	for _, entry := range parseAdbDevicesOutput(string(output)) {
		online := isOnlineState(entry.state)

		name := entry.serial
		if online {
			name = getAndroidDeviceName(entry.serial)
			if avdID := getAndroidAvdID(entry.serial); avdID != "" {
				runningAvds[avdID] = true
			}
		}

		devices = append(devices, DeviceInfo{
			ID:          entry.serial,
			DisplayName: fmt.Sprintf("%s (%s)", name, entry.serial),
			Platform:    "android",
			IsOffline:   !online,
		})
	}

	offline, err := getOfflineAndroidEmulators(runningAvds)
	if err == nil {
		devices = append(devices, offline...)
	}

	return devices, nil
}
