package devices

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Simulator is one entry of `xcrun simctl list devices --json`
type Simulator struct {
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
	Runtime     string `json:"-"`
}

type simctlDeviceList struct {
	Devices map[string][]Simulator `json:"devices"`
}

// runSimctl executes xcrun simctl with the provided arguments
func runSimctl(args ...string) ([]byte, error) {
	fullArgs := append([]string{"simctl"}, args...)
	cmd := exec.Command("xcrun", fullArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to execute xcrun simctl command: %w", err)
	}
	return output, nil
}

// parseSimctlOutput extracts available simulators, tagging each with its runtime
func parseSimctlOutput(output []byte) ([]Simulator, error) {
	var list simctlDeviceList
	if err := json.Unmarshal(output, &list); err != nil {
		return nil, fmt.Errorf("failed to parse simulator list JSON: %w", err)
	}

	if list.Devices == nil {
		return nil, fmt.Errorf("unexpected format in simulator list: devices not found")
	}

	var simulators []Simulator
	for runtimeName, entries := range list.Devices {
		for _, sim := range entries {
			if !sim.IsAvailable {
				continue
			}
			sim.Runtime = runtimeName
			simulators = append(simulators, sim)
		}
	}

	return simulators, nil
}

// runtimeLabel turns "com.apple.CoreSimulator.SimRuntime.iOS-18-6" into "iOS 18.6"
func runtimeLabel(runtimeID string) string {
	name := runtimeID[strings.LastIndex(runtimeID, ".")+1:]
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 {
		return name
	}
	return parts[0] + " " + strings.ReplaceAll(parts[1], "-", ".")
}

func simulatorDeviceInfo(sim Simulator) DeviceInfo {
	return DeviceInfo{
		ID:          sim.UDID,
		DisplayName: fmt.Sprintf("%s, %s (%s)", sim.Name, runtimeLabel(sim.Runtime), sim.UDID),
		Platform:    "ios",
		IsOffline:   sim.State != "Booted",
	}
}

// GetSimulatorDevices lists iOS simulators. Booted ones are online, the rest
// are reported offline. Off macOS there are none.
func GetSimulatorDevices() ([]DeviceInfo, error) {
	if runtime.GOOS != "darwin" {
		return nil, nil
	}

	output, err := runSimctl("list", "devices", "--json")
	if err != nil {
		return nil, err
	}

	simulators, err := parseSimctlOutput(output)
	if err != nil {
		return nil, err
	}

	devices := make([]DeviceInfo, 0, len(simulators))
	for _, sim := range simulators {
		devices = append(devices, simulatorDeviceInfo(sim))
	}

	return devices, nil
}
