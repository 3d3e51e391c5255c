package devices

import (
	"fmt"

	"github.com/danielpaulus/go-ios/ios"
	"github.com/mobile-next/gesturerec/utils"
)

// GetIOSDevices lists real iOS devices attached through usbmuxd.
func GetIOSDevices() ([]DeviceInfo, error) {
	list, err := ios.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list iOS devices: %w", err)
	}

	var devices []DeviceInfo
	for _, entry := range list.DeviceList {
		udid := entry.Properties.SerialNumber
		name := udid

		values, err := ios.GetValues(entry)
		if err != nil {
			// paired but locked or untrusted devices cannot be queried
			utils.Verbose("Failed to read values of %s: %v", udid, err)
			devices = append(devices, DeviceInfo{ID: udid, DisplayName: name, Platform: "ios", IsOffline: true})
			continue
		}

		if values.Value.DeviceName != "" {
			name = values.Value.DeviceName
		}

		devices = append(devices, DeviceInfo{
			ID:          udid,
			DisplayName: fmt.Sprintf("%s (%s)", name, udid),
			Platform:    "ios",
		})
	}

	return devices, nil
}
