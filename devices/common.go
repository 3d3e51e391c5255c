package devices

import (
	"fmt"
	"sort"

	"github.com/mobile-next/gesturerec/utils"
)

// DeviceInfo is the directory record for one mirrored device.
type DeviceInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Platform    string `json:"platform"`
	IsOffline   bool   `json:"isOffline"`
}

// Directory enumerates devices that can be mirrored.
type Directory interface {
	List(showOffline bool) ([]DeviceInfo, error)
}

// Source lists the devices of one platform.
type Source struct {
	Name string
	List func() ([]DeviceInfo, error)
}

// MultiDirectory aggregates several sources. A failing source is logged and
// skipped so that one missing toolchain does not hide the other platforms.
type MultiDirectory struct {
	Sources []Source
}

// NewDirectory returns a directory over Android (adb and local AVDs), iOS
// real devices and iOS simulators.
func NewDirectory() *MultiDirectory {
	return &MultiDirectory{
		Sources: []Source{
			{Name: "android", List: GetAndroidDevices},
			{Name: "ios", List: GetIOSDevices},
			{Name: "simulator", List: GetSimulatorDevices},
		},
	}
}

func (m *MultiDirectory) List(showOffline bool) ([]DeviceInfo, error) {
	var all []DeviceInfo

	for _, src := range m.Sources {
		list, err := src.List()
		if err != nil {
			utils.Verbose("Warning: Failed to get %s devices: %v", src.Name, err)
			continue
		}

		for _, d := range list {
			if d.IsOffline && !showOffline {
				continue
			}
			all = append(all, d)
		}
	}

	// online devices first, then by name
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].IsOffline != all[j].IsOffline {
			return !all[i].IsOffline
		}
		return all[i].DisplayName < all[j].DisplayName
	})

	return all, nil
}

// Find looks up a device by ID, including offline ones.
func Find(dir Directory, deviceID string) (DeviceInfo, error) {
	if deviceID == "" {
		return DeviceInfo{}, fmt.Errorf("no device selected")
	}

	list, err := dir.List(true)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("error getting devices: %w", err)
	}

	for _, d := range list {
		if d.ID == deviceID {
			return d, nil
		}
	}

	return DeviceInfo{}, fmt.Errorf("device not found: %s", deviceID)
}
