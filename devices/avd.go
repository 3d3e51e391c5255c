package devices

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mobile-next/gesturerec/utils"
	"gopkg.in/ini.v1"
)

// AVDInfo represents information about an Android Virtual Device
type AVDInfo struct {
	Name     string
	APILevel string
	AvdId    string
}

// getAVDDetails reads ~/.android/avd/*.ini and the config.ini each one points to.
func getAVDDetails() (map[string]AVDInfo, error) {
	avdMap := make(map[string]AVDInfo)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return avdMap, err
	}

	pattern := filepath.Join(homeDir, ".android", "avd", "*.ini")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return avdMap, err
	}

	for _, iniFile := range matches {
		avdName := strings.TrimSuffix(filepath.Base(iniFile), ".ini")

		iniConfig, err := ini.Load(iniFile)
		if err != nil {
			utils.Verbose("Failed to read %s: %v", iniFile, err)
			continue
		}

		avdPath := iniConfig.Section("").Key("path").String()
		if avdPath == "" {
			continue
		}

		configPath := filepath.Join(avdPath, "config.ini")
		configData, err := ini.Load(configPath)
		if err != nil {
			utils.Verbose("Failed to read %s: %v", configPath, err)
			continue
		}

		section := configData.Section("")
		displayName := section.Key("avd.ini.displayname").String()
		if displayName == "" {
			continue
		}

		avdMap[avdName] = AVDInfo{
			Name:     displayName,
			APILevel: strings.TrimPrefix(section.Key("target").String(), "android-"),
			AvdId:    section.Key("AvdId").MustString(avdName),
		}
	}

	return avdMap, nil
}

// getOfflineAndroidEmulators returns AVDs whose AvdId is not among the running emulators.
func getOfflineAndroidEmulators(runningAvds map[string]bool) ([]DeviceInfo, error) {
	var offline []DeviceInfo

	avdDetails, err := getAVDDetails()
	if err != nil {
		return offline, err
	}

	for avdName, info := range avdDetails {
		if runningAvds[info.AvdId] {
			continue
		}

		displayName := info.Name
		if idx := strings.Index(displayName, "("); idx > 0 {
			displayName = strings.TrimSpace(displayName[:idx])
		}
		displayName = strings.ReplaceAll(displayName, "_", " ")

		offline = append(offline, DeviceInfo{
			ID:          avdName,
			DisplayName: displayName,
			Platform:    "android",
			IsOffline:   true,
		})
	}

	return offline, nil
}
