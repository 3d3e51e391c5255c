package devices

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDirectory() *MultiDirectory {
	return &MultiDirectory{
		Sources: []Source{
			{Name: "android", List: func() ([]DeviceInfo, error) {
				return []DeviceInfo{
					{ID: "Pixel_9_Pro", DisplayName: "Pixel 9 Pro", Platform: "android", IsOffline: true},
					{ID: "emulator-5554", DisplayName: "sdk_gphone64 (emulator-5554)", Platform: "android"},
				}, nil
			}},
			{Name: "ios", List: func() ([]DeviceInfo, error) {
				return nil, errors.New("usbmuxd not running")
			}},
			{Name: "extra", List: func() ([]DeviceInfo, error) {
				return []DeviceInfo{{ID: "abc", DisplayName: "Galaxy (abc)", Platform: "android"}}, nil
			}},
		},
	}
}

func TestMultiDirectory_List(t *testing.T) {
	dir := fakeDirectory()

	online, err := dir.List(false)
	require.NoError(t, err)
	require.Len(t, online, 2)
	assert.Equal(t, "abc", online[0].ID)
	assert.Equal(t, "emulator-5554", online[1].ID)

	all, err := dir.List(true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[2].IsOffline, "offline devices are listed last")
}

func TestFind(t *testing.T) {
	dir := fakeDirectory()

	d, err := Find(dir, "Pixel_9_Pro")
	require.NoError(t, err)
	assert.True(t, d.IsOffline)

	_, err = Find(dir, "")
	assert.EqualError(t, err, "no device selected")

	_, err = Find(dir, "missing")
	assert.EqualError(t, err, "device not found: missing")
}
