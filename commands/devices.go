package commands

import (
	"github.com/mobile-next/gesturerec/devices"
)

// DevicesCommand lists mirrorable devices, including offline emulators when showAll is set
func DevicesCommand(showAll bool) *CommandResponse {
	list, err := deviceDirectory.List(showAll)
	if err != nil {
		return NewErrorResponse(err)
	}

	if list == nil {
		list = []devices.DeviceInfo{}
	}

	return NewSuccessResponse(map[string]interface{}{
		"devices": list,
	})
}
