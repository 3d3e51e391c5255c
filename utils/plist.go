package utils

import (
	"fmt"

	"howett.net/plist"
)

// MarshalPlist encodes v as an indented XML property list. Struct fields are
// named by their plist tags.
func MarshalPlist(v interface{}) ([]byte, error) {
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode plist: %w", err)
	}
	return data, nil
}

// UnmarshalPlist decodes a property list in any of the XML, binary or
// OpenStep formats into v.
func UnmarshalPlist(data []byte, v interface{}) error {
	if _, err := plist.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode plist: %w", err)
	}
	return nil
}
