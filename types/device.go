package types

// Point is a coordinate in device pixel space.
type Point struct {
	X int `json:"x" plist:"x"`
	Y int `json:"y" plist:"y"`
}

// TapAction represents a single step in a replayable pointer sequence.
// Uses the W3C pointer action vocabulary (pointerMove/pointerDown/pause/pointerUp).
type TapAction struct {
	Type     string `json:"type"`
	Duration int    `json:"duration,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Button   int    `json:"button,omitempty"`
}

// Size represents width and height dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
