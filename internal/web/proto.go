package web

import (
	"encoding/json"
	"fmt"
)

// Click buttons accepted from the browser.
const (
	buttonLeft  = "left"  // zoom in
	buttonRight = "right" // zoom out
	buttonReset = "reset" // back to the initial viewport
)

// click is one mouse event sent by the browser as a JSON text message.
type click struct {
	Px     int    `json:"px"`
	Py     int    `json:"py"`
	Button string `json:"button"`
}

// decodeClick parses and validates a click message. Malformed messages are
// rejected so a bad client cannot wedge the session with a zoom it never
// asked for.
func decodeClick(data []byte) (click, error) {
	var c click
	if err := json.Unmarshal(data, &c); err != nil {
		return click{}, fmt.Errorf("decode click: %w", err)
	}
	switch c.Button {
	case buttonLeft, buttonRight, buttonReset:
		return c, nil
	default:
		return click{}, fmt.Errorf("unknown button %q", c.Button)
	}
}
