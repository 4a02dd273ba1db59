package events

import (
	"github.com/wippyai/sdl-bridge/native"
	"github.com/wippyai/sdl-bridge/resource"
)

// Event is one of the variants declared in this package.
type Event interface {
	Header() Common
	isEvent()
}

// Common holds the fields shared by every variant.
type Common struct {
	Type      uint32 `wit:"-"`
	Timestamp uint64 `wit:"-"`
}

// Header returns the common fields.
func (c Common) Header() Common { return c }

func (Common) isEvent() {}

// Quit is sent when the application is asked to terminate.
type Quit struct {
	Common
}

// Window covers every window state change.
type Window struct {
	Common
	Window   resource.Handle `wit:"window"`
	WindowID uint32          `wit:"window-id"`
	Data1    int32           `wit:"data1"`
	Data2    int32           `wit:"data2"`
}

// Keyboard is a key press or release.
type Keyboard struct {
	Common
	Window   resource.Handle `wit:"window"`
	WindowID uint32          `wit:"window-id"`
	Which    uint32          `wit:"which"`
	Scancode uint32          `wit:"scancode"`
	Key      uint32          `wit:"key"`
	Mod      uint16          `wit:"mod"`
	Raw      uint16          `wit:"raw"`
	Down     bool            `wit:"down"`
	Repeat   bool            `wit:"repeat"`
}

// MouseMotion is a pointer move.
type MouseMotion struct {
	Common
	Window   resource.Handle `wit:"window"`
	WindowID uint32          `wit:"window-id"`
	Which    uint32          `wit:"which"`
	State    uint32          `wit:"state"`
	X        float32         `wit:"x"`
	Y        float32         `wit:"y"`
	XRel     float32         `wit:"xrel"`
	YRel     float32         `wit:"yrel"`
}

// MouseButton is a mouse button press or release.
type MouseButton struct {
	Common
	Window   resource.Handle `wit:"window"`
	WindowID uint32          `wit:"window-id"`
	Which    uint32          `wit:"which"`
	Button   uint8           `wit:"button"`
	Down     bool            `wit:"down"`
	Clicks   uint8           `wit:"clicks"`
	X        float32         `wit:"x"`
	Y        float32         `wit:"y"`
}

// MouseWheel is a scroll.
type MouseWheel struct {
	Common
	Window    resource.Handle `wit:"window"`
	WindowID  uint32          `wit:"window-id"`
	Which     uint32          `wit:"which"`
	X         float32         `wit:"x"`
	Y         float32         `wit:"y"`
	Direction uint32          `wit:"direction"`
	MouseX    float32         `wit:"mouse-x"`
	MouseY    float32         `wit:"mouse-y"`
}

// GamepadAxis is an axis move on an open gamepad.
type GamepadAxis struct {
	Common
	Gamepad resource.Handle `wit:"gamepad"`
	Which   uint32          `wit:"which"`
	Axis    uint8           `wit:"axis"`
	Value   int16           `wit:"value"`
}

// GamepadButton is a gamepad button press or release.
type GamepadButton struct {
	Common
	Gamepad resource.Handle `wit:"gamepad"`
	Which   uint32          `wit:"which"`
	Button  uint8           `wit:"button"`
	Down    bool            `wit:"down"`
}

// GamepadDevice is a gamepad being added, removed or remapped. Gamepad is
// 0 unless the device is open.
type GamepadDevice struct {
	Common
	Gamepad resource.Handle `wit:"gamepad"`
	Which   uint32          `wit:"which"`
}

// AudioDevice is an audio device being added, removed or changing format.
// Device is only set for logical devices opened through the bridge.
type AudioDevice struct {
	Common
	Device    resource.Handle `wit:"device"`
	Which     uint32          `wit:"which"`
	Recording bool            `wit:"recording"`
}

// User is an application-defined event. The native data pointers are not
// carried across the bridge.
type User struct {
	Common
	Window   resource.Handle `wit:"window"`
	WindowID uint32          `wit:"window-id"`
	Code     int32           `wit:"code"`
}

// Generic is any event without a dedicated variant.
type Generic struct {
	Common
	Raw native.RawEvent `wit:"-"`
}

var names = map[uint32]string{
	native.EventQuit:                     "quit",
	native.EventWindowShown:              "window-shown",
	native.EventWindowHidden:             "window-hidden",
	native.EventWindowExposed:            "window-exposed",
	native.EventWindowMoved:              "window-moved",
	native.EventWindowResized:            "window-resized",
	native.EventWindowPixelSizeChanged:   "window-pixel-size-changed",
	native.EventWindowMinimized:          "window-minimized",
	native.EventWindowMaximized:          "window-maximized",
	native.EventWindowRestored:           "window-restored",
	native.EventWindowMouseEnter:         "window-mouse-enter",
	native.EventWindowMouseLeave:         "window-mouse-leave",
	native.EventWindowFocusGained:        "window-focus-gained",
	native.EventWindowFocusLost:          "window-focus-lost",
	native.EventWindowCloseRequested:     "window-close-requested",
	native.EventWindowDestroyed:          "window-destroyed",
	native.EventKeyDown:                  "key-down",
	native.EventKeyUp:                    "key-up",
	native.EventTextInput:                "text-input",
	native.EventMouseMotion:              "mouse-motion",
	native.EventMouseButtonDown:          "mouse-button-down",
	native.EventMouseButtonUp:            "mouse-button-up",
	native.EventMouseWheel:               "mouse-wheel",
	native.EventGamepadAxisMotion:        "gamepad-axis-motion",
	native.EventGamepadButtonDown:        "gamepad-button-down",
	native.EventGamepadButtonUp:          "gamepad-button-up",
	native.EventGamepadAdded:             "gamepad-added",
	native.EventGamepadRemoved:           "gamepad-removed",
	native.EventGamepadRemapped:          "gamepad-remapped",
	native.EventAudioDeviceAdded:         "audio-device-added",
	native.EventAudioDeviceRemoved:       "audio-device-removed",
	native.EventAudioDeviceFormatChanged: "audio-device-format-changed",
	native.EventUser:                     "user",
}

var codes = func() map[string]uint32 {
	m := make(map[string]uint32, len(names))
	for code, name := range names {
		m[name] = code
	}
	return m
}()

// Name returns the kebab-case name of an event type, "user" for the user
// range and "unknown" for anything else.
func Name(eventType uint32) string {
	if n, ok := names[eventType]; ok {
		return n
	}
	if isUser(eventType) {
		return "user"
	}
	return "unknown"
}

// Code returns the event type for a name produced by Name.
func Code(name string) (uint32, bool) {
	c, ok := codes[name]
	return c, ok
}

func isUser(t uint32) bool {
	return t >= native.EventUser && t < native.EventLast
}

func isWindow(t uint32) bool {
	return t >= native.EventWindowFirst && t <= native.EventWindowLast
}
