package native

// Init flags.
const (
	InitAudio    uint32 = 0x00000010
	InitVideo    uint32 = 0x00000020
	InitJoystick uint32 = 0x00000200
	InitHaptic   uint32 = 0x00001000
	InitGamepad  uint32 = 0x00002000
	InitEvents   uint32 = 0x00004000
	InitSensor   uint32 = 0x00008000
	InitCamera   uint32 = 0x00010000
)

// initImplies mirrors SDL's subsystem dependencies: video, audio, joystick
// and camera pull in events; gamepad and haptic pull in joystick.
var initImplies = map[uint32]uint32{
	InitVideo:    InitEvents,
	InitAudio:    InitEvents,
	InitJoystick: InitEvents,
	InitCamera:   InitEvents,
	InitSensor:   InitEvents,
	InitGamepad:  InitJoystick | InitEvents,
	InitHaptic:   InitJoystick | InitEvents,
}

// ExpandInitFlags adds the subsystems SDL initializes implicitly.
func ExpandInitFlags(flags uint32) uint32 {
	out := flags
	for f, implied := range initImplies {
		if flags&f != 0 {
			out |= implied
		}
	}
	return out
}

// Window flags.
const (
	WindowFullscreen       uint64 = 0x0000000000000001
	WindowOpenGL           uint64 = 0x0000000000000002
	WindowOccluded         uint64 = 0x0000000000000004
	WindowHidden           uint64 = 0x0000000000000008
	WindowBorderless       uint64 = 0x0000000000000010
	WindowResizable        uint64 = 0x0000000000000020
	WindowMinimized        uint64 = 0x0000000000000040
	WindowMaximized        uint64 = 0x0000000000000080
	WindowMouseGrabbed     uint64 = 0x0000000000000100
	WindowInputFocus       uint64 = 0x0000000000000200
	WindowMouseFocus       uint64 = 0x0000000000000400
	WindowHighPixelDensity uint64 = 0x0000000000002000
	WindowAlwaysOnTop      uint64 = 0x0000000000010000
	WindowVulkan           uint64 = 0x0000000010000000
	WindowMetal            uint64 = 0x0000000020000000
	WindowTransparent      uint64 = 0x0000000040000000
	WindowNotFocusable     uint64 = 0x0000000080000000
)

// Event types.
const (
	EventFirst uint32 = 0x0
	EventQuit  uint32 = 0x100

	EventWindowShown            uint32 = 0x202
	EventWindowHidden           uint32 = 0x203
	EventWindowExposed          uint32 = 0x204
	EventWindowMoved            uint32 = 0x205
	EventWindowResized          uint32 = 0x206
	EventWindowPixelSizeChanged uint32 = 0x207
	EventWindowMinimized        uint32 = 0x209
	EventWindowMaximized        uint32 = 0x20A
	EventWindowRestored         uint32 = 0x20B
	EventWindowMouseEnter       uint32 = 0x20C
	EventWindowMouseLeave       uint32 = 0x20D
	EventWindowFocusGained      uint32 = 0x20E
	EventWindowFocusLost        uint32 = 0x20F
	EventWindowCloseRequested   uint32 = 0x210
	EventWindowDestroyed        uint32 = 0x219
	EventWindowFirst                   = EventWindowShown
	EventWindowLast             uint32 = 0x21A

	EventKeyDown   uint32 = 0x300
	EventKeyUp     uint32 = 0x301
	EventTextInput uint32 = 0x303

	EventMouseMotion     uint32 = 0x400
	EventMouseButtonDown uint32 = 0x401
	EventMouseButtonUp   uint32 = 0x402
	EventMouseWheel      uint32 = 0x403

	EventGamepadAxisMotion uint32 = 0x650
	EventGamepadButtonDown uint32 = 0x651
	EventGamepadButtonUp   uint32 = 0x652
	EventGamepadAdded      uint32 = 0x653
	EventGamepadRemoved    uint32 = 0x654
	EventGamepadRemapped   uint32 = 0x655

	EventAudioDeviceAdded         uint32 = 0x1100
	EventAudioDeviceRemoved       uint32 = 0x1101
	EventAudioDeviceFormatChanged uint32 = 0x1102

	EventUser uint32 = 0x8000
	EventLast uint32 = 0xFFFF
)

// Audio formats.
const (
	AudioU8    uint32 = 0x0008
	AudioS8    uint32 = 0x8008
	AudioS16LE uint32 = 0x8010
	AudioS16BE uint32 = 0x9010
	AudioS32LE uint32 = 0x8020
	AudioS32BE uint32 = 0x9020
	AudioF32LE uint32 = 0x8120
	AudioF32BE uint32 = 0x9120

	AudioS16 = AudioS16LE
	AudioS32 = AudioS32LE
	AudioF32 = AudioF32LE
)

// AudioBitSize extracts the sample width from a format, or 0 if the format
// is not one SDL defines.
func AudioBitSize(format uint32) int {
	switch format {
	case AudioU8, AudioS8, AudioS16LE, AudioS16BE, AudioS32LE, AudioS32BE, AudioF32LE, AudioF32BE:
		return int(format & 0xFF)
	}
	return 0
}

// Default audio device IDs.
const (
	AudioDeviceDefaultPlayback  uint32 = 0xFFFFFFFF
	AudioDeviceDefaultRecording uint32 = 0xFFFFFFFE
)

// GPU shader formats.
const (
	GPUShaderFormatPrivate  uint32 = 1 << 0
	GPUShaderFormatSPIRV    uint32 = 1 << 1
	GPUShaderFormatDXBC     uint32 = 1 << 2
	GPUShaderFormatDXIL     uint32 = 1 << 3
	GPUShaderFormatMSL      uint32 = 1 << 4
	GPUShaderFormatMetalLib uint32 = 1 << 5
)

// GPU buffer usage flags.
const (
	GPUBufferUsageVertex              uint32 = 1 << 0
	GPUBufferUsageIndex               uint32 = 1 << 1
	GPUBufferUsageIndirect            uint32 = 1 << 2
	GPUBufferUsageGraphicsStorageRead uint32 = 1 << 3
	GPUBufferUsageComputeStorageRead  uint32 = 1 << 4
	GPUBufferUsageComputeStorageWrite uint32 = 1 << 5
)

// GPU transfer buffer usage.
const (
	GPUTransferBufferUsageUpload   uint32 = 0
	GPUTransferBufferUsageDownload uint32 = 1
)

// Keyboard modifiers.
const (
	KeymodNone   uint16 = 0x0000
	KeymodLShift uint16 = 0x0001
	KeymodRShift uint16 = 0x0002
	KeymodLCtrl  uint16 = 0x0040
	KeymodRCtrl  uint16 = 0x0080
	KeymodLAlt   uint16 = 0x0100
	KeymodRAlt   uint16 = 0x0200
	KeymodLGUI   uint16 = 0x0400
	KeymodRGUI   uint16 = 0x0800
	KeymodNum    uint16 = 0x1000
	KeymodCaps   uint16 = 0x2000
)

// Constants returns the named constant table exposed to bridge callers.
// Names follow the C identifiers without the SDL_ prefix.
func Constants() map[string]uint64 {
	return map[string]uint64{
		"INIT_AUDIO":    uint64(InitAudio),
		"INIT_VIDEO":    uint64(InitVideo),
		"INIT_JOYSTICK": uint64(InitJoystick),
		"INIT_HAPTIC":   uint64(InitHaptic),
		"INIT_GAMEPAD":  uint64(InitGamepad),
		"INIT_EVENTS":   uint64(InitEvents),
		"INIT_SENSOR":   uint64(InitSensor),
		"INIT_CAMERA":   uint64(InitCamera),

		"WINDOW_FULLSCREEN":         WindowFullscreen,
		"WINDOW_OPENGL":             WindowOpenGL,
		"WINDOW_OCCLUDED":           WindowOccluded,
		"WINDOW_HIDDEN":             WindowHidden,
		"WINDOW_BORDERLESS":         WindowBorderless,
		"WINDOW_RESIZABLE":          WindowResizable,
		"WINDOW_MINIMIZED":          WindowMinimized,
		"WINDOW_MAXIMIZED":          WindowMaximized,
		"WINDOW_MOUSE_GRABBED":      WindowMouseGrabbed,
		"WINDOW_INPUT_FOCUS":        WindowInputFocus,
		"WINDOW_MOUSE_FOCUS":        WindowMouseFocus,
		"WINDOW_HIGH_PIXEL_DENSITY": WindowHighPixelDensity,
		"WINDOW_ALWAYS_ON_TOP":      WindowAlwaysOnTop,
		"WINDOW_VULKAN":             WindowVulkan,
		"WINDOW_METAL":              WindowMetal,
		"WINDOW_TRANSPARENT":        WindowTransparent,
		"WINDOW_NOT_FOCUSABLE":      WindowNotFocusable,

		"EVENT_QUIT":                         uint64(EventQuit),
		"EVENT_WINDOW_SHOWN":                 uint64(EventWindowShown),
		"EVENT_WINDOW_HIDDEN":                uint64(EventWindowHidden),
		"EVENT_WINDOW_EXPOSED":               uint64(EventWindowExposed),
		"EVENT_WINDOW_MOVED":                 uint64(EventWindowMoved),
		"EVENT_WINDOW_RESIZED":               uint64(EventWindowResized),
		"EVENT_WINDOW_PIXEL_SIZE_CHANGED":    uint64(EventWindowPixelSizeChanged),
		"EVENT_WINDOW_MINIMIZED":             uint64(EventWindowMinimized),
		"EVENT_WINDOW_MAXIMIZED":             uint64(EventWindowMaximized),
		"EVENT_WINDOW_RESTORED":              uint64(EventWindowRestored),
		"EVENT_WINDOW_MOUSE_ENTER":           uint64(EventWindowMouseEnter),
		"EVENT_WINDOW_MOUSE_LEAVE":           uint64(EventWindowMouseLeave),
		"EVENT_WINDOW_FOCUS_GAINED":          uint64(EventWindowFocusGained),
		"EVENT_WINDOW_FOCUS_LOST":            uint64(EventWindowFocusLost),
		"EVENT_WINDOW_CLOSE_REQUESTED":       uint64(EventWindowCloseRequested),
		"EVENT_WINDOW_DESTROYED":             uint64(EventWindowDestroyed),
		"EVENT_KEY_DOWN":                     uint64(EventKeyDown),
		"EVENT_KEY_UP":                       uint64(EventKeyUp),
		"EVENT_TEXT_INPUT":                   uint64(EventTextInput),
		"EVENT_MOUSE_MOTION":                 uint64(EventMouseMotion),
		"EVENT_MOUSE_BUTTON_DOWN":            uint64(EventMouseButtonDown),
		"EVENT_MOUSE_BUTTON_UP":              uint64(EventMouseButtonUp),
		"EVENT_MOUSE_WHEEL":                  uint64(EventMouseWheel),
		"EVENT_GAMEPAD_AXIS_MOTION":          uint64(EventGamepadAxisMotion),
		"EVENT_GAMEPAD_BUTTON_DOWN":          uint64(EventGamepadButtonDown),
		"EVENT_GAMEPAD_BUTTON_UP":            uint64(EventGamepadButtonUp),
		"EVENT_GAMEPAD_ADDED":                uint64(EventGamepadAdded),
		"EVENT_GAMEPAD_REMOVED":              uint64(EventGamepadRemoved),
		"EVENT_GAMEPAD_REMAPPED":             uint64(EventGamepadRemapped),
		"EVENT_AUDIO_DEVICE_ADDED":           uint64(EventAudioDeviceAdded),
		"EVENT_AUDIO_DEVICE_REMOVED":         uint64(EventAudioDeviceRemoved),
		"EVENT_AUDIO_DEVICE_FORMAT_CHANGED":  uint64(EventAudioDeviceFormatChanged),
		"EVENT_USER":                         uint64(EventUser),
		"EVENT_LAST":                         uint64(EventLast),

		"AUDIO_U8":    uint64(AudioU8),
		"AUDIO_S8":    uint64(AudioS8),
		"AUDIO_S16LE": uint64(AudioS16LE),
		"AUDIO_S16BE": uint64(AudioS16BE),
		"AUDIO_S32LE": uint64(AudioS32LE),
		"AUDIO_S32BE": uint64(AudioS32BE),
		"AUDIO_F32LE": uint64(AudioF32LE),
		"AUDIO_F32BE": uint64(AudioF32BE),
		"AUDIO_S16":   uint64(AudioS16),
		"AUDIO_S32":   uint64(AudioS32),
		"AUDIO_F32":   uint64(AudioF32),

		"AUDIO_DEVICE_DEFAULT_PLAYBACK":  uint64(AudioDeviceDefaultPlayback),
		"AUDIO_DEVICE_DEFAULT_RECORDING": uint64(AudioDeviceDefaultRecording),

		"GPU_SHADERFORMAT_PRIVATE":  uint64(GPUShaderFormatPrivate),
		"GPU_SHADERFORMAT_SPIRV":    uint64(GPUShaderFormatSPIRV),
		"GPU_SHADERFORMAT_DXBC":     uint64(GPUShaderFormatDXBC),
		"GPU_SHADERFORMAT_DXIL":     uint64(GPUShaderFormatDXIL),
		"GPU_SHADERFORMAT_MSL":      uint64(GPUShaderFormatMSL),
		"GPU_SHADERFORMAT_METALLIB": uint64(GPUShaderFormatMetalLib),

		"GPU_BUFFERUSAGE_VERTEX":                uint64(GPUBufferUsageVertex),
		"GPU_BUFFERUSAGE_INDEX":                 uint64(GPUBufferUsageIndex),
		"GPU_BUFFERUSAGE_INDIRECT":              uint64(GPUBufferUsageIndirect),
		"GPU_BUFFERUSAGE_GRAPHICS_STORAGE_READ": uint64(GPUBufferUsageGraphicsStorageRead),
		"GPU_BUFFERUSAGE_COMPUTE_STORAGE_READ":  uint64(GPUBufferUsageComputeStorageRead),
		"GPU_BUFFERUSAGE_COMPUTE_STORAGE_WRITE": uint64(GPUBufferUsageComputeStorageWrite),

		"GPU_TRANSFERBUFFERUSAGE_UPLOAD":   uint64(GPUTransferBufferUsageUpload),
		"GPU_TRANSFERBUFFERUSAGE_DOWNLOAD": uint64(GPUTransferBufferUsageDownload),

		"KMOD_NONE":   uint64(KeymodNone),
		"KMOD_LSHIFT": uint64(KeymodLShift),
		"KMOD_RSHIFT": uint64(KeymodRShift),
		"KMOD_LCTRL":  uint64(KeymodLCtrl),
		"KMOD_RCTRL":  uint64(KeymodRCtrl),
		"KMOD_LALT":   uint64(KeymodLAlt),
		"KMOD_RALT":   uint64(KeymodRAlt),
		"KMOD_LGUI":   uint64(KeymodLGUI),
		"KMOD_RGUI":   uint64(KeymodRGUI),
		"KMOD_NUM":    uint64(KeymodNum),
		"KMOD_CAPS":   uint64(KeymodCaps),
	}
}
