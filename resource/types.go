package resource

import (
	"fmt"

	"github.com/wippyai/sdl-bridge/native"
)

// Handle is an opaque, generation-stamped reference to a live native
// resource. Handle 0 is reserved and always invalid.
//
// Layout, low bits first: 24 bits slot index, 24 bits generation, 5 bits
// kind. The top 11 bits are always zero so a handle survives conversion to
// float64.
type Handle uint64

const (
	indexBits = 24
	genBits   = 24
	kindBits  = 5

	indexMask = 1<<indexBits - 1
	genMask   = 1<<genBits - 1
	kindMask  = 1<<kindBits - 1

	genShift  = indexBits
	kindShift = indexBits + genBits

	// MaxGeneration is the last generation a slot can carry before it is
	// retired permanently.
	MaxGeneration = genMask
	// MaxSlots bounds the number of distinct slots.
	MaxSlots = indexMask + 1
)

func makeHandle(kind Kind, gen uint32, index uint32) Handle {
	return Handle(uint64(kind)&kindMask<<kindShift | uint64(gen)&genMask<<genShift | uint64(index)&indexMask)
}

// Kind returns the kind encoded in the handle.
func (h Handle) Kind() Kind { return Kind(uint64(h) >> kindShift & kindMask) }

// Generation returns the generation encoded in the handle.
func (h Handle) Generation() uint32 { return uint32(uint64(h) >> genShift & genMask) }

// Index returns the slot index encoded in the handle.
func (h Handle) Index() uint32 { return uint32(uint64(h) & indexMask) }

func (h Handle) String() string {
	if h == 0 {
		return "handle(nil)"
	}
	return fmt.Sprintf("%s#%d.%d", h.Kind(), h.Index(), h.Generation())
}

// Kind identifies the native resource type behind a handle.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindWindow
	KindRenderer
	KindAudioDevice
	KindAudioStream
	KindGamepad
	KindGPUDevice
	KindGPUBuffer
	KindGPUTexture
	KindGPUTransferBuffer
	KindGPUCommandBuffer
	kindCount
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindWindow:            "window",
	KindRenderer:          "renderer",
	KindAudioDevice:       "audio-device",
	KindAudioStream:       "audio-stream",
	KindGamepad:           "gamepad",
	KindGPUDevice:         "gpu-device",
	KindGPUBuffer:         "gpu-buffer",
	KindGPUTexture:        "gpu-texture",
	KindGPUTransferBuffer: "gpu-transfer-buffer",
	KindGPUCommandBuffer:  "gpu-command-buffer",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k names a real resource kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindWindow; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindWindow; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// EventType identifies a registry lifecycle notification.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventRetired
)

// Event is a registry lifecycle notification.
type Event struct {
	Handle  Handle
	Address native.Address
	Kind    Kind
	Type    EventType
}

// Observer receives registry lifecycle notifications. Observers are called
// after the registry lock is released and may call back into the registry.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }
