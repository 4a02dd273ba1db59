package sim

import (
	"fmt"

	"github.com/wippyai/sdl-bridge/native"
)

type window struct {
	title    string
	renderer native.Address
	gpu      native.Address
	flags    uint64
	id       uint32
	w, h     int32
	x, y     int32
}

type renderer struct {
	name   string
	window native.Address
	color  native.Color
	frames int
}

var rendererDrivers = []string{"software", "gpu"}

func (s *Library) GetNumVideoDrivers() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetNumVideoDrivers")
	return int32(len(s.videoDrivers))
}

func (s *Library) GetVideoDriver(index int32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetVideoDriver") {
		return "", false
	}
	name, ok := driverAt(s.videoDrivers, index)
	if !ok {
		s.setError("Parameter 'index' is invalid")
	}
	return name, ok
}

func (s *Library) GetCurrentVideoDriver() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetCurrentVideoDriver") {
		return "", false
	}
	if s.initialized&native.InitVideo == 0 {
		return "", s.fail("Video subsystem has not been initialized")
	}
	return s.videoDrivers[0], true
}

func (s *Library) CreateWindow(title string, w, h int32, flags uint64) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("CreateWindow") {
		return 0
	}
	if !s.requires(native.InitVideo, "Video") {
		return 0
	}
	if w <= 0 || h <= 0 {
		return s.failAddr("Window size must be positive")
	}
	addr := s.alloc()
	id := s.nextWindowID
	s.nextWindowID++
	s.windows[addr] = &window{title: title, w: w, h: h, flags: flags, id: id}
	s.windowIDs[id] = addr
	return addr
}

func (s *Library) DestroyWindow(win native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("DestroyWindow")
	wd, ok := s.windows[win]
	if !ok {
		s.setError("Invalid window")
		return
	}
	// SDL destroys the window's renderer with it.
	if wd.renderer != 0 {
		delete(s.renderers, wd.renderer)
		s.release(wd.renderer)
	}
	if dev, ok := s.gpuDevices[wd.gpu]; ok {
		delete(dev.claimed, win)
	}
	delete(s.windowIDs, wd.id)
	delete(s.windows, win)
	s.release(win)
}

func (s *Library) window(win native.Address) (*window, bool) {
	wd, ok := s.windows[win]
	if !ok {
		s.setError("Invalid window")
	}
	return wd, ok
}

func (s *Library) GetWindowID(win native.Address) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetWindowID") {
		return 0
	}
	wd, ok := s.window(win)
	if !ok {
		return 0
	}
	return wd.id
}

func (s *Library) GetWindowFromID(id uint32) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetWindowFromID") {
		return 0
	}
	addr, ok := s.windowIDs[id]
	if !ok {
		return s.failAddr(fmt.Sprintf("Invalid window ID %d", id))
	}
	return addr
}

func (s *Library) SetWindowTitle(win native.Address, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetWindowTitle") {
		return false
	}
	wd, ok := s.window(win)
	if !ok {
		return false
	}
	wd.title = title
	return true
}

func (s *Library) GetWindowTitle(win native.Address) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetWindowTitle")
	wd, ok := s.window(win)
	if !ok {
		return ""
	}
	return wd.title
}

func (s *Library) SetWindowSize(win native.Address, w, h int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetWindowSize") {
		return false
	}
	wd, ok := s.window(win)
	if !ok {
		return false
	}
	if w <= 0 || h <= 0 {
		return s.fail("Parameter 'w' or 'h' is invalid")
	}
	wd.w, wd.h = w, h
	return true
}

func (s *Library) GetWindowSize(win native.Address) (int32, int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetWindowSize") {
		return 0, 0, false
	}
	wd, ok := s.window(win)
	if !ok {
		return 0, 0, false
	}
	return wd.w, wd.h, true
}

func (s *Library) SetWindowPosition(win native.Address, x, y int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetWindowPosition") {
		return false
	}
	wd, ok := s.window(win)
	if !ok {
		return false
	}
	wd.x, wd.y = x, y
	return true
}

func (s *Library) GetWindowPosition(win native.Address) (int32, int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetWindowPosition") {
		return 0, 0, false
	}
	wd, ok := s.window(win)
	if !ok {
		return 0, 0, false
	}
	return wd.x, wd.y, true
}

func (s *Library) GetWindowFlags(win native.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetWindowFlags")
	wd, ok := s.window(win)
	if !ok {
		return 0
	}
	return wd.flags
}

func (s *Library) ShowWindow(win native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("ShowWindow") {
		return false
	}
	wd, ok := s.window(win)
	if !ok {
		return false
	}
	wd.flags &^= native.WindowHidden
	return true
}

func (s *Library) HideWindow(win native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("HideWindow") {
		return false
	}
	wd, ok := s.window(win)
	if !ok {
		return false
	}
	wd.flags |= native.WindowHidden
	return true
}

func (s *Library) CreateRenderer(win native.Address, name string) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("CreateRenderer") {
		return 0
	}
	wd, ok := s.window(win)
	if !ok {
		return 0
	}
	if wd.renderer != 0 {
		return s.failAddr("Renderer already associated with window")
	}
	if name == "" {
		name = rendererDrivers[0]
	}
	known := false
	for _, d := range rendererDrivers {
		if d == name {
			known = true
		}
	}
	if !known {
		return s.failAddr(fmt.Sprintf("Couldn't find matching render driver %q", name))
	}
	addr := s.alloc()
	s.renderers[addr] = &renderer{name: name, window: win, color: native.Color{A: 255}}
	wd.renderer = addr
	return addr
}

func (s *Library) DestroyRenderer(r native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("DestroyRenderer")
	rd, ok := s.renderers[r]
	if !ok {
		s.setError("Invalid renderer")
		return
	}
	if wd, ok := s.windows[rd.window]; ok {
		wd.renderer = 0
	}
	delete(s.renderers, r)
	s.release(r)
}

func (s *Library) renderer(r native.Address) (*renderer, bool) {
	rd, ok := s.renderers[r]
	if !ok {
		s.setError("Invalid renderer")
	}
	return rd, ok
}

func (s *Library) GetRendererName(r native.Address) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetRendererName") {
		return "", false
	}
	rd, ok := s.renderer(r)
	if !ok {
		return "", false
	}
	return rd.name, true
}

func (s *Library) SetRenderDrawColor(r native.Address, c native.Color) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetRenderDrawColor") {
		return false
	}
	rd, ok := s.renderer(r)
	if !ok {
		return false
	}
	rd.color = c
	return true
}

func (s *Library) GetRenderDrawColor(r native.Address) (native.Color, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetRenderDrawColor") {
		return native.Color{}, false
	}
	rd, ok := s.renderer(r)
	if !ok {
		return native.Color{}, false
	}
	return rd.color, true
}

// draw validates a drawing call; nothing is rasterized.
func (s *Library) draw(function string, r native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter(function) {
		return false
	}
	_, ok := s.renderer(r)
	return ok
}

func (s *Library) RenderClear(r native.Address) bool { return s.draw("RenderClear", r) }

func (s *Library) RenderFillRect(r native.Address, _ *native.FRect) bool {
	return s.draw("RenderFillRect", r)
}

func (s *Library) RenderRect(r native.Address, _ *native.FRect) bool {
	return s.draw("RenderRect", r)
}

func (s *Library) RenderLine(r native.Address, _, _, _, _ float32) bool {
	return s.draw("RenderLine", r)
}

func (s *Library) RenderPoint(r native.Address, _, _ float32) bool {
	return s.draw("RenderPoint", r)
}

func (s *Library) RenderPresent(r native.Address) bool {
	if !s.draw("RenderPresent", r) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rd, ok := s.renderers[r]; ok {
		rd.frames++
	}
	return true
}

// Frames returns how many times the renderer at r has presented.
func (s *Library) Frames(r native.Address) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rd, ok := s.renderers[r]; ok {
		return rd.frames
	}
	return 0
}

func (s *Library) SetClipboardText(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetClipboardText") {
		return false
	}
	if !s.requires(native.InitVideo, "Video") {
		return false
	}
	s.clipboard = text
	return true
}

func (s *Library) GetClipboardText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetClipboardText")
	return s.clipboard
}

func (s *Library) HasClipboardText() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("HasClipboardText")
	return s.clipboard != ""
}
