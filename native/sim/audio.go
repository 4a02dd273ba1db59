package sim

import (
	"fmt"

	"github.com/wippyai/sdl-bridge/native"
)

type physicalDevice struct {
	name      string
	spec      native.AudioSpec
	id        uint32
	frames    int32
	recording bool
}

type audioDevice struct {
	physical *physicalDevice
	postmix  native.PostmixCallback
	spec     native.AudioSpec
	id       uint32
	gain     float32
	paused   bool
}

type stream struct {
	get    native.StreamCallback
	queue  []byte
	src    native.AudioSpec
	dst    native.AudioSpec
	device uint32
	gain   float32
	ratio  float32
}

func (s *Library) GetNumAudioDrivers() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("GetNumAudioDrivers")
	return int32(len(s.audioDrivers))
}

func (s *Library) GetAudioDriver(index int32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioDriver") {
		return "", false
	}
	name, ok := driverAt(s.audioDrivers, index)
	if !ok {
		s.setError("Parameter 'index' is invalid")
	}
	return name, ok
}

func (s *Library) GetCurrentAudioDriver() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetCurrentAudioDriver") {
		return "", false
	}
	if s.initialized&native.InitAudio == 0 {
		return "", s.fail("Audio subsystem is not initialized")
	}
	return s.audioDrivers[0], true
}

func (s *Library) devicesOf(recording bool) []uint32 {
	var ids []uint32
	for _, p := range s.physical {
		if p.recording == recording {
			ids = append(ids, p.id)
		}
	}
	return ids
}

func (s *Library) GetAudioPlaybackDevices() ([]uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioPlaybackDevices") || !s.requires(native.InitAudio, "Audio") {
		return nil, false
	}
	return s.devicesOf(false), true
}

func (s *Library) GetAudioRecordingDevices() ([]uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioRecordingDevices") || !s.requires(native.InitAudio, "Audio") {
		return nil, false
	}
	return s.devicesOf(true), true
}

// physicalFor resolves a physical, default or logical device ID. Must hold s.mu.
func (s *Library) physicalFor(id uint32) (*physicalDevice, bool) {
	switch id {
	case native.AudioDeviceDefaultPlayback:
		return s.physical[0], true
	case native.AudioDeviceDefaultRecording:
		for _, p := range s.physical {
			if p.recording {
				return p, true
			}
		}
	}
	for _, p := range s.physical {
		if p.id == id {
			return p, true
		}
	}
	if d, ok := s.devices[id]; ok {
		return d.physical, true
	}
	s.setError(fmt.Sprintf("Invalid audio device instance ID %d", id))
	return nil, false
}

func (s *Library) GetAudioDeviceName(dev uint32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioDeviceName") {
		return "", false
	}
	p, ok := s.physicalFor(dev)
	if !ok {
		return "", false
	}
	return p.name, true
}

func (s *Library) GetAudioDeviceFormat(dev uint32) (native.AudioSpec, int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioDeviceFormat") {
		return native.AudioSpec{}, 0, false
	}
	if d, ok := s.devices[dev]; ok {
		return d.spec, d.physical.frames, true
	}
	p, ok := s.physicalFor(dev)
	if !ok {
		return native.AudioSpec{}, 0, false
	}
	return p.spec, p.frames, true
}

func (s *Library) OpenAudioDevice(dev uint32, spec *native.AudioSpec) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("OpenAudioDevice") || !s.requires(native.InitAudio, "Audio") {
		return 0
	}
	p, ok := s.physicalFor(dev)
	if !ok {
		return 0
	}
	d := &audioDevice{physical: p, spec: p.spec, gain: 1, id: s.allocDeviceID()}
	if spec != nil {
		d.spec = *spec
	}
	s.devices[d.id] = d
	return d.id
}

func (s *Library) CloseAudioDevice(dev uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("CloseAudioDevice")
	if _, ok := s.devices[dev]; !ok {
		s.setError("Invalid audio device")
		return
	}
	for _, st := range s.streams {
		if st.device == dev {
			st.device = 0
		}
	}
	delete(s.devices, dev)
}

func (s *Library) logical(dev uint32) (*audioDevice, bool) {
	d, ok := s.devices[dev]
	if !ok {
		s.setError(fmt.Sprintf("Invalid audio device instance ID %d", dev))
	}
	return d, ok
}

func (s *Library) setPaused(function string, dev uint32, paused bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter(function) {
		return false
	}
	d, ok := s.logical(dev)
	if !ok {
		return false
	}
	d.paused = paused
	return true
}

func (s *Library) PauseAudioDevice(dev uint32) bool {
	return s.setPaused("PauseAudioDevice", dev, true)
}

func (s *Library) ResumeAudioDevice(dev uint32) bool {
	return s.setPaused("ResumeAudioDevice", dev, false)
}

func (s *Library) AudioDevicePaused(dev uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("AudioDevicePaused")
	d, ok := s.devices[dev]
	return ok && d.paused
}

func (s *Library) GetAudioDeviceGain(dev uint32) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioDeviceGain") {
		return -1
	}
	d, ok := s.logical(dev)
	if !ok {
		return -1
	}
	return d.gain
}

func (s *Library) SetAudioDeviceGain(dev uint32, gain float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetAudioDeviceGain") {
		return false
	}
	d, ok := s.logical(dev)
	if !ok {
		return false
	}
	if gain < 0 {
		return s.fail("Parameter 'gain' is invalid")
	}
	d.gain = gain
	return true
}

func (s *Library) SetAudioPostmixCallback(dev uint32, cb native.PostmixCallback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetAudioPostmixCallback") {
		return false
	}
	d, ok := s.logical(dev)
	if !ok {
		return false
	}
	d.postmix = cb
	return true
}

func validSpec(spec *native.AudioSpec) bool {
	return spec != nil && native.AudioBitSize(spec.Format) != 0 && spec.Channels > 0 && spec.Freq > 0
}

func (s *Library) CreateAudioStream(src, dst *native.AudioSpec) native.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("CreateAudioStream") {
		return 0
	}
	if !validSpec(src) || !validSpec(dst) {
		return s.failAddr("Parameter 'spec' is invalid")
	}
	addr := s.alloc()
	s.streams[addr] = &stream{src: *src, dst: *dst, gain: 1, ratio: 1}
	return addr
}

func (s *Library) DestroyAudioStream(st native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("DestroyAudioStream")
	if _, ok := s.streams[st]; !ok {
		s.setError("Invalid audio stream")
		return
	}
	delete(s.streams, st)
	s.release(st)
}

func (s *Library) stream(st native.Address) (*stream, bool) {
	sd, ok := s.streams[st]
	if !ok {
		s.setError("Invalid audio stream")
	}
	return sd, ok
}

func (s *Library) GetAudioStreamFormat(st native.Address) (native.AudioSpec, native.AudioSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamFormat") {
		return native.AudioSpec{}, native.AudioSpec{}, false
	}
	sd, ok := s.stream(st)
	if !ok {
		return native.AudioSpec{}, native.AudioSpec{}, false
	}
	return sd.src, sd.dst, true
}

func (s *Library) SetAudioStreamFormat(st native.Address, src, dst *native.AudioSpec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetAudioStreamFormat") {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	if (src != nil && !validSpec(src)) || (dst != nil && !validSpec(dst)) {
		return s.fail("Parameter 'spec' is invalid")
	}
	if src != nil {
		// Queued data was written in the old source format.
		sd.queue = nil
		sd.src = *src
	}
	if dst != nil {
		sd.dst = *dst
	}
	return true
}

func (s *Library) GetAudioStreamGain(st native.Address) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamGain") {
		return -1
	}
	sd, ok := s.stream(st)
	if !ok {
		return -1
	}
	return sd.gain
}

func (s *Library) SetAudioStreamGain(st native.Address, gain float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetAudioStreamGain") {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	if gain < 0 {
		return s.fail("Parameter 'gain' is invalid")
	}
	sd.gain = gain
	return true
}

func (s *Library) GetAudioStreamFrequencyRatio(st native.Address) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamFrequencyRatio") {
		return 0
	}
	sd, ok := s.stream(st)
	if !ok {
		return 0
	}
	return sd.ratio
}

func (s *Library) SetAudioStreamFrequencyRatio(st native.Address, ratio float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetAudioStreamFrequencyRatio") {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	if ratio < 0.01 || ratio > 100 {
		return s.fail("Frequency ratio must be between 0.01 and 100")
	}
	sd.ratio = ratio
	return true
}

func (s *Library) BindAudioStream(dev uint32, st native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("BindAudioStream") {
		return false
	}
	if _, ok := s.logical(dev); !ok {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	if sd.device != 0 {
		return s.fail("Stream is already bound to a device")
	}
	sd.device = dev
	return true
}

func (s *Library) UnbindAudioStream(st native.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("UnbindAudioStream")
	if sd, ok := s.streams[st]; ok {
		sd.device = 0
	}
}

func (s *Library) GetAudioStreamDevice(st native.Address) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamDevice") {
		return 0
	}
	sd, ok := s.stream(st)
	if !ok {
		return 0
	}
	if sd.device == 0 {
		s.setError("Audio stream not bound to an audio device")
	}
	return sd.device
}

func (s *Library) PutAudioStreamData(st native.Address, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("PutAudioStreamData") {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	if fs := sd.src.FrameSize(); fs == 0 || len(data)%fs != 0 {
		return s.fail("Data is not a multiple of the source frame size")
	}
	sd.queue = append(sd.queue, data...)
	return true
}

// converted returns the output byte count for n queued input bytes.
func (sd *stream) converted(n int) int {
	inFrames := int64(n / sd.src.FrameSize())
	outFrames := inFrames * int64(sd.dst.Freq) / int64(sd.src.Freq)
	if sd.ratio != 1 {
		outFrames = int64(float64(outFrames) / float64(sd.ratio))
	}
	return int(outFrames) * sd.dst.FrameSize()
}

func (sd *stream) identity() bool {
	return sd.src == sd.dst && sd.ratio == 1
}

// take removes up to len(buf) output bytes from the stream. Must hold s.mu.
func (sd *stream) take(buf []byte) int {
	avail := sd.converted(len(sd.queue))
	n := len(buf)
	if n > avail {
		n = avail
	}
	n -= n % sd.dst.FrameSize()
	if n <= 0 {
		return 0
	}
	if sd.identity() {
		copy(buf, sd.queue[:n])
		sd.queue = sd.queue[n:]
		return n
	}
	// Format conversion is not simulated; output is silence of the right size.
	clear(buf[:n])
	consumed := len(sd.queue) * n / avail
	consumed -= consumed % sd.src.FrameSize()
	sd.queue = sd.queue[consumed:]
	return n
}

func (s *Library) GetAudioStreamData(st native.Address, buf []byte) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamData") {
		return -1
	}
	sd, ok := s.stream(st)
	if !ok {
		return -1
	}
	return int32(sd.take(buf))
}

func (s *Library) GetAudioStreamAvailable(st native.Address) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamAvailable") {
		return -1
	}
	sd, ok := s.stream(st)
	if !ok {
		return -1
	}
	return int32(sd.converted(len(sd.queue)))
}

func (s *Library) GetAudioStreamQueued(st native.Address) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("GetAudioStreamQueued") {
		return -1
	}
	sd, ok := s.stream(st)
	if !ok {
		return -1
	}
	return int32(len(sd.queue))
}

func (s *Library) FlushAudioStream(st native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("FlushAudioStream") {
		return false
	}
	_, ok := s.stream(st)
	return ok
}

func (s *Library) ClearAudioStream(st native.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("ClearAudioStream") {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	sd.queue = nil
	return true
}

func (s *Library) SetAudioStreamGetCallback(st native.Address, cb native.StreamCallback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enter("SetAudioStreamGetCallback") {
		return false
	}
	sd, ok := s.stream(st)
	if !ok {
		return false
	}
	sd.get = cb
	return true
}

type pendingGet struct {
	cb         native.StreamCallback
	stream     native.Address
	additional int32
	total      int32
}

// RunAudio runs one mixing pass of frames sample frames on a new goroutine,
// standing in for SDL's audio thread, and waits for it to finish. Each
// unpaused playback device pulls from its bound streams; get callbacks and
// postmix callbacks run on that goroutine. The postmix buffer is
// overwritten after the callback returns, so callers that keep a reference
// instead of copying will see garbage.
func (s *Library) RunAudio(frames int) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.mixPass(frames)
	}()
	<-done
}

func (s *Library) mixPass(frames int) {
	type postmix struct {
		cb      native.PostmixCallback
		spec    native.AudioSpec
		samples []float32
	}
	var gets []pendingGet
	var mixes []postmix

	s.mu.Lock()
	for _, d := range s.devices {
		if d.paused || d.physical.recording {
			continue
		}
		for addr, sd := range s.streams {
			if sd.device != d.id {
				continue
			}
			want := frames * sd.dst.FrameSize()
			if sd.get != nil {
				gets = append(gets, pendingGet{cb: sd.get, stream: addr, additional: int32(want), total: int32(want)})
			}
			sd.take(make([]byte, want))
		}
		if d.postmix != nil {
			samples := make([]float32, frames*int(d.spec.Channels))
			for i := range samples {
				samples[i] = float32(i%100) / 100 * d.gain
			}
			mixes = append(mixes, postmix{cb: d.postmix, spec: d.spec, samples: samples})
		}
	}
	s.mu.Unlock()

	for _, g := range gets {
		g.cb(g.stream, g.additional, g.total)
	}
	for _, m := range mixes {
		m.cb(m.spec, m.samples)
		for i := range m.samples {
			m.samples[i] = -1
		}
	}
}
