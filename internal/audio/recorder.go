// Package audio owns microphone capture, WAV payload encoding, and the
// system-output mute guard used while a recording is live.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

const (
	// DefaultSampleRate is what the transcription service prefers.
	DefaultSampleRate = 16000
	// DefaultChannels is mono capture.
	DefaultChannels = 1

	// minDuration rejects accidental taps of the hotkey.
	minDuration = 500 * time.Millisecond
	// noiseFloor is the minimum mean absolute amplitude, as a fraction of
	// full scale, below which a take counts as silence.
	noiseFloor = 0.001
)

// DeviceError reports that the capture device could not be opened or
// started.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string { return fmt.Sprintf("audio device: %v", e.Err) }
func (e *DeviceError) Unwrap() error { return e.Err }

var (
	// ErrTooShort rejects takes under the minimum duration.
	ErrTooShort = errors.New("recording too short")
	// ErrSilent rejects takes whose level never rose above the noise floor.
	ErrSilent = errors.New("no speech detected in recording")
	// ErrNotRecording is returned by Stop without a matching Start.
	ErrNotRecording = errors.New("not recording")
)

// Clip is a validated take ready for transcription.
type Clip struct {
	WAV      []byte
	Duration time.Duration
	Samples  int
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateRecording
	stateStopped
)

// Recorder captures audio from the default microphone into an int16
// buffer. One take is live at a time; Start resets the previous take.
type Recorder struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate uint32
	channels   uint32

	mu    sync.Mutex
	buf   []int16
	state sessionState
}

// NewRecorder creates a recorder. Call Close when done.
func NewRecorder(sampleRate, channels uint32) (*Recorder, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	return &Recorder{
		ctx:        ctx,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// Start begins capturing from the default microphone. A *DeviceError
// means the device could not be opened; the recorder stays idle.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.state == stateRecording {
		r.mu.Unlock()
		return fmt.Errorf("already recording")
	}
	r.buf = r.buf[:0] // reset buffer but keep capacity
	r.state = stateRecording
	r.mu.Unlock()

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatS16
	deviceCfg.Capture.Channels = r.channels
	deviceCfg.SampleRate = r.sampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: r.onData,
	}

	device, err := malgo.InitDevice(r.ctx.Context, deviceCfg, callbacks)
	if err != nil {
		r.setState(stateIdle)
		return &DeviceError{Err: fmt.Errorf("initializing capture device: %w", err)}
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		r.setState(stateIdle)
		return &DeviceError{Err: fmt.Errorf("starting capture device: %w", err)}
	}

	r.mu.Lock()
	r.device = device
	r.mu.Unlock()

	return nil
}

// Stop ends the capture and validates the take: at least half a second
// long and with an average level above the noise floor. On success the
// take is returned WAV-encoded.
func (r *Recorder) Stop() (Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateRecording {
		return Clip{}, ErrNotRecording
	}
	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}
	r.state = stateStopped

	samples := make([]int16, len(r.buf))
	copy(samples, r.buf)
	return buildClip(samples, r.sampleRate, r.channels)
}

// IsRecording returns whether the recorder is currently capturing audio.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRecording
}

// Close releases all audio resources.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}
	r.state = stateIdle
	r.mu.Unlock()

	if r.ctx != nil {
		if err := r.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninitializing audio context: %w", err)
		}
		r.ctx.Free()
	}

	return nil
}

func (r *Recorder) setState(s sessionState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// onData is the malgo callback invoked when audio data is available.
// pSample contains the captured frames as raw little-endian int16 bytes.
func (r *Recorder) onData(_, pSample []byte, frameCount uint32) {
	samples := bytesToInt16(pSample, frameCount*r.channels)

	r.mu.Lock()
	if r.state == stateRecording {
		r.buf = append(r.buf, samples...)
	}
	r.mu.Unlock()
}

// buildClip validates raw samples and encodes the WAV payload.
func buildClip(samples []int16, sampleRate, channels uint32) (Clip, error) {
	if channels == 0 {
		channels = 1
	}
	dur := time.Duration(len(samples)) * time.Second / time.Duration(int64(sampleRate)*int64(channels))
	if dur < minDuration {
		return Clip{}, fmt.Errorf("%w: %.2fs", ErrTooShort, dur.Seconds())
	}
	if meanLevel(samples) < noiseFloor {
		return Clip{}, ErrSilent
	}

	payload, err := EncodeWAV(samples, sampleRate, channels)
	if err != nil {
		return Clip{}, fmt.Errorf("encoding wav: %w", err)
	}
	return Clip{WAV: payload, Duration: dur, Samples: len(samples)}, nil
}

// meanLevel is the mean absolute amplitude as a fraction of int16 full
// scale.
func meanLevel(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum / float64(len(samples)) / 32768.0
}

// bytesToInt16 converts raw bytes (little-endian PCM) to an int16 slice.
func bytesToInt16(data []byte, sampleCount uint32) []int16 {
	samples := make([]int16, 0, sampleCount)
	for i := uint32(0); i < sampleCount; i++ {
		offset := i * 2
		if offset+2 > uint32(len(data)) {
			break
		}
		samples = append(samples, int16(binary.LittleEndian.Uint16(data[offset:offset+2])))
	}
	return samples
}
