// Package capture owns one recording session over a capture device:
// it accumulates PCM blocks as float samples and tracks the latest
// block loudness for the live meter.
package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"murmur/audio"
	"murmur/log"
)

// ErrAlreadyActive is returned when Start is called mid-recording.
// The session controller makes this structurally impossible, but the
// recorder still refuses rather than corrupting the buffer.
var ErrAlreadyActive = fmt.Errorf("capture already active")

// Device is the slice of audio.CaptureDevice the recorder needs.
type Device interface {
	Start() error
	Stop()
	SetCallback(cb audio.DataCallback)
	ClearCallback()
}

// Recorder accumulates capture blocks for one session at a time.
// The block callback runs on the audio backend's thread; everything it
// touches is either guarded by mu or a single atomic slot.
type Recorder struct {
	device     Device
	sampleRate int

	mu      sync.Mutex
	blocks  [][]float32
	active  bool
	started time.Time

	level atomic.Uint64 // Float64bits of the latest block RMS
}

func New(device Device, sampleRate int) *Recorder {
	return &Recorder{device: device, sampleRate: sampleRate}
}

// Start opens the capture stream and begins accumulating blocks.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyActive
	}
	r.blocks = nil
	r.active = true
	r.started = time.Now()
	r.mu.Unlock()

	r.level.Store(0)
	r.device.SetCallback(r.onBlock)

	if err := r.device.Start(); err != nil {
		r.device.ClearCallback()
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return fmt.Errorf("starting capture stream: %w", err)
	}
	return nil
}

// onBlock appends one PCM block and refreshes the loudness slot. A failure
// here must never take down the stream, so the handler recovers and drops
// the block instead.
func (r *Recorder) onBlock(data []byte, frameCount uint32) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("capture block dropped: %v", rec)
		}
	}()

	if len(data) < 2 {
		return
	}

	block := make([]float32, len(data)/2)
	var sumSquares float64
	for i := range block {
		s := float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768.0
		block[i] = s
		sumSquares += float64(s) * float64(s)
	}
	rms := math.Sqrt(sumSquares / float64(len(block)))

	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.blocks = append(r.blocks, block)
	r.mu.Unlock()

	r.level.Store(math.Float64bits(rms))
}

// Stop halts the stream and returns the flattened waveform, in block
// arrival order. It returns nil when nothing was captured, and is a no-op
// when not recording.
func (r *Recorder) Stop() []float32 {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return nil
	}
	r.active = false
	started := r.started
	r.mu.Unlock()

	r.device.Stop()
	r.device.ClearCallback()
	r.level.Store(0)

	r.mu.Lock()
	blocks := r.blocks
	r.blocks = nil
	r.mu.Unlock()

	if len(blocks) == 0 {
		log.Info("recording stopped with no audio")
		return nil
	}

	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	waveform := make([]float32, 0, total)
	for _, b := range blocks {
		waveform = append(waveform, b...)
	}

	log.Infof("recording stopped: %.1fs, %d samples", time.Since(started).Seconds(), total)
	return waveform
}

// Level returns the RMS of the most recent block, or 0 when idle.
func (r *Recorder) Level() float64 {
	return math.Float64frombits(r.level.Load())
}

// Active reports whether a session is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// SampleRate returns the configured capture rate.
func (r *Recorder) SampleRate() int {
	return r.sampleRate
}
