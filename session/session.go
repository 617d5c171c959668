// Package session drives the record/transcribe cycle: a three-state
// machine whose transitions all happen on one loop goroutine, fed by
// toggle intents and by the background transcription worker.
package session

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"murmur/log"
)

type State int32

const (
	Idle State = iota
	Recording
	Transcribing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	}
	return "unknown"
}

// Capture is the recorder surface the controller drives.
type Capture interface {
	Start() error
	Stop() []float32
	Level() float64
}

// Engine turns a finished waveform into text. Implementations report
// failure as an error, never a panic.
type Engine interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}

// Clipboard publishes the transcript system-wide.
type Clipboard interface {
	Copy(text string) error
}

// Sink receives every externally observable outcome of the state machine
// plus the live meter stream. Implementations must not block.
type Sink interface {
	RecordingStarted()
	RecordingFailed(err error)
	RecordingTick(elapsed time.Duration, level float64)
	StoppedEmpty()
	TranscribingStarted()
	Transcribed(text string, copied bool)
	TranscriptionFailed(err error)
	SilenceWarning(on bool)
}

type Config struct {
	SampleRate    int
	MeterInterval time.Duration
	AutoStop      bool // stop the session after a long all-silence window
}

type transcribeResult struct {
	text string
	err  error
}

// Controller owns the process-wide session state. All transitions happen
// on the loop goroutine; Toggle and the worker only post into it.
type Controller struct {
	capture Capture
	engine  Engine
	clip    Clipboard
	sink    Sink
	cfg     Config

	toggles chan struct{}
	results chan transcribeResult
	stopCh  chan struct{}
	done    chan struct{}

	// written only by the loop goroutine
	state     atomic.Int32
	startedAt time.Time
	silence   *silenceMonitor
}

func New(capture Capture, engine Engine, clip Clipboard, sink Sink, cfg Config) *Controller {
	if cfg.MeterInterval <= 0 {
		cfg.MeterInterval = 50 * time.Millisecond
	}
	return &Controller{
		capture: capture,
		engine:  engine,
		clip:    clip,
		sink:    sink,
		cfg:     cfg,
		toggles: make(chan struct{}, 1),
		results: make(chan transcribeResult, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (c *Controller) Start() {
	go c.loop()
}

// Close stops the loop. An in-flight transcription is abandoned; shutdown
// is abrupt process termination territory.
func (c *Controller) Close() {
	select {
	case <-c.stopCh:
	default:
		close(c.stopCh)
	}
	<-c.done
}

// Toggle posts one user intent. Intents arriving faster than the loop can
// drain collapse into one, which matches hammering a button.
func (c *Controller) Toggle() {
	select {
	case c.toggles <- struct{}{}:
	default:
	}
}

func (c *Controller) loop() {
	defer close(c.done)

	var meter *time.Ticker
	var meterC <-chan time.Time

	stopMeter := func() {
		if meter != nil {
			meter.Stop()
			meter = nil
			meterC = nil
		}
	}
	defer stopMeter()

	for {
		select {
		case <-c.stopCh:
			if c.State() == Recording {
				c.capture.Stop()
			}
			return

		case <-c.toggles:
			switch c.State() {
			case Idle:
				c.beginRecording(&meter, &meterC)
			case Recording:
				stopMeter()
				c.finishRecording()
			case Transcribing:
				// dropped, not queued
				log.Info("toggle ignored while transcribing")
			}

		case <-meterC:
			level := c.capture.Level()
			c.sink.RecordingTick(time.Since(c.startedAt), level)
			switch c.silence.Tick(level >= speechLevel) {
			case silenceWarn:
				log.Info("no_voice_warning")
				c.sink.SilenceWarning(true)
			case silenceClear:
				c.sink.SilenceWarning(false)
			case silenceAutoStop:
				log.Info("silence_auto_stop")
				c.sink.SilenceWarning(false)
				stopMeter()
				c.finishRecording()
			}

		case res := <-c.results:
			// a toggle racing the worker's completion was formed against
			// Transcribing; drop it here so it cannot replay as a fresh
			// start against the Idle state entered below
			select {
			case <-c.toggles:
				log.Info("toggle ignored while transcribing")
			default:
			}
			c.state.Store(int32(Idle))
			if res.err != nil {
				log.Errorf("transcription error: %v", res.err)
				c.sink.TranscriptionFailed(res.err)
				continue
			}
			copied := false
			if res.text != "" {
				if err := c.clip.Copy(res.text); err != nil {
					log.Warnf("clipboard copy failed: %v", err)
				} else {
					copied = true
				}
				log.TranscriptionText(res.text)
			} else {
				log.Info("no_speech")
			}
			c.sink.Transcribed(res.text, copied)
		}
	}
}

func (c *Controller) beginRecording(meter **time.Ticker, meterC *<-chan time.Time) {
	if err := c.capture.Start(); err != nil {
		log.Errorf("recording start failed: %v", err)
		c.sink.RecordingFailed(err)
		return
	}
	c.state.Store(int32(Recording))
	c.startedAt = time.Now()
	c.silence = newSilenceMonitor(c.cfg.MeterInterval, c.cfg.AutoStop)
	*meter = time.NewTicker(c.cfg.MeterInterval)
	*meterC = (*meter).C
	log.Info("recording_start")
	c.sink.RecordingStarted()
}

func (c *Controller) finishRecording() {
	waveform := c.capture.Stop()
	if len(waveform) == 0 {
		c.state.Store(int32(Idle))
		c.sink.StoppedEmpty()
		return
	}

	c.state.Store(int32(Transcribing))
	c.sink.TranscribingStarted()

	go func(samples []float32) {
		text, err := c.engine.Transcribe(context.Background(), samples, c.cfg.SampleRate)
		c.results <- transcribeResult{text: strings.TrimSpace(text), err: err}
	}(waveform)
}

// State reads the current machine state.
func (c *Controller) State() State {
	return State(c.state.Load())
}
