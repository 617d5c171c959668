package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeCapture struct {
	mu       sync.Mutex
	startErr error
	waveform []float32
	level    float64
	starts   int
	stops    int
	active   bool
}

func (f *fakeCapture) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.active = true
	return nil
}

func (f *fakeCapture) Stop() []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return nil
	}
	f.active = false
	f.stops++
	return f.waveform
}

func (f *fakeCapture) Level() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

func (f *fakeCapture) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

type fakeEngine struct {
	text    string
	err     error
	calls   atomic.Int32
	release chan struct{} // when non-nil, Transcribe blocks until closed
	gotRate int
	gotLen  int
	mu      sync.Mutex
}

func (f *fakeEngine) Transcribe(_ context.Context, samples []float32, sampleRate int) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.gotRate = sampleRate
	f.gotLen = len(samples)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.text, f.err
}

type fakeClipboard struct {
	mu     sync.Mutex
	err    error
	copies []string
}

func (f *fakeClipboard) Copy(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.copies = append(f.copies, text)
	return nil
}

func (f *fakeClipboard) copied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.copies...)
}

type event struct {
	kind   string
	text   string
	copied bool
	err    error
}

// chanSink records every outcome; meter ticks are counted separately so
// they cannot flood the event stream.
type chanSink struct {
	events chan event
	ticks  atomic.Int32
}

func newChanSink() *chanSink {
	return &chanSink{events: make(chan event, 64)}
}

func (s *chanSink) RecordingStarted()         { s.events <- event{kind: "started"} }
func (s *chanSink) RecordingFailed(err error) { s.events <- event{kind: "failed", err: err} }
func (s *chanSink) RecordingTick(time.Duration, float64) {
	s.ticks.Add(1)
}
func (s *chanSink) StoppedEmpty()        { s.events <- event{kind: "stopped-empty"} }
func (s *chanSink) TranscribingStarted() { s.events <- event{kind: "transcribing"} }
func (s *chanSink) Transcribed(text string, copied bool) {
	s.events <- event{kind: "transcribed", text: text, copied: copied}
}
func (s *chanSink) TranscriptionFailed(err error) {
	s.events <- event{kind: "transcription-failed", err: err}
}
func (s *chanSink) SilenceWarning(on bool) { s.events <- event{kind: "silence", copied: on} }

func (s *chanSink) next(t *testing.T) event {
	t.Helper()
	select {
	case ev := <-s.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sink event")
		return event{}
	}
}

func (s *chanSink) expect(t *testing.T, kind string) event {
	t.Helper()
	ev := s.next(t)
	if ev.kind != kind {
		t.Fatalf("event = %q, want %q", ev.kind, kind)
	}
	return ev
}

func newTestController(rec *fakeCapture, eng *fakeEngine, clip *fakeClipboard, sink Sink) *Controller {
	c := New(rec, eng, clip, sink, Config{
		SampleRate:    16000,
		MeterInterval: time.Hour, // metering exercised separately
	})
	c.Start()
	return c
}

func waitForState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", c.State(), want)
}

func TestFullCycle(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 3072)}
	eng := &fakeEngine{text: "hello world"}
	clip := &fakeClipboard{}
	sink := newChanSink()
	c := newTestController(rec, eng, clip, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")

	c.Toggle()
	sink.expect(t, "transcribing")
	ev := sink.expect(t, "transcribed")
	if ev.text != "hello world" || !ev.copied {
		t.Errorf("transcribed = %+v, want hello world/copied", ev)
	}
	if got := clip.copied(); len(got) != 1 || got[0] != "hello world" {
		t.Errorf("clipboard = %v", got)
	}
	waitForState(t, c, Idle)

	eng.mu.Lock()
	if eng.gotRate != 16000 || eng.gotLen != 3072 {
		t.Errorf("engine got rate=%d len=%d", eng.gotRate, eng.gotLen)
	}
	eng.mu.Unlock()
}

func TestEmptyTranscriptIsNotAnError(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 3072)} // all-zero audio
	eng := &fakeEngine{text: ""}
	clip := &fakeClipboard{}
	sink := newChanSink()
	c := newTestController(rec, eng, clip, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "transcribing")

	ev := sink.expect(t, "transcribed")
	if ev.text != "" || ev.copied {
		t.Errorf("transcribed = %+v, want empty/uncopied", ev)
	}
	if len(clip.copied()) != 0 {
		t.Error("clipboard written for empty transcript")
	}
	waitForState(t, c, Idle)
}

func TestStartFailureStaysIdle(t *testing.T) {
	wantErr := errors.New("no input device")
	rec := &fakeCapture{startErr: wantErr}
	eng := &fakeEngine{}
	sink := newChanSink()
	c := newTestController(rec, eng, &fakeClipboard{}, sink)
	defer c.Close()

	c.Toggle()
	ev := sink.expect(t, "failed")
	if !errors.Is(ev.err, wantErr) {
		t.Errorf("err = %v, want %v", ev.err, wantErr)
	}
	waitForState(t, c, Idle)
	if eng.calls.Load() != 0 {
		t.Error("engine called after failed start")
	}
}

func TestToggleWhileTranscribingIsDropped(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 1024)}
	eng := &fakeEngine{text: "slow", release: make(chan struct{})}
	sink := newChanSink()
	c := newTestController(rec, eng, &fakeClipboard{}, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "transcribing")
	waitForState(t, c, Transcribing)

	// toggles while the worker is in flight must be ignored
	c.Toggle()
	time.Sleep(20 * time.Millisecond)
	if c.State() != Transcribing {
		t.Fatalf("state = %v, want Transcribing", c.State())
	}
	if rec.startCount() != 1 {
		t.Errorf("capture started %d times, want 1", rec.startCount())
	}

	close(eng.release)
	sink.expect(t, "transcribed")
	waitForState(t, c, Idle)
}

func TestToggleRacingCompletionIsDropped(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 1024)}
	eng := &fakeEngine{text: "done", release: make(chan struct{})}
	sink := newChanSink()
	c := newTestController(rec, eng, &fakeClipboard{}, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "transcribing")
	waitForState(t, c, Transcribing)

	// post the toggle and complete the worker in the same instant: the
	// intent was formed against Transcribing, so it must not restart
	// recording no matter which the loop sees first
	c.Toggle()
	close(eng.release)

	sink.expect(t, "transcribed")
	waitForState(t, c, Idle)
	time.Sleep(20 * time.Millisecond)
	if c.State() != Idle {
		t.Fatalf("state = %v, want Idle", c.State())
	}
	if rec.startCount() != 1 {
		t.Errorf("capture started %d times, want 1", rec.startCount())
	}
	select {
	case ev := <-sink.events:
		t.Fatalf("unexpected %q event after completion", ev.kind)
	default:
	}
}

func TestStopWithNoAudio(t *testing.T) {
	rec := &fakeCapture{waveform: nil}
	eng := &fakeEngine{}
	sink := newChanSink()
	c := newTestController(rec, eng, &fakeClipboard{}, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "stopped-empty")
	waitForState(t, c, Idle)
	if eng.calls.Load() != 0 {
		t.Error("engine called for empty capture")
	}
}

func TestTranscriptionFailure(t *testing.T) {
	wantErr := errors.New("api timeout")
	rec := &fakeCapture{waveform: make([]float32, 1024)}
	eng := &fakeEngine{err: wantErr}
	clip := &fakeClipboard{}
	sink := newChanSink()
	c := newTestController(rec, eng, clip, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "transcribing")

	ev := sink.expect(t, "transcription-failed")
	if !errors.Is(ev.err, wantErr) {
		t.Errorf("err = %v, want %v", ev.err, wantErr)
	}
	waitForState(t, c, Idle)
	if len(clip.copied()) != 0 {
		t.Error("clipboard written after transcription failure")
	}
}

func TestClipboardFailureDoesNotChangeOutcome(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 1024)}
	eng := &fakeEngine{text: "still shown"}
	clip := &fakeClipboard{err: errors.New("no display")}
	sink := newChanSink()
	c := newTestController(rec, eng, clip, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "transcribing")

	ev := sink.expect(t, "transcribed")
	if ev.text != "still shown" || ev.copied {
		t.Errorf("transcribed = %+v, want text without copied flag", ev)
	}
	waitForState(t, c, Idle)
}

func TestTranscriptWhitespaceTrimmed(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 1024)}
	eng := &fakeEngine{text: "  padded \n"}
	sink := newChanSink()
	c := newTestController(rec, eng, &fakeClipboard{}, sink)
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")
	c.Toggle()
	sink.expect(t, "transcribing")
	if ev := sink.expect(t, "transcribed"); ev.text != "padded" {
		t.Errorf("text = %q, want %q", ev.text, "padded")
	}
}

func TestMeterTicksWhileRecording(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 1024), level: 0.3}
	eng := &fakeEngine{text: "x"}
	sink := newChanSink()
	c := New(rec, eng, &fakeClipboard{}, sink, Config{
		SampleRate:    16000,
		MeterInterval: time.Millisecond,
	})
	c.Start()
	defer c.Close()

	c.Toggle()
	sink.expect(t, "started")

	deadline := time.Now().Add(2 * time.Second)
	for sink.ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if sink.ticks.Load() < 3 {
		t.Fatal("no meter ticks while recording")
	}

	c.Toggle()
	sink.expect(t, "transcribing")
	sink.expect(t, "transcribed")
	waitForState(t, c, Idle)

	// meter must stop with the recording
	n := sink.ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if sink.ticks.Load() != n {
		t.Error("meter kept ticking after recording ended")
	}
}

func TestRepeatedCycles(t *testing.T) {
	rec := &fakeCapture{waveform: make([]float32, 256)}
	eng := &fakeEngine{text: "again"}
	sink := newChanSink()
	c := newTestController(rec, eng, &fakeClipboard{}, sink)
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.Toggle()
		sink.expect(t, "started")
		c.Toggle()
		sink.expect(t, "transcribing")
		sink.expect(t, "transcribed")
		waitForState(t, c, Idle)
	}
	if eng.calls.Load() != 3 {
		t.Errorf("engine calls = %d, want 3", eng.calls.Load())
	}
}
