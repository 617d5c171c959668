package main

import (
	"sync"
	"testing"
	"time"

	"murmur/audio"
	"murmur/capture"
	"murmur/encoder"
	"murmur/hotkey"
	"murmur/session"
	"murmur/transcriber"
)

// memClipboard keeps tests off the real system clipboard.
type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *memClipboard) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *memClipboard) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

type eventSink struct {
	events chan string
}

func (s *eventSink) RecordingStarted()                    { s.events <- "started" }
func (s *eventSink) RecordingFailed(error)                { s.events <- "failed" }
func (s *eventSink) RecordingTick(time.Duration, float64) {}
func (s *eventSink) StoppedEmpty()                        { s.events <- "stopped-empty" }
func (s *eventSink) TranscribingStarted()                 { s.events <- "transcribing" }
func (s *eventSink) Transcribed(string, bool)             { s.events <- "transcribed" }
func (s *eventSink) TranscriptionFailed(error)            { s.events <- "transcription-failed" }
func (s *eventSink) SilenceWarning(bool)                  { s.events <- "silence" }

func (s *eventSink) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-s.events:
		if got != want {
			t.Fatalf("event = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

// TestHotkeyDrivesFullPipeline runs the wiring main sets up: hotkey
// presses into the controller, fake microphone in, transcript out to
// the clipboard.
func TestHotkeyDrivesFullPipeline(t *testing.T) {
	samples := make([]float32, 4096)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 0.5
		} else {
			samples[i] = -0.5
		}
	}
	fakeCtx := audio.NewFakeContextPCM(encoder.PCM16(samples))

	dev, err := fakeCtx.NewCapture(nil, audio.CaptureConfig{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()

	eng := transcriber.NewFake("ok go", nil)
	clip := &memClipboard{}
	sink := &eventSink{events: make(chan string, 16)}
	ctrl := session.New(capture.New(dev, 16000), eng, clip, sink, session.Config{
		SampleRate:    16000,
		MeterInterval: time.Hour,
	})
	ctrl.Start()
	defer ctrl.Close()

	hk := hotkey.NewFake()
	if err := hk.Register(); err != nil {
		t.Fatal(err)
	}
	defer hk.Unregister()
	go func() {
		for range hk.Presses() {
			ctrl.Toggle()
		}
	}()

	for cycle := 0; cycle < 2; cycle++ {
		hk.SimPress()
		sink.expect(t, "started")
		hk.SimPress()
		sink.expect(t, "transcribing")
		sink.expect(t, "transcribed")
	}

	if eng.Calls() != 2 {
		t.Errorf("engine calls = %d, want 2", eng.Calls())
	}
	if clip.get() != "ok go" {
		t.Errorf("clipboard = %q, want %q", clip.get(), "ok go")
	}
}
