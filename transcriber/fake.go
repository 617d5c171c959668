package transcriber

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// FakeTranscriber returns a canned result after an optional delay. Used
// by the headless test harness, so no network or API key is needed.
type FakeTranscriber struct {
	text  string
	err   error
	delay time.Duration
	lang  string
	calls atomic.Int32
}

func NewFake(text string, err error) *FakeTranscriber {
	return &FakeTranscriber{text: text, err: err}
}

func NewFakeWithDelay(text string, delay time.Duration) *FakeTranscriber {
	return &FakeTranscriber{text: text, delay: delay}
}

func (f *FakeTranscriber) Name() string           { return "fake" }
func (f *FakeTranscriber) Warm()                  {}
func (f *FakeTranscriber) SetLanguage(lang string) { f.lang = lang }
func (f *FakeTranscriber) GetLanguage() string     { return f.lang }

func (f *FakeTranscriber) Calls() int { return int(f.calls.Load()) }

func (f *FakeTranscriber) Transcribe(ctx context.Context, _ []float32, _ int) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", fmt.Errorf("fake transcriber error: %w", f.err)
	}
	return f.text, nil
}
