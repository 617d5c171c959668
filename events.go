package main

import (
	"fmt"
	"time"

	"murmur/audio"
	"murmur/clipboard"
	"murmur/log"
	"murmur/session"
	"murmur/transcriber"
)

func deviceLineText(dev *audio.DeviceInfo) string {
	name := "system default"
	suffix := ""
	if dev != nil {
		name = dev.Name
		if audio.IsBluetooth(dev.Name) {
			suffix = " (BT!)"
		}
	}
	return "mic: " + name + suffix
}

func modeLineText(t transcriber.Transcriber, format string) string {
	providerLabel := t.Name()
	if lang := t.GetLanguage(); lang != "" {
		providerLabel += " (" + lang + ")"
	}
	return fmt.Sprintf("[%s | %s]", format, providerLabel)
}

// pasteSink forwards every event and additionally pastes into the
// focused window when a transcript landed on the clipboard.
type pasteSink struct {
	session.Sink
}

func (s *pasteSink) Transcribed(text string, copied bool) {
	s.Sink.Transcribed(text, copied)
	if copied && autoPaste.Load() {
		if err := clipboard.Paste(); err != nil {
			log.Warnf("paste failed: %v", err)
		}
	}
}

// logSink is the display layer for -tui=false: outcomes go to the
// diagnostics log only.
type logSink struct{}

func (logSink) RecordingStarted()                        { log.Info("recording_started") }
func (logSink) RecordingFailed(err error)                { log.Errorf("recording failed: %v", err) }
func (logSink) RecordingTick(time.Duration, float64)     {}
func (logSink) StoppedEmpty()                            { log.Info("stopped_empty") }
func (logSink) TranscribingStarted()                     { log.Info("transcribing") }
func (logSink) Transcribed(text string, copied bool)     { log.Infof("transcribed %d chars (copied=%v)", len(text), copied) }
func (logSink) TranscriptionFailed(err error)            { log.Errorf("transcription failed: %v", err) }
func (logSink) SilenceWarning(on bool)                   { log.Infof("silence_warning=%v", on) }
