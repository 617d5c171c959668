package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"murmur/audio"
	"murmur/capture"
	"murmur/clipboard"
	"murmur/config"
	"murmur/log"
	"murmur/session"
	"murmur/transcriber"
)

// consoleSink prints one machine-readable line per outcome and signals
// settled (back to idle) so the stdin driver's WAIT can block on it.
type consoleSink struct {
	settled chan struct{}
}

func (s *consoleSink) signal() {
	select {
	case s.settled <- struct{}{}:
	default:
	}
}

func (s *consoleSink) RecordingStarted() { fmt.Println("RECORDING") }
func (s *consoleSink) RecordingFailed(err error) {
	fmt.Printf("RECORD_ERROR %v\n", err)
	s.signal()
}
func (s *consoleSink) RecordingTick(time.Duration, float64) {}
func (s *consoleSink) StoppedEmpty() {
	fmt.Println("STOPPED_EMPTY")
	s.signal()
}
func (s *consoleSink) TranscribingStarted() { fmt.Println("TRANSCRIBING") }
func (s *consoleSink) Transcribed(text string, copied bool) {
	fmt.Printf("TRANSCRIBED copied=%v %s\n", copied, text)
	s.signal()
}
func (s *consoleSink) TranscriptionFailed(err error) {
	fmt.Printf("TRANSCRIBE_ERROR %v\n", err)
	s.signal()
}
func (s *consoleSink) SilenceWarning(on bool) { fmt.Printf("SILENCE %v\n", on) }

// runTestMode drives the whole pipeline from stdin with a WAV file in
// place of the microphone. Commands: TOGGLE, WAIT, CLIP, SLEEP <ms>, QUIT.
func runTestMode(wavPath string, cfg *config.Config) {
	defer log.Close()

	engine, err := transcriber.New(cfg.Provider, cfg.Format, cfg.Language)
	if err != nil {
		// no API key in the test environment: canned result keeps the
		// pipeline exercisable offline
		engine = transcriber.NewFake("the quick brown fox", nil)
	}
	log.SessionStart(engine.Name(), cfg.Format)

	fakeCtx, err := audio.NewFakeContext(wavPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}

	captureDevice, err := fakeCtx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: uint32(cfg.SampleRate),
		Channels:   uint32(cfg.Channels),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating capture: %v\n", err)
		os.Exit(1)
	}
	defer captureDevice.Close()

	sink := &consoleSink{settled: make(chan struct{}, 1)}
	recorder := capture.New(captureDevice, cfg.SampleRate)
	ctrl := session.New(recorder, engine, clipboard.Board{}, sink, session.Config{
		SampleRate:    cfg.SampleRate,
		MeterInterval: cfg.MeterInterval,
		AutoStop:      cfg.AutoStop,
	})
	ctrl.Start()
	defer ctrl.Close()

	count := 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "TOGGLE":
			ctrl.Toggle()
		case "WAIT":
			<-sink.settled
			count++
		case "CLIP":
			// read the clipboard back so a driver script can verify the
			// transcript actually landed there
			if text, err := clipboard.Read(); err != nil {
				fmt.Printf("CLIP_ERROR %v\n", err)
			} else {
				fmt.Printf("CLIP %s\n", text)
			}
		case "QUIT":
			log.SessionEnd(count)
			return
		default:
			if strings.HasPrefix(cmd, "SLEEP ") {
				if ms, err := strconv.Atoi(cmd[6:]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		}
	}
}
