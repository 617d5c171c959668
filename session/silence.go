package session

import "time"

const (
	silenceWarnEvery   = 8 * time.Second
	silenceAutoStopDur = 30 * time.Second
	speechMinRatio     = 0.10
	speechClearRatio   = 0.25 // higher threshold to clear the warning (hysteresis)

	// speechLevel is the RMS above which a meter tick counts as voice.
	speechLevel = 0.02
)

type silenceEvent int

const (
	silenceNone silenceEvent = iota
	silenceWarn              // no voice detected
	silenceClear             // speech resumed after a warning
	silenceAutoStop          // sustained all-silence window, stop the session
)

// silenceMonitor watches the per-tick speech signal over a sliding window.
// It warns once after a sustained silent stretch, clears the warning with
// hysteresis, and optionally stops the whole session after a much longer
// silence.
type silenceMonitor struct {
	warnAt   int
	windowSz int
	autoStop bool

	ticks       int
	window      []bool
	speechCount int
	warned      bool
}

func newSilenceMonitor(tick time.Duration, autoStop bool) *silenceMonitor {
	warnAt := int(silenceWarnEvery / tick)
	windowSz := int(silenceAutoStopDur / tick)
	return &silenceMonitor{
		warnAt:   warnAt,
		windowSz: windowSz,
		autoStop: autoStop,
		window:   make([]bool, windowSz),
	}
}

func (m *silenceMonitor) ratio(n int) float64 {
	if m.ticks < n {
		n = m.ticks
	}
	if n == 0 {
		return 1.0
	}
	count := 0
	for i := 0; i < n; i++ {
		if m.window[(m.ticks-1-i+m.windowSz)%m.windowSz] {
			count++
		}
	}
	return float64(count) / float64(n)
}

func (m *silenceMonitor) Tick(hasSpeech bool) silenceEvent {
	idx := m.ticks % m.windowSz
	if m.ticks >= m.windowSz && m.window[idx] {
		m.speechCount--
	}
	m.window[idx] = hasSpeech
	if hasSpeech {
		m.speechCount++
	}
	m.ticks++

	r := m.ratio(m.warnAt)

	if m.ticks >= m.warnAt && r < speechMinRatio && !m.warned {
		m.warned = true
		return silenceWarn
	}
	if m.warned && r >= speechClearRatio {
		m.warned = false
		return silenceClear
	}

	if m.autoStop && m.ticks >= m.windowSz &&
		float64(m.speechCount)/float64(m.windowSz) < speechMinRatio {
		return silenceAutoStop
	}

	return silenceNone
}
