package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type RecordingStartMsg struct{}
type RecordingFailedMsg struct{ Err error }
type RecordingTickMsg struct {
	Elapsed time.Duration
	Level   float64
}
type StoppedEmptyMsg struct{}
type TranscribingMsg struct{}
type TranscriptionMsg struct {
	Text   string
	Copied bool
}
type TranscriptionErrMsg struct{ Err error }
type SilenceWarningMsg struct{ On bool }

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex

	tuiToggleMu sync.Mutex
	tuiToggle   func()
)

func setTUIToggle(fn func()) {
	tuiToggleMu.Lock()
	tuiToggle = fn
	tuiToggleMu.Unlock()
}

func fireToggle() {
	tuiToggleMu.Lock()
	fn := tuiToggle
	tuiToggleMu.Unlock()
	if fn != nil {
		fn()
	}
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards session events into the Bubble Tea program.
type tuiSink struct{}

func (tuiSink) RecordingStarted()         { tuiSend(RecordingStartMsg{}) }
func (tuiSink) RecordingFailed(err error) { tuiSend(RecordingFailedMsg{Err: err}) }
func (tuiSink) RecordingTick(elapsed time.Duration, level float64) {
	tuiSend(RecordingTickMsg{Elapsed: elapsed, Level: level})
}
func (tuiSink) StoppedEmpty()        { tuiSend(StoppedEmptyMsg{}) }
func (tuiSink) TranscribingStarted() { tuiSend(TranscribingMsg{}) }
func (tuiSink) Transcribed(text string, copied bool) {
	tuiSend(TranscriptionMsg{Text: text, Copied: copied})
}
func (tuiSink) TranscriptionFailed(err error) { tuiSend(TranscriptionErrMsg{Err: err}) }
func (tuiSink) SilenceWarning(on bool)        { tuiSend(SilenceWarningMsg{On: on}) }

type tuiState int

const (
	tuiStateIdle tuiState = iota
	tuiStateRecording
	tuiStateTranscribing
)

type tuiModel struct {
	state         tuiState
	elapsed       time.Duration
	audioLevel    float64
	peakLevel     float64
	silenceWarn   bool
	msgCount      int
	lastText      string
	lastCopied    bool
	lastErr       string
	width, height int
	modeLine      string
	deviceLine    string
}

var (
	styleRec     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleBusy    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	styleStandby = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleText    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleCopied  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleMeterLo = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleMeterHi = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func NewTUIProgram(deviceLine, modeLine string) *tea.Program {
	m := tuiModel{deviceLine: deviceLine, modeLine: modeLine}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ", "enter":
			fireToggle()
		}

	case RecordingStartMsg:
		m.state = tuiStateRecording
		m.elapsed = 0
		m.audioLevel = 0
		m.peakLevel = 0
		m.silenceWarn = false
		m.lastErr = ""

	case RecordingFailedMsg:
		m.state = tuiStateIdle
		m.lastErr = msg.Err.Error()

	case RecordingTickMsg:
		if m.state == tuiStateRecording {
			m.elapsed = msg.Elapsed
			m.audioLevel = m.audioLevel*0.6 + msg.Level*0.4
			if msg.Level > m.peakLevel {
				m.peakLevel = msg.Level
			}
		}

	case StoppedEmptyMsg:
		m.state = tuiStateIdle
		m.audioLevel = 0
		m.silenceWarn = false

	case TranscribingMsg:
		m.state = tuiStateTranscribing
		m.audioLevel = 0
		m.silenceWarn = false

	case TranscriptionMsg:
		m.state = tuiStateIdle
		m.msgCount++
		m.lastText = msg.Text
		m.lastCopied = msg.Copied
		m.lastErr = ""

	case TranscriptionErrMsg:
		m.state = tuiStateIdle
		m.lastErr = msg.Err.Error()

	case SilenceWarningMsg:
		m.silenceWarn = msg.On
	}
	return m, nil
}

const meterWidth = 30

func renderMeter(level float64) string {
	filled := int(level * 3 * meterWidth) // full bar well below clipping
	if filled > meterWidth {
		filled = meterWidth
	}
	var b strings.Builder
	for i := 0; i < meterWidth; i++ {
		switch {
		case i >= filled:
			b.WriteString(styleStandby.Render("·"))
		case i >= meterWidth*3/4:
			b.WriteString(styleMeterHi.Render("█"))
		default:
			b.WriteString(styleMeterLo.Render("█"))
		}
	}
	return b.String()
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string

	switch m.state {
	case tuiStateRecording:
		lines = append(lines, styleRec.Render(fmt.Sprintf("● REC %.1fs", m.elapsed.Seconds())))
		lines = append(lines, renderMeter(m.audioLevel))
		if m.silenceWarn {
			lines = append(lines, styleWarn.Render("⚠ no voice detected"))
		}
	case tuiStateTranscribing:
		lines = append(lines, styleBusy.Render("◌ TRANSCRIBING..."))
		lines = append(lines, renderMeter(0))
	default:
		lines = append(lines, styleStandby.Render("○ STANDBY"))
		lines = append(lines, renderMeter(0))
	}

	lines = append(lines, "")
	lines = append(lines, styleDim.Render(m.modeLine))
	lines = append(lines, styleStandby.Render(m.deviceLine))
	lines = append(lines, "")

	if m.lastErr != "" {
		lines = append(lines, styleErr.Render("error: "+m.lastErr))
	} else if m.lastText != "" {
		title := styleDim.Render(fmt.Sprintf("Last transcription (#%d)", m.msgCount))
		lines = append(lines, title)
		wrapWidth := m.width - 4
		if wrapWidth < 10 {
			wrapWidth = 10
		}
		wrapped := wrapText(m.lastText, wrapWidth)
		for i, line := range wrapped {
			rendered := styleText.Render(line)
			if i == len(wrapped)-1 && m.lastCopied {
				rendered += " " + styleCopied.Render("[✓ copied]")
			}
			lines = append(lines, rendered)
		}
	} else {
		lines = append(lines, styleStandby.Render("No transcriptions yet"))
	}

	lines = append(lines, "")
	help := styleHelp.Bold(true).Render("Ctrl+Shift+Space") + styleHelp.Render(" or space to toggle · q to quit")
	lines = append(lines, help)
	lines = append(lines, styleHelp.Render("murmur "+version))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
