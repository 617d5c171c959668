//go:build gui

package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// App is the optional desktop window: a record button, live level bar
// and the last transcript. It doubles as the session event sink.
type App struct {
	fyneApp    fyne.App
	window     fyne.Window
	record     *widget.Button
	status     *widget.Label
	meter      *widget.ProgressBar
	transcript *widget.Label
	onReady    func()
	toggle     func()
}

func NewApp(onReady func()) *App {
	return &App{onReady: onReady}
}

func (a *App) SetToggle(fn func()) { a.toggle = fn }

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.murmur.gui")
	a.fyneApp.Settings().SetTheme(murmurTheme{})

	a.window = a.fyneApp.NewWindow("murmur")

	a.record = widget.NewButton("Record", func() {
		if a.toggle != nil {
			a.toggle()
		}
	})
	a.status = widget.NewLabel("Ready")
	a.meter = widget.NewProgressBar()
	a.meter.TextFormatter = func() string { return "" }
	a.transcript = widget.NewLabel("")
	a.transcript.Wrapping = fyne.TextWrapWord

	a.window.SetContent(container.NewVBox(
		a.record,
		a.status,
		a.meter,
		widget.NewSeparator(),
		a.transcript,
	))
	a.window.Resize(fyne.NewSize(420, 260))

	go a.onReady()

	a.window.ShowAndRun()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

// session.Sink implementation; every update hops to the UI thread.

func (a *App) RecordingStarted() {
	fyne.Do(func() {
		a.record.SetText("Stop")
		a.status.SetText("Recording...")
		a.meter.SetValue(0)
	})
}

func (a *App) RecordingFailed(err error) {
	fyne.Do(func() {
		a.record.SetText("Record")
		a.status.SetText("Error: " + err.Error())
	})
}

func (a *App) RecordingTick(elapsed time.Duration, level float64) {
	v := level * 3
	if v > 1 {
		v = 1
	}
	fyne.Do(func() {
		a.status.SetText(fmt.Sprintf("Recording %.1fs", elapsed.Seconds()))
		a.meter.SetValue(v)
	})
}

func (a *App) StoppedEmpty() {
	fyne.Do(func() {
		a.record.SetText("Record")
		a.status.SetText("Nothing captured")
		a.meter.SetValue(0)
	})
}

func (a *App) TranscribingStarted() {
	fyne.Do(func() {
		a.record.SetText("Record")
		a.status.SetText("Transcribing...")
		a.meter.SetValue(0)
	})
}

func (a *App) Transcribed(text string, copied bool) {
	status := "Done"
	if copied {
		status = "Done — copied to clipboard"
	}
	if text == "" {
		status = "No speech detected"
	}
	fyne.Do(func() {
		a.status.SetText(status)
		if text != "" {
			a.transcript.SetText(text)
		}
	})
}

func (a *App) TranscriptionFailed(err error) {
	fyne.Do(func() {
		a.status.SetText("Error: " + err.Error())
	})
}

func (a *App) SilenceWarning(on bool) {
	fyne.Do(func() {
		if on {
			a.status.SetText("Recording — no voice detected")
		} else {
			a.status.SetText("Recording...")
		}
	})
}
