//go:build gui

package main

import (
	"murmur/gui"
	"murmur/session"
)

var guiApp *gui.App

func initGUI() {
	guiMode = true
	guiApp = gui.NewApp(run)
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

func guiSink() session.Sink { return guiApp }

func setGUIToggle(fn func()) { guiApp.SetToggle(fn) }
