//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// crash logging must be in place before the audio backend loads
	initCrashLog()

	if wantsGUI(os.Args[1:]) {
		initGUI()
		return
	}
	mainthread.Init(run)
}
