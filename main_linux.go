//go:build linux

package main

import "os"

func main() {
	// crash logging must be in place before the audio backend loads
	initCrashLog()

	if wantsGUI(os.Args[1:]) {
		initGUI()
		return
	}

	run()
}
