//go:build !gui

package main

import "murmur/session"

func initGUI() {
	panic("murmur: built without GUI support (rebuild with -tags gui)")
}

func guiSink() session.Sink { return nil }

func setGUIToggle(func()) {}
