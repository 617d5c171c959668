package main

import (
	"strconv"
	"strings"
)

// wantsGUI reports whether the argument list selects the desktop window,
// accepting the spellings the flag package does: -gui, --gui, -gui=true.
// The GUI decision must be made before flag.Parse runs because the window
// toolkit claims the main thread. Scanning stops at the "--" terminator.
func wantsGUI(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}
		name := arg[1:]
		if strings.HasPrefix(name, "-") {
			name = name[1:]
		}
		if name == "gui" {
			return true
		}
		if val, ok := strings.CutPrefix(name, "gui="); ok {
			if b, err := strconv.ParseBool(val); err == nil && b {
				return true
			}
		}
	}
	return false
}
