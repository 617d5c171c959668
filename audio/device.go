package audio

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrSelectionCancelled is returned when the user backs out of the picker.
var ErrSelectionCancelled = fmt.Errorf("device selection cancelled")

// SelectDevice runs a raw-mode picker over the available capture devices.
// A single device is returned without prompting. Navigation: arrows or
// j/k, a digit jumps straight to that row, Enter confirms, q cancels.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no capture devices found")
	case 1:
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	render := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Pick a microphone (↑/↓ or j/k, Enter confirms, q cancels):\r\n\r\n")
		for i, d := range devices {
			warn := ""
			if IsBluetooth(d.Name) {
				warn = " \x1b[33m(bluetooth, reduced quality)\x1b[0m"
			}
			marker := " "
			style, reset := "", ""
			if i == cursor {
				marker = "▶"
				style, reset = "\x1b[1;36m", "\x1b[0m"
			}
			fmt.Printf("  %s%s %d. %s%s%s\r\n", style, marker, i+1, d.Name, warn, reset)
		}
	}
	render()

	move := func(delta int) {
		next := cursor + delta
		if next >= 0 && next < len(devices) {
			cursor = next
		}
	}

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		if n == 1 {
			switch b := buf[0]; {
			case b == '\r':
				fmt.Print("\r\n")
				return &devices[cursor], nil
			case b == 'q', b == 3: // q or Ctrl+C
				fmt.Print("\r\n")
				return nil, ErrSelectionCancelled
			case b == 'j':
				move(1)
			case b == 'k':
				move(-1)
			case b >= '1' && b <= '9' && int(b-'1') < len(devices):
				cursor = int(b - '1')
			}
		} else if n == 3 && buf[0] == 0x1b && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				move(-1)
			case 'B':
				move(1)
			}
		}

		fmt.Printf("\x1b[%dA", len(devices)+2)
		render()
	}
}
