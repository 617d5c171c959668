// Package hotkey watches for the global toggle combination
// (Ctrl+Shift+Space) and reports each press.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	// Presses delivers one value per completed press of the combo.
	Presses() <-chan struct{}
}
