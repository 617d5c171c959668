// Package clipboard puts transcripts on the system clipboard and can
// optionally paste them into the focused window.
package clipboard

import cb "github.com/atotto/clipboard"

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}

// Board adapts the package functions to the session's Clipboard
// interface.
type Board struct{}

func (Board) Copy(text string) error { return Copy(text) }
