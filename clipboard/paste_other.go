//go:build !darwin

package clipboard

import (
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

func InitPaste() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if kbErr == nil {
			// uinput devices need a moment to register before the
			// first synthetic keystroke is seen
			time.Sleep(2 * time.Second)
		}
	})
	return kbErr
}

// Paste sends Ctrl+V to the focused application.
func Paste() error {
	if err := InitPaste(); err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}
