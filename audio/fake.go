package audio

import (
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	fakeBlockFrames   = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext replays a fixed PCM buffer through the CaptureDevice interface.
// It backs the headless test mode and lets the full pipeline run without a
// microphone.
type FakeContext struct {
	pcm []byte
}

// NewFakeContext loads 16-bit mono PCM from a WAV file.
func NewFakeContext(wavPath string) (*FakeContext, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	if len(data) > WAVHeaderSize {
		data = data[WAVHeaderSize:]
	}
	return &FakeContext{pcm: data}, nil
}

// NewFakeContextPCM wraps raw PCM bytes directly.
func NewFakeContextPCM(pcm []byte) *FakeContext {
	return &FakeContext{pcm: pcm}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{pcm: f.pcm}, nil
}

type FakeCapture struct {
	pcm      []byte
	callback atomic.Pointer[DataCallback]

	mu       sync.Mutex
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.callback.Store(&cb)
}

func (f *FakeCapture) ClearCallback() {
	f.callback.Store(nil)
}

func (f *FakeCapture) DeviceName() string { return "fake" }

func (f *FakeCapture) feed(data []byte) {
	if cb := f.callback.Load(); cb != nil {
		block := make([]byte, len(data))
		copy(block, data)
		(*cb)(block, uint32(len(block)/fakeBytesPerFrame))
	}
}

// Start replays the whole buffer immediately, then keeps feeding silence
// blocks until Stop so a recording stays "live" for as long as the caller
// wants.
func (f *FakeCapture) Start() error {
	f.mu.Lock()
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	stop, done := f.stopCh, f.feedDone
	f.mu.Unlock()

	chunkBytes := fakeBlockFrames * fakeBytesPerFrame

	for pos := 0; pos < len(f.pcm); pos += chunkBytes {
		end := pos + chunkBytes
		if end > len(f.pcm) {
			end = len(f.pcm)
		}
		f.feed(f.pcm[pos:end])
	}

	go func() {
		defer close(done)
		silence := make([]byte, chunkBytes)
		for {
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
			}
			f.feed(silence)
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	stop, done := f.stopCh, f.feedDone
	f.mu.Unlock()
	if stop == nil {
		return
	}
	select {
	case <-stop:
	default:
		close(stop)
	}
	<-done
}

func (f *FakeCapture) Close() {
	f.Stop()
}
