package encoder

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestPCM16Clamps(t *testing.T) {
	out := PCM16([]float32{0, 1.5, -1.5, 0.5})
	if got := int16(binary.LittleEndian.Uint16(out[0:])); got != 0 {
		t.Errorf("sample 0 = %d, want 0", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != 32767 {
		t.Errorf("sample 1 = %d, want 32767 (clamped)", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[4:])); got != -32768 {
		t.Errorf("sample 2 = %d, want -32768 (clamped)", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[6:])); got != 16383 {
		t.Errorf("sample 3 = %d, want 16383", got)
	}
}

func TestWAVHeader(t *testing.T) {
	samples := make([]float32, 3072)
	buf := WAV(samples, SampleRate)

	if len(buf) != wavHeaderSize+len(samples)*2 {
		t.Fatalf("len = %d, want %d", len(buf), wavHeaderSize+len(samples)*2)
	}
	if !bytes.Equal(buf[0:4], []byte("RIFF")) || !bytes.Equal(buf[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE markers")
	}
	if rate := binary.LittleEndian.Uint32(buf[24:28]); rate != SampleRate {
		t.Errorf("sample rate = %d, want %d", rate, SampleRate)
	}
	if ch := binary.LittleEndian.Uint16(buf[22:24]); ch != Channels {
		t.Errorf("channels = %d, want %d", ch, Channels)
	}
	if sz := binary.LittleEndian.Uint32(buf[40:44]); sz != uint32(len(samples)*2) {
		t.Errorf("data size = %d, want %d", sz, len(samples)*2)
	}
	// all-zero waveform stays all-zero PCM
	for i := wavHeaderSize; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("non-zero PCM byte at %d", i)
		}
	}
}

func TestFLACProducesStream(t *testing.T) {
	samples := make([]float32, BlockSize+BlockSize/2)
	for i := range samples {
		samples[i] = float32(i%100) / 200
	}
	out, err := FLAC(samples, SampleRate)
	if err != nil {
		t.Fatalf("FLAC: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("fLaC")) {
		t.Error("missing fLaC stream marker")
	}
	if len(out) == 0 {
		t.Error("empty flac output")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := Encode(nil, SampleRate, "ogg"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestEncodeWAV(t *testing.T) {
	out, err := Encode(make([]float32, 16), SampleRate, "wav")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != wavHeaderSize+32 {
		t.Errorf("len = %d, want %d", len(out), wavHeaderSize+32)
	}
}
