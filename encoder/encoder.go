// Package encoder turns a captured float waveform into the byte formats
// the transcription APIs accept.
package encoder

import (
	"encoding/binary"
	"fmt"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

const wavHeaderSize = 44

// PCM16 converts float samples in [-1, 1] to little-endian 16-bit PCM.
// Out-of-range samples are clamped.
func PCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int32(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}

// WAV wraps the waveform in a canonical 44-byte RIFF header.
func WAV(samples []float32, sampleRate int) []byte {
	pcm := PCM16(samples)
	buf := make([]byte, wavHeaderSize+len(pcm))

	byteRate := sampleRate * Channels * BitsPerSample / 8
	blockAlign := Channels * BitsPerSample / 8

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(wavHeaderSize-8+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], Channels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], BitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[wavHeaderSize:], pcm)

	return buf
}

// Encode renders the waveform in the named upload format.
func Encode(samples []float32, sampleRate int, format string) ([]byte, error) {
	switch format {
	case "wav":
		return WAV(samples, sampleRate), nil
	case "flac":
		return FLAC(samples, sampleRate)
	default:
		return nil, fmt.Errorf("unknown format %q (use wav or flac)", format)
	}
}
