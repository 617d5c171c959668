package encoder

import (
	"bytes"
	"fmt"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// FLAC renders the waveform as a lossless FLAC stream.
func FLAC(samples []float32, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer

	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     Channels,
		BitsPerSample: BitsPerSample,
		NSamples:      uint64(len(samples)),
	}
	enc, err := flac.NewEncoder(&buf, info)
	if err != nil {
		return nil, fmt.Errorf("creating flac encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)

	pcm := PCM16(samples)
	for off := 0; off < len(pcm); off += BlockSize * 2 {
		end := off + BlockSize*2
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := writeFlacFrame(enc, pcm[off:end], sampleRate); err != nil {
			return nil, err
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing flac encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFlacFrame(enc *flac.Encoder, pcm []byte, sampleRate int) error {
	n := len(pcm) / 2
	samples32 := make([]int32, n)
	for i := 0; i < n; i++ {
		samples32[i] = int32(int16(pcm[i*2]) | int16(pcm[i*2+1])<<8)
	}

	subframe := &frame.Subframe{
		SubHeader: frame.SubHeader{
			Pred: frame.PredVerbatim,
		},
		Samples:  samples32,
		NSamples: n,
	}

	f := &frame.Frame{
		Header: frame.Header{
			BlockSize:     uint16(n),
			SampleRate:    uint32(sampleRate),
			Channels:      frame.ChannelsMono,
			BitsPerSample: BitsPerSample,
		},
		Subframes: []*frame.Subframe{subframe},
	}

	if err := enc.WriteFrame(f); err != nil {
		return fmt.Errorf("writing flac frame: %w", err)
	}
	return nil
}
