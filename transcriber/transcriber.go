// Package transcriber sends a finished waveform to a speech-to-text API
// and returns the recognized text.
package transcriber

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"murmur/encoder"
	"murmur/log"
)

type NetworkMetrics struct {
	DNS        time.Duration
	ConnWait   time.Duration
	TCP        time.Duration
	TLS        time.Duration
	ReqHeaders time.Duration
	ReqBody    time.Duration
	TTFB       time.Duration
	Download   time.Duration
	Total      time.Duration
	ConnReused bool
}

func (m *NetworkMetrics) Sum() time.Duration {
	return m.ConnWait + m.DNS + m.TCP + m.TLS + m.ReqHeaders + m.ReqBody + m.TTFB + m.Download
}

func firstNonEmpty(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return "?"
}

type Result struct {
	Text      string
	Metrics   *NetworkMetrics
	RateLimit string
	Duration  float64
}

type Transcriber interface {
	Name() string
	SetLanguage(lang string)
	GetLanguage() string
	// Warm pre-opens the connection to the API. Best effort.
	Warm()
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}

// postFunc uploads one encoded clip; providers supply their own.
type postFunc func(ctx context.Context, audioData []byte, format string) (*Result, error)

type baseTranscriber struct {
	client *TracedClient
	apiURL string
	name   string
	format string
	lang   string
}

func (b *baseTranscriber) SetLanguage(lang string) { b.lang = lang }

func (b *baseTranscriber) GetLanguage() string { return b.lang }

func (b *baseTranscriber) Warm() { b.client.Warm() }

// run encodes the waveform, uploads it and logs one metrics line.
func (b *baseTranscriber) run(ctx context.Context, samples []float32, sampleRate int, post postFunc) (string, error) {
	encodeStart := time.Now()
	audioData, err := encoder.Encode(samples, sampleRate, b.format)
	if err != nil {
		return "", err
	}
	encodeMs := float64(time.Since(encodeStart).Microseconds()) / 1000.0

	res, err := post(ctx, audioData, b.format)
	if err != nil {
		return "", err
	}

	log.TranscriptionMetrics(log.Metrics{
		AudioLengthS: float64(len(samples)) / float64(sampleRate),
		UploadKB:     float64(len(audioData)) / 1024.0,
		EncodeMs:     encodeMs,
		DNSMs:        float64(res.Metrics.DNS.Microseconds()) / 1000.0,
		TLSMs:        float64(res.Metrics.TLS.Microseconds()) / 1000.0,
		TTFBMs:       float64(res.Metrics.TTFB.Microseconds()) / 1000.0,
		TotalMs:      float64(res.Metrics.Total.Microseconds()) / 1000.0,
	}, b.format, b.name, res.Metrics.ConnReused)
	if res.RateLimit != "" {
		log.Infof("rate limit remaining: %s", res.RateLimit)
	}

	return res.Text, nil
}

// New picks a provider. An explicit name wins; otherwise whichever API
// key is present in the environment decides, Groq first.
func New(provider, format, lang string) (Transcriber, error) {
	groqKey := os.Getenv("GROQ_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	switch provider {
	case "groq":
		if groqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
		return NewGroq(groqKey, format, lang), nil
	case "openai":
		if openaiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return NewOpenAI(openaiKey, format, lang), nil
	case "":
		if groqKey != "" {
			return NewGroq(groqKey, format, lang), nil
		}
		if openaiKey != "" {
			return NewOpenAI(openaiKey, format, lang), nil
		}
		return nil, fmt.Errorf("set GROQ_API_KEY or OPENAI_API_KEY environment variable")
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}
