package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir()) // no murmur.yaml there
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.SampleRate)
	}
	if cfg.Channels != 1 {
		t.Errorf("Channels = %d, want 1", cfg.Channels)
	}
	if cfg.MeterInterval != 50*time.Millisecond {
		t.Errorf("MeterInterval = %v, want 50ms", cfg.MeterInterval)
	}
	if cfg.Format != "wav" || cfg.Language != "en" {
		t.Errorf("Format = %q Language = %q", cfg.Format, cfg.Language)
	}
	if cfg.AutoPaste || cfg.AutoStop {
		t.Error("autopaste/autostop must default off")
	}
}

func TestYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := "provider: groq\nformat: flac\nmeter_interval: 100ms\nautostop: true\n"
	if err := os.WriteFile(filepath.Join(dir, "murmur.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "groq" || cfg.Format != "flac" {
		t.Errorf("Provider = %q Format = %q", cfg.Provider, cfg.Format)
	}
	if cfg.MeterInterval != 100*time.Millisecond {
		t.Errorf("MeterInterval = %v, want 100ms", cfg.MeterInterval)
	}
	if !cfg.AutoStop {
		t.Error("AutoStop not read from file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "language: en\n"
	if err := os.WriteFile(filepath.Join(dir, "murmur.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MURMUR_LANGUAGE", "tr")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Language != "tr" {
		t.Errorf("Language = %q, want tr (env wins over file)", cfg.Language)
	}
}

func TestValidation(t *testing.T) {
	for name, yaml := range map[string]string{
		"bad format":   "format: ogg\n",
		"bad provider": "provider: whisperx\n",
		"stereo":       "channels: 2\n",
		"bad rate":     "sample_rate: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "murmur.yaml"), []byte(yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(dir); err == nil {
				t.Errorf("expected validation error for %s", name)
			}
		})
	}
}
