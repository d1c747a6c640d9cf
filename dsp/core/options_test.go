package core

import "testing"

func TestApplyProcessorOptionsDefaults(t *testing.T) {
	cfg := ApplyProcessorOptions()
	if cfg.SampleRate != 44100 {
		t.Fatalf("SampleRate = %v, want 44100", cfg.SampleRate)
	}
	if cfg.BlockSize != 1024 {
		t.Fatalf("BlockSize = %d, want 1024", cfg.BlockSize)
	}
}

func TestApplyProcessorOptionsOverride(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(48000), WithBlockSize(256))
	if cfg.SampleRate != 48000 || cfg.BlockSize != 256 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestApplyProcessorOptionsRejectsInvalid(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), nil)
	if cfg.SampleRate != 44100 || cfg.BlockSize != 1024 {
		t.Fatalf("invalid values should keep defaults, got %+v", cfg)
	}
}
