package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	s := Default()
	s.MinMultiplier = 2
	s.MaxMultiplier = 1
	s.Damping = 1.5
	s.TideClassification = 6

	err := s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []error{ErrMultiplierRange, ErrDampingRange, ErrTideClassification} {
		if !errors.Is(err, want) {
			t.Errorf("error %v does not wrap %v", err, want)
		}
	}
	if errors.Is(err, ErrAttemptBudget) {
		t.Error("unexpected attempt budget error")
	}
}

func TestSanitize(t *testing.T) {
	s := Default()
	s.MinMultiplier = 2
	s.MaxMultiplier = 1
	s.Damping = -1
	s.WaveHeight = -3
	s.CalibrationAttempts = 0
	s.Workers = 0

	got := s.Sanitize()
	if err := got.Validate(); err != nil {
		t.Fatalf("sanitized settings still invalid: %v", err)
	}
	if got.MaxMultiplier != 2 {
		t.Errorf("MaxMultiplier = %v, want 2", got.MaxMultiplier)
	}
	if got.Workers != 1 {
		t.Errorf("Workers = %d, want 1", got.Workers)
	}
}

func TestWavesActive(t *testing.T) {
	s := Default()
	s.WaveHeight, s.TideHeight = 0, 0
	if s.WavesActive() {
		t.Error("zero heights must be inactive")
	}
	s.TideHeight = 1
	if !s.WavesActive() {
		t.Error("tide height alone must activate")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	s := Default()
	s.TidesAndWaves = true
	s.WaveHeight = 4
	s.WaveFrequency = 130
	s.TideClassification = TideDiurnal

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("wave_height = 2.5\nseasonal_streams = false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.WaveHeight != 2.5 || got.SeasonalStreams {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.RainWeight != Default().RainWeight {
		t.Errorf("RainWeight = %v, want default", got.RainWeight)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("wave_height = \"tall\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error for type mismatch")
	}
}
