package idhash

import (
	"strings"
	"testing"
)

func TestComputeCacheKeyID(t *testing.T) {
	tests := []struct {
		name    string
		shape   string
		args    []string
		wantLen int // hash length should be 64
	}{
		{
			name:    "samples with range",
			shape:   "samples",
			args:    []string{"1", "1710230400", "1710234000"},
			wantLen: 64,
		},
		{
			name:    "list query without args",
			shape:   "configs",
			args:    nil,
			wantLen: 64,
		},
		{
			name:    "empty argument",
			shape:   "sensor_names",
			args:    []string{""},
			wantLen: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCacheKeyID(tt.shape, tt.args...)
			if len(got) != tt.wantLen {
				t.Errorf("ComputeCacheKeyID() len = %d, want %d", len(got), tt.wantLen)
			}
			if strings.ToLower(got) != got {
				t.Errorf("ComputeCacheKeyID() should be lowercase hex, got %s", got)
			}
		})
	}
}

func TestComputeCacheKeyID_Determinism(t *testing.T) {
	results := make([]string, 100)
	for i := range results {
		results[i] = ComputeCacheKeyID("samples", "1", "100", "200")
	}

	// All should be identical
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Determinism failed: results[%d]=%s != results[0]=%s", i, results[i], results[0])
		}
	}
}

func TestComputeCacheKeyID_DifferentInputs(t *testing.T) {
	base := ComputeCacheKeyID("samples", "1", "100", "200")

	// Different shape should produce different hash
	if base == ComputeCacheKeyID("actuator_events", "1", "100", "200") {
		t.Error("Different shape should produce different hash")
	}

	// Different end bound should produce different hash
	if base == ComputeCacheKeyID("samples", "1", "100", "201") {
		t.Error("Different argument should produce different hash")
	}

	// Argument boundaries matter
	if ComputeCacheKeyID("names", "a|b") == ComputeCacheKeyID("names", "a", "b") {
		t.Error("Joined and split arguments should produce different hashes")
	}

	// Missing vs empty argument
	if ComputeCacheKeyID("names") == ComputeCacheKeyID("names", "") {
		t.Error("Empty argument should differ from no argument")
	}
}

func TestComputeSessionKey(t *testing.T) {
	got := ComputeSessionKey("helios", "abc", "0123")
	if got != "helios:abc:0123" {
		t.Errorf("ComputeSessionKey() = %s, want helios:abc:0123", got)
	}
}
