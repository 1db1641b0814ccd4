package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"unset uses default true", "", true, true},
		{"unset uses default false", "", false, false},
		{"true", "true", false, true},
		{"numeric one", "1", false, true},
		{"yes", "yes", false, true},
		{"on", "ON", false, true},
		{"false", "false", true, false},
		{"numeric zero", "0", true, false},
		{"off", "off", true, false},
		{"invalid uses default", "maybe", true, true},
		{"whitespace trimmed", "  true  ", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_ENV", tt.value)
			if got := ParseBoolEnv("TEST_BOOL_ENV", tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue time.Duration
		want         time.Duration
	}{
		{"unset uses default", "", time.Hour, time.Hour},
		{"valid duration", "30m", time.Hour, 30 * time.Minute},
		{"valid with days notation rejected", "1d", time.Hour, time.Hour},
		{"invalid uses default", "soon", time.Minute, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION_ENV", tt.value)
			if got := ParseDurationEnv("TEST_DURATION_ENV", tt.defaultValue); got != tt.want {
				t.Errorf("ParseDurationEnv(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}
