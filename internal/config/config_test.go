package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "30s", def: time.Minute, expected: 30 * time.Second},
		{name: "invalid duration falls back", value: "garbage", def: time.Minute, expected: time.Minute},
		{name: "unset falls back", value: "", def: 6 * time.Hour, expected: 6 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION"
			if tt.value != "" {
				t.Setenv(key, tt.value)
			} else {
				if err := os.Unsetenv(key); err != nil {
					t.Fatalf("failed to unset env var: %v", err)
				}
			}
			if got := mustDuration(key, tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "10.0.0.0/8", expected: []string{"10.0.0.0/8"}},
		{name: "spaces and quotes", input: ` "10.0.0.1" , '192.168.1.0/24' `, expected: []string{"10.0.0.1", "192.168.1.0/24"}},
		{name: "empty parts dropped", input: "a,,b,", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("part[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestWindowDays(t *testing.T) {
	cfg := &Config{ReminderWindow: 7 * 24 * time.Hour}
	if got := cfg.WindowDays(); got != 7 {
		t.Errorf("WindowDays() = %d, want 7", got)
	}
	cfg.ReminderWindow = 36 * time.Hour
	if got := cfg.WindowDays(); got != 1 {
		t.Errorf("WindowDays() = %d, want 1 (truncated)", got)
	}
}
