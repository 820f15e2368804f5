package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env       string
		debugging bool
	}{
		{env: "development", debugging: true},
		{env: "production", debugging: false},
		{env: "test", debugging: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			log, err := New(tt.env)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.debugging {
				t.Fatalf("debug enabled = %v, want %v", got, tt.debugging)
			}
		})
	}
}
