package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"development default", "development", "", zapcore.DebugLevel, false},
		{"production default", "production", "", zapcore.InfoLevel, false},
		{"explicit warn", "development", "warn", zapcore.WarnLevel, false},
		{"explicit upper case", "production", "DEBUG", zapcore.DebugLevel, false},
		{"unknown level", "production", "chatty", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLevel(tt.env, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	Log = nil
	Info("info")
	Warn("warn")
	Error("error")
	Debug("debug")
	Fatal("fatal")
	Sync()
}
