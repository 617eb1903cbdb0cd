package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNewUsesZerolog(t *testing.T) {
	if New("component") == nil {
		t.Fatal("nil logger")
	}
}

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"bogus": zerolog.InfoLevel,
	}
	for raw, want := range cases {
		t.Setenv("SCR_LOG_LEVEL", raw)
		if got := level(); got != want {
			t.Errorf("SCR_LOG_LEVEL=%q: level %s, want %s", raw, got, want)
		}
	}
}
