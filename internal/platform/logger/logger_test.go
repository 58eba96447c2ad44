package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_DefaultLevel(t *testing.T) {
	t.Setenv("CURIO_LOG_LEVEL", "")
	if got := New("curio-test").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("default level = %v, want info", got)
	}
}

func TestNew_LevelFromEnv(t *testing.T) {
	t.Setenv("CURIO_LOG_LEVEL", "debug")
	if got := New("curio-test").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}
}

func TestNew_BadLevelFallsBack(t *testing.T) {
	t.Setenv("CURIO_LOG_LEVEL", "shouting")
	if got := New("curio-test").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info for unparseable value", got)
	}
}
