package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	t.Run("writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("debug", &buf)

		l.Info().Msg("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("log output = %q", buf.String())
		}
	})

	t.Run("invalid level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("nonsense", &buf)

		if l.GetLevel() != zerolog.InfoLevel {
			t.Errorf("level = %s, want info", l.GetLevel())
		}
	})

	t.Run("nil writer falls back to stderr", func(t *testing.T) {
		// Must construct without panicking; output goes to stderr.
		l := New("error", nil)
		if l.GetLevel() != zerolog.ErrorLevel {
			t.Errorf("level = %s, want error", l.GetLevel())
		}
	})
}
