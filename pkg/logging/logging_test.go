package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	if err := initTo(&buf, "warn", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info().Msg("dropped")
	log.Warn().Str("key", "btc_price").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above the level, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["message"] != "kept" || entry["key"] != "btc_price" || entry["service"] != "btcpulse" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInitConsole(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	if err := initTo(&buf, "", "console"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info().Msg("hello")
	if out := buf.String(); !strings.Contains(out, "hello") || strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := initTo(&bytes.Buffer{}, "loud", "json"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
