package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponentTagsLines(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Service: "storefront", Output: &buf})

	log := Component("cart")
	log.Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v (%q)", err, buf.String())
	}
	if line["component"] != "cart" {
		t.Errorf("expected component=cart, got %v", line["component"])
	}
	if line["service"] != "storefront" {
		t.Errorf("expected service=storefront, got %v", line["service"])
	}
	if line["message"] != "hello" {
		t.Errorf("expected message=hello, got %v", line["message"])
	}
}

func TestInitOnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "error", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	l := Get()
	l.Info().Msg("dropped")
	l.Error().Msg("kept")

	if second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger, got %q", second.String())
	}
	if bytes.Contains(first.Bytes(), []byte("dropped")) {
		t.Fatalf("info line should be filtered at error level: %q", first.String())
	}
	if !bytes.Contains(first.Bytes(), []byte("kept")) {
		t.Fatalf("error line missing: %q", first.String())
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}
