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
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_WritesJSONWithService(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "blog-api"})
	log.Info().Str("k", "v").Msg("hello")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if event["service"] != "blog-api" || event["message"] != "hello" || event["k"] != "v" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Output: &buf})
	l := Component("posts")
	l.Info().Msg("x")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if event["component"] != "posts" {
		t.Fatalf("expected component field, got %+v", event)
	}
}
