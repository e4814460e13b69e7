package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel("debug"); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", lvl)
	}
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("not-a-level"); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", lvl)
	}
}

func TestContextFieldsFlowThrough(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithProductID(ctx, "prod-1")
	logg.Info(ctx, "hello")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"product_id":"prod-1"`, `"service":"test"`, "hello"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %s, got %s", want, out)
		}
	}
}

func TestErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	logg.Error(context.Background(), "boom", nil)

	if !strings.Contains(buf.String(), `"stack"`) {
		t.Fatalf("expected stack field in error output: %s", buf.String())
	}
}
