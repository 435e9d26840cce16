package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	FromContext(Context(context.Background(), logger)).Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("FromContext(): wanted logger from context; found output `%s`", buf.String())
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext(): wanted default logger; found `nil`")
	}
}

func TestParseLevel(t *testing.T) {
	for _, testCase := range []struct {
		input     string
		wanted    slog.Level
		wantedErr bool
	}{
		{input: "debug", wanted: slog.LevelDebug},
		{input: "INFO", wanted: slog.LevelInfo},
		{input: " warn ", wanted: slog.LevelWarn},
		{input: "error", wanted: slog.LevelError},
		{input: "loud", wantedErr: true},
	} {
		t.Run(testCase.input, func(t *testing.T) {
			found, err := ParseLevel(testCase.input)
			if testCase.wantedErr {
				if err == nil {
					t.Fatal("ParseLevel(): wanted err; found `nil`")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(): unexpected err: %v", err)
			}
			if found != testCase.wanted {
				t.Fatalf("ParseLevel(): wanted `%s`; found `%s`", testCase.wanted, found)
			}
		})
	}
}
