package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel("INFO")
	})
	return &buf
}

func TestLevels(t *testing.T) {
	buf := capture(t)
	SetLevel("info")

	Debug("hidden")
	Info("shown", "tool", "parse_json")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug line written at INFO level: %s", buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["msg"] != "shown" || rec["tool"] != "parse_json" || rec["level"] != "INFO" {
		t.Fatalf("unexpected record: %v", rec)
	}

	buf.Reset()
	EnableDebug()
	Debug("visible")
	if !strings.Contains(buf.String(), `"msg":"visible"`) {
		t.Fatalf("debug line missing after EnableDebug: %q", buf.String())
	}
}

func TestErrorAttachesCause(t *testing.T) {
	buf := capture(t)
	Error("tool failed", errors.New("boom"), "tool", "get_weather")
	out := buf.String()
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, `"level":"ERROR"`) {
		t.Fatalf("unexpected output: %q", out)
	}

	buf.Reset()
	Error("no cause", nil)
	if strings.Contains(buf.String(), `"error"`) {
		t.Fatalf("nil error should not add an attribute: %q", buf.String())
	}
}

func TestSetLevelUnknownFallsBackToInfo(t *testing.T) {
	buf := capture(t)
	SetLevel("verbose")
	Debug("dropped")
	Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
