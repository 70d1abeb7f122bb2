package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_TextLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "warn", "text")
	l.Info("hidden")
	l.Warn("shown", "part", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %s", out)
	}

	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "part=1") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNew_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "info", "json").With("run_id", "abc")
	l.Info("wrote part", "rows", 10)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	if rec["run_id"] != "abc" || rec["msg"] != "wrote part" {
		t.Errorf("record = %v", rec)
	}
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "verbose", "text")
	l.Debug("dropped")
	l.Info("kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLogger_ErrorWithChild(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "error", "text").With("run_id", "r1")
	l.Info("dropped")
	l.Error("conversion failed", "error", "disk full")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record should be filtered at error level: %s", out)
	}

	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "run_id=r1") || !strings.Contains(out, `error="disk full"`) {
		t.Errorf("unexpected output: %s", out)
	}
}
