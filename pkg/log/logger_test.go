package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(&bytes.Buffer{})
		SetLevel(Notice)
	}()

	logger := New("test")

	SetLevel(Notice)
	logger.Debugf("hidden %d", 1)
	logger.Noticef("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("Expected debug message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "visible 2") || !strings.Contains(out, "[test]") {
		t.Errorf("Expected notice message with module name, got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("now shown")
	if !strings.Contains(buf.String(), "now shown") {
		t.Errorf("Expected debug message after SetLevel(Debug), got %q", buf.String())
	}
}
