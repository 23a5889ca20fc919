package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("suggestion completed", "backend", "openai", "latency_ms", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "suggestion completed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["backend"] != "openai" {
		t.Errorf("backend = %v", entry["backend"])
	}
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn record missing")
	}
}

func TestNewRedactSensitive(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", RedactSensitive: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("backend call", "api_key", "sk-supersecret", "draft", "SSN 123-45-6789")

	out := buf.String()
	if strings.Contains(out, "sk-supersecret") {
		t.Error("credential value leaked into log output")
	}
	if strings.Contains(out, "123-45-6789") {
		t.Error("identifier leaked into log output")
	}
	if !strings.Contains(out, "***-**-****") {
		t.Errorf("output missing scrubbed identifier: %s", out)
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Error("New() with bad level should fail")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() with bad format should fail")
	}
}
