package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestWithComponent_FromContext(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "info"}, &buf)
	log := NewSlog(&zl)

	ctx := WithComponent(WithRequestID(context.Background(), ""), "ogcfetch tile")
	log.InfoContext(ctx, "saved")

	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["component"] != "ogcfetch tile" {
		t.Fatalf("component got %v", m["component"])
	}
	if id, _ := m["request_id"].(string); len(id) != 16 {
		t.Fatalf("generated request id got %q", id)
	}
}

func TestBuild_LevelAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "info", Component: "ogcfetch"}, &buf)
	log := NewSlog(&zl)

	ctx := WithService(WithRequestID(context.Background(), "req-1"), "WFS")
	ctx = WithLayer(ctx, "ns:roads")

	log.DebugContext(ctx, "hidden")
	log.InfoContext(ctx, "fetched", "status", 200, "err", errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("want 1 line (debug filtered), got %d: %s", len(lines), buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal(lines[0], &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"msg":        "fetched",
		"level":      "info",
		"component":  "ogcfetch",
		"request_id": "req-1",
		"service":    "WFS",
		"layer":      "ns:roads",
		"status":     float64(200),
		"err":        "boom",
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("field %q got %v want %v", k, m[k], v)
		}
	}
	if _, ok := m["timestamp"]; !ok {
		t.Fatalf("missing timestamp")
	}
}

func TestDiscard_IsDisabled(t *testing.T) {
	if Discard().Enabled(context.Background(), 12) {
		t.Fatalf("discard logger should not be enabled")
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if len(a) != 16 || a == b {
		t.Fatalf("ids %q %q", a, b)
	}
}
