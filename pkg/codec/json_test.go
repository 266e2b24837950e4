package codec

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/logship-labs/logship/internal/domain"
)

func TestJSONEncoder_Encode(t *testing.T) {
	enc := NewJSONEncoder()
	rec := domain.Record{
		Time:    time.Date(2026, 8, 27, 12, 30, 0, 0, time.UTC),
		Level:   "warn",
		Source:  "api-1",
		Message: "disk almost full",
		Fields:  map[string]any{"free_pct": 4.5},
	}

	b, err := enc.Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.HasSuffix(b, []byte("\n")) {
		t.Error("encoded record not newline-terminated")
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["ts"] != "2026-08-27T12:30:00Z" {
		t.Errorf("ts = %v, want 2026-08-27T12:30:00Z", doc["ts"])
	}
	if doc["level"] != "warn" {
		t.Errorf("level = %v, want warn", doc["level"])
	}
	if doc["source"] != "api-1" {
		t.Errorf("source = %v, want api-1", doc["source"])
	}
	if doc["msg"] != "disk almost full" {
		t.Errorf("msg = %v, want disk almost full", doc["msg"])
	}
	fields, ok := doc["fields"].(map[string]any)
	if !ok || fields["free_pct"] != 4.5 {
		t.Errorf("fields = %v, want free_pct=4.5", doc["fields"])
	}
}

func TestJSONEncoder_OmitsEmptyAttributes(t *testing.T) {
	enc := NewJSONEncoder()

	b, err := enc.Encode(domain.Record{Time: time.Now(), Message: "bare"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"level", "source", "fields"} {
		if _, present := doc[key]; present {
			t.Errorf("empty attribute %q present in %s", key, b)
		}
	}
}

func TestJSONEncoder_Deterministic(t *testing.T) {
	enc := NewJSONEncoder()
	rec := domain.Record{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Message: "same in, same out",
		Fields:  map[string]any{"b": 2, "a": 1, "c": 3},
	}

	first, err := enc.Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	second, err := enc.Encode(rec)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encodings differ: %s vs %s", first, second)
	}
}

func TestJSONEncoder_UnencodableField(t *testing.T) {
	enc := NewJSONEncoder()
	rec := domain.Record{
		Time:    time.Now(),
		Message: "bad field",
		Fields:  map[string]any{"ch": make(chan int)},
	}

	if _, err := enc.Encode(rec); err == nil {
		t.Error("Encode() succeeded on an unmarshalable field")
	}
}
