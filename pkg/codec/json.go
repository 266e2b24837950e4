package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/logship-labs/logship/internal/domain"
)

// jsonRecord is the wire shape of an encoded record.
type jsonRecord struct {
	Time    string         `json:"ts"`
	Level   string         `json:"level,omitempty"`
	Source  string         `json:"source,omitempty"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONEncoder encodes each record as a single newline-terminated JSON
// document. Encode is pure: same record in, same bytes out.
type JSONEncoder struct{}

// NewJSONEncoder creates the default encoder.
func NewJSONEncoder() *JSONEncoder { return &JSONEncoder{} }

// Encode implements the pipeline's encoder contract.
func (*JSONEncoder) Encode(rec domain.Record) ([]byte, error) {
	doc := jsonRecord{
		Time:    rec.Time.UTC().Format(time.RFC3339Nano),
		Level:   rec.Level,
		Source:  rec.Source,
		Message: rec.Message,
		Fields:  rec.Fields,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return append(b, '\n'), nil
}
