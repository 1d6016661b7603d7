package interpreter

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// DecodedReading is the wire model the interpreter API broadcasts: a
// receive timestamp plus the flattened field map produced by the
// telegram decoder.
type DecodedReading struct {
	// Timestamp is RFC3339 wall-clock time assigned by the decoder
	// host; the meter's own opaque timestamp rides along in Fields.
	Timestamp string         `json:"timestamp"`
	Fields    map[string]any `json:"fields"`
}

func (r *DecodedReading) ToJsonBytes() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		logrus.Errorf("Failed to marshal reading: %v", err)
		return nil
	}
	return data
}

func ReadingFromJsonBytes(data []byte) *DecodedReading {
	var reading DecodedReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil
	}
	return &reading
}
