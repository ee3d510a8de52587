package task

import (
	"encoding/json"
	"time"
)

const DisplayLayout = "2006/01/02 15:04:05"

// Zone-less ISO 8601 as produced by the reference store; read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type HistoryEntry struct {
	Action    string    `json:"action"`
	Timestamp Timestamp `json:"timestamp"`
}

// Timestamp keeps the text the server sent so the cache re-encodes it unchanged.
type Timestamp struct {
	Raw  string
	Time time.Time
}

func ParseTimestamp(s string) Timestamp {
	ts := Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				ts.Time = t
				return ts
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.Time = t
			return ts
		}
	}
	return ts
}

// Display formats the instant for people; unparsable input is shown as sent.
func (ts Timestamp) Display() string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	return ts.Time.Local().Format(DisplayLayout)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Raw)
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*ts = ParseTimestamp(s)
	return nil
}
