package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Arrival is one predicted train arrival as returned by the arrivals API.
type Arrival struct {
	Line                 string  `json:"line"`
	DestinationDirection string  `json:"destination_direction,omitempty"`
	TimeToArrival        Seconds `json:"time_to_arrival"`
	FriendlyStop         string  `json:"friendly_stop,omitempty"`

	// Decoded when the API sends them; the board does not depend on them.
	Direction       string `json:"direction,omitempty"`
	Color           string `json:"color,omitempty"`
	Stop            string `json:"stop,omitempty"`
	DestinationStop string `json:"destination_stop,omitempty"`
}

// Seconds is a countdown in seconds. It decodes from a JSON number or from
// a JSON string; a string that is not numeric counts as zero.
type Seconds float64

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = CoerceSeconds(raw)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("time_to_arrival: %w", err)
	}
	*s = Seconds(v)
	return nil
}

// CoerceSeconds converts raw like ParseSeconds but treats text that is
// not a number as zero.
func CoerceSeconds(raw string) Seconds {
	v, err := ParseSeconds(raw)
	if err != nil {
		return 0
	}
	return v
}

// ParseSeconds converts a numeric string into Seconds. Blank input is 0.
func ParseSeconds(raw string) (Seconds, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds %q: %w", raw, err)
	}
	return Seconds(v), nil
}
