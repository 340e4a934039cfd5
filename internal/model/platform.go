package model

import (
	"fmt"
	"strings"
)

// DefaultCount is the number of arrivals requested when a platform entry
// does not carry a count.
const DefaultCount = "10"

// PlatformRequest identifies one board to display (line + stop + count).
// Count is kept as given; it is only defaulted when the request is sent.
type PlatformRequest struct {
	Line   string `json:"line" yaml:"line"`
	StopID string `json:"stop_id" yaml:"stop_id"`
	Count  string `json:"count,omitempty" yaml:"count,omitempty"`
}

// ParsePlatform splits a "line,stop_id,count" entry. Missing parts are left
// empty and extra parts are ignored; nothing is validated here.
func ParsePlatform(entry string) PlatformRequest {
	parts := strings.Split(entry, ",")
	var p PlatformRequest
	if len(parts) > 0 {
		p.Line = parts[0]
	}
	if len(parts) > 1 {
		p.StopID = parts[1]
	}
	if len(parts) > 2 {
		p.Count = parts[2]
	}
	return p
}

// Key is the identity used to decide whether a board's refresh lifecycle
// can be kept across re-renders.
func (p PlatformRequest) Key() string {
	return p.Line + "-" + p.StopID
}

// Limit returns the count to request upstream.
func (p PlatformRequest) Limit() string {
	if p.Count == "" {
		return DefaultCount
	}
	return p.Count
}

// String returns the entry in its "line,stop_id,count" form.
func (p PlatformRequest) String() string {
	if p.Count == "" {
		return fmt.Sprintf("%s,%s", p.Line, p.StopID)
	}
	return fmt.Sprintf("%s,%s,%s", p.Line, p.StopID, p.Count)
}
