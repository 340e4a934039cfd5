// Package layout decides which platforms are displayed and how.
package layout

import (
	"net/url"
	"strings"

	"github.com/thevedantmod/stand-clear/internal/model"
)

// PlatformParam is the repeatable query key carrying "line,stop_id,count".
const PlatformParam = "platform"

// DefaultPlatforms are shown when no platform is requested: both
// directions of Grand Central-42 St on the 4.
func DefaultPlatforms() []model.PlatformRequest {
	return []model.PlatformRequest{
		{Line: "4", StopID: "631N", Count: "3"},
		{Line: "4", StopID: "631S", Count: "3"},
	}
}

// ParseQuery returns one request per platform value, in order.
func ParseQuery(values url.Values) []model.PlatformRequest {
	entries := values[PlatformParam]
	reqs := make([]model.PlatformRequest, 0, len(entries))
	for _, entry := range entries {
		reqs = append(reqs, model.ParsePlatform(entry))
	}
	return reqs
}

// Resolve returns the requested platforms, or the defaults when there are
// none.
func Resolve(values url.Values) []model.PlatformRequest {
	reqs := ParseQuery(values)
	if len(reqs) == 0 {
		return DefaultPlatforms()
	}
	return reqs
}

// QueryFromInput extracts query values from a full URL, a "?query" string
// or a bare query string. Empty input yields empty values.
func QueryFromInput(input string) (url.Values, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return url.Values{}, nil
	}
	if strings.Contains(input, "://") {
		u, err := url.Parse(input)
		if err != nil {
			return nil, err
		}
		return u.Query(), nil
	}
	if i := strings.Index(input, "?"); i >= 0 {
		input = input[i+1:]
	}
	return url.ParseQuery(input)
}

// WithPlatforms returns a copy of values with entries appended to the
// platform parameter.
func WithPlatforms(values url.Values, entries ...string) url.Values {
	out := url.Values{}
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		out.Add(PlatformParam, e)
	}
	return out
}

// Visible returns the platforms to render: only the first one in compact
// mode, all of them otherwise.
func Visible(reqs []model.PlatformRequest, compact bool) []model.PlatformRequest {
	if compact && len(reqs) > 1 {
		return reqs[:1]
	}
	return reqs
}
