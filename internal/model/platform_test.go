package model

import "testing"

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		entry string
		want  PlatformRequest
	}{
		{"1,100N,5", PlatformRequest{Line: "1", StopID: "100N", Count: "5"}},
		{"4,631S", PlatformRequest{Line: "4", StopID: "631S"}},
		{"A", PlatformRequest{Line: "A"}},
		{"", PlatformRequest{}},
		{"Q,R16N,3,extra", PlatformRequest{Line: "Q", StopID: "R16N", Count: "3"}},
		// Not trimmed: parsing is purely syntactic.
		{" 7 , 725N ,2", PlatformRequest{Line: " 7 ", StopID: " 725N ", Count: "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got := ParsePlatform(tt.entry)
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %+v, want %+v", tt.entry, got, tt.want)
			}
		})
	}
}

func TestPlatformRequestKey(t *testing.T) {
	a := PlatformRequest{Line: "4", StopID: "631N", Count: "3"}
	b := PlatformRequest{Line: "4", StopID: "631N", Count: "10"}
	c := PlatformRequest{Line: "4", StopID: "631S", Count: "3"}

	if a.Key() != "4-631N" {
		t.Errorf("Key() = %q, want %q", a.Key(), "4-631N")
	}
	if a.Key() != b.Key() {
		t.Errorf("count should not be part of the key: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("different stops produced the same key %q", a.Key())
	}
}

func TestPlatformRequestLimit(t *testing.T) {
	if got := (PlatformRequest{Count: "5"}).Limit(); got != "5" {
		t.Errorf("Limit() = %q, want 5", got)
	}
	if got := (PlatformRequest{}).Limit(); got != DefaultCount {
		t.Errorf("Limit() = %q, want %q", got, DefaultCount)
	}
}

func TestPlatformRequestString(t *testing.T) {
	if got := (PlatformRequest{Line: "1", StopID: "100N", Count: "5"}).String(); got != "1,100N,5" {
		t.Errorf("String() = %q", got)
	}
	if got := (PlatformRequest{Line: "1", StopID: "100N"}).String(); got != "1,100N" {
		t.Errorf("String() = %q", got)
	}
}
