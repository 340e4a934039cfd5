package refresh

import (
	"time"

	"github.com/thevedantmod/stand-clear/internal/model"
)

// Status is the variant of a board's refresh state.
type Status int

const (
	// StatusLoading means no fetch has settled yet in this lifecycle.
	StatusLoading Status = iota
	// StatusError means the most recent fetch failed.
	StatusError
	// StatusReady means the most recent fetch succeeded.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is the current refresh state of one platform.
type State struct {
	Status Status
	// Arrivals is the last successful result. It is empty (never nil) in
	// the error state.
	Arrivals []model.Arrival
	// Err is the failure message in the error state.
	Err string
	// UpdatedAt is when the last fetch settled; zero while loading.
	UpdatedAt time.Time
}

func (s State) clone() State {
	if s.Arrivals != nil {
		s.Arrivals = append([]model.Arrival(nil), s.Arrivals...)
	}
	return s
}
