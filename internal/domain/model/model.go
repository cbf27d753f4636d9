// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Tier names a capability class that partitions models into independent
// ranking pools. A model belongs to exactly one tier at a time.
type Tier string

// Model describes a routable LLM backend tracked by the scoring system.
// The identifier follows the provider/model-path format used by the
// upstream gateway, e.g. "org/name:variant".
type Model struct {
	ID          string    // unique identifier, e.g. "mistralai/mistral-7b-instruct:free"
	Name        string    // display name
	Tier        Tier      // assigned capability tier
	Score       int       // current reputation score
	Counters    Counters  // per-kind feedback tallies
	Total       int       // total feedback events applied
	LastUpdated time.Time // time of the last applied delta
	Active      bool      // deactivated models are excluded from ranking and routing
}

// Counters tallies feedback events by kind.
type Counters struct {
	Likes    int
	Dislikes int
	Stars    int
}

// SuccessRate returns (likes+stars)/total as a percentage. A model with
// no feedback reports 0 rather than dividing by zero.
func (c Counters) SuccessRate() float64 {
	total := c.Likes + c.Dislikes + c.Stars
	if total < 1 {
		total = 1
	}
	return float64(c.Likes+c.Stars) / float64(total) * 100
}

// DisplayName derives a human-readable name from a model identifier:
// the last path segment with the ":free" variant suffix stripped.
func DisplayName(id string) string {
	name := id
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ":free")
}
