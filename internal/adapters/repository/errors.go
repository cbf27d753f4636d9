package repository

import "errors"

// Sentinel kinds for score and ranking errors.
var (
	ErrUnknownModel     = errors.New("unknown model")
	ErrModelDeactivated = errors.New("model deactivated")
	ErrNotRanked        = errors.New("model not ranked in tier")
	ErrInvalidLimit     = errors.New("invalid leaderboard limit")
)
