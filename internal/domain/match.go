package domain

import "time"

// MatchStatus is the lifecycle state of a match as published upstream.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusFinished  MatchStatus = "finished"
	StatusPostponed MatchStatus = "postponed"
	StatusCanceled  MatchStatus = "canceled"
	StatusUnknown   MatchStatus = "unknown"
)

// IsFinal reports whether the status can no longer change upstream.
func (s MatchStatus) IsFinal() bool {
	switch s {
	case StatusFinished, StatusCanceled:
		return true
	default:
		return false
	}
}

// StatRow is one row of a match statistics table (possession, shots, ...).
type StatRow struct {
	Name string `json:"name"`
	Home string `json:"home"`
	Away string `json:"away"`
}

// Match is the structured record extracted for one event. A match is
// produced once per id per target and, once persisted, is immutable
// unless explicitly replaced through the non-final re-fetch path.
type Match struct {
	// ID is the opaque natural id of the match on the source site.
	ID string `json:"id"`
	// HomeTeam and AwayTeam are the participant display names.
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	// StartTime is the scheduled kickoff, zero when unparseable.
	StartTime time.Time `json:"start_time"`
	// Status is the match lifecycle state at extraction time.
	Status MatchStatus `json:"status"`
	// HomeScore and AwayScore are raw score strings; empty when the
	// match has not started.
	HomeScore string `json:"home_score,omitempty"`
	AwayScore string `json:"away_score,omitempty"`
	// Info holds free-form key/value details (venue, referee, round).
	Info map[string]string `json:"info,omitempty"`
	// Stats holds the match statistics table when published.
	Stats []StatRow `json:"stats,omitempty"`
	// CapturedAt is when the record was extracted.
	CapturedAt time.Time `json:"captured_at"`
}
