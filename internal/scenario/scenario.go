package scenario

import (
	"errors"
	"fmt"
	"time"
)

// AccountStatus mirrors the status strings real Xtream panels report.
type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusDisabled AccountStatus = "Disabled"
)

// Validation errors.
var (
	ErrEmptyName        = errors.New("scenario name cannot be empty")
	ErrNegativeCount    = errors.New("scenario counts cannot be negative")
	ErrFractionRange    = errors.New("scenario fractions must be within [0, 1]")
	ErrUnknownStatus    = errors.New("unknown account status")
	ErrScenarioNotFound = errors.New("scenario not found")
)

// Counts holds one number per content kind.
type Counts struct {
	Live   int
	Vod    int
	Series int
}

// Scenario controls the size and account state of a generated catalog.
type Scenario struct {
	Name              string
	Description       string
	Seed              uint64
	Categories        Counts
	ItemsPerCategory  int
	SeasonsPerSeries  int
	EpisodesPerSeason int
	// IsSeriesFraction is the share of movies flagged as series containers.
	IsSeriesFraction float64
	// EmbeddedSeriesFraction is the share of movies carrying inline episodes.
	EmbeddedSeriesFraction float64
	Status                 AccountStatus
	ExpiresAt              time.Time
}

// Expired reports whether the subscription ended before now.
func (s Scenario) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}

// Validate checks that a configured scenario is usable.
// The generator tolerates bad values; this is for configuration input only.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Categories.Live < 0 || s.Categories.Vod < 0 || s.Categories.Series < 0 ||
		s.ItemsPerCategory < 0 || s.SeasonsPerSeries < 0 || s.EpisodesPerSeason < 0 {
		return fmt.Errorf("%s: %w", s.Name, ErrNegativeCount)
	}
	if s.IsSeriesFraction < 0 || s.IsSeriesFraction > 1 ||
		s.EmbeddedSeriesFraction < 0 || s.EmbeddedSeriesFraction > 1 {
		return fmt.Errorf("%s: %w", s.Name, ErrFractionRange)
	}
	switch s.Status {
	case StatusActive, StatusDisabled:
	default:
		return fmt.Errorf("%s: %w: %q", s.Name, ErrUnknownStatus, s.Status)
	}
	return nil
}

// ParseStatus converts a configured status string.
func ParseStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case StatusActive, StatusDisabled:
		return AccountStatus(s), nil
	case "":
		return StatusActive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// farFuture is the expiry of accounts that never expire.
var farFuture = date(2099, time.December, 31)
