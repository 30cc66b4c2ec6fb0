package dto

import (
	"time"

	"github.com/avvalues/trade-hub/model"
)

// RateLimitInfo is the outcome of one flood-guard check.
type RateLimitInfo struct {
	Allowed     bool              `json:"allowed"`
	RetryKind   model.Granularity `json:"retry_kind,omitempty"`
	MinuteCount int64             `json:"minute_count"`
	HourCount   int64             `json:"hour_count"`
	RetryAfter  time.Duration     `json:"retry_after,omitempty"`
}

// WindowDecision is the outcome of the rolling window quota check.
type WindowDecision struct {
	Allowed    bool          `json:"allowed"`
	InWindow   int           `json:"in_window"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}
