package model

import "strings"

// Status is the normalized order/payment status vocabulary. The upstream
// returns inconsistent raw strings across endpoints; everything user-facing
// goes through NormalizeStatus first.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusUnknown   Status = "unknown"
)

// NormalizeStatus maps any raw upstream status string to exactly one Status.
// Matching is case-insensitive; "cancel" and "cancelled" share a bucket.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "successful", "success", "completed", "complete", "done":
		return StatusCompleted
	case "pending", "waiting", "processing":
		return StatusPending
	case "failed", "fail", "rejected", "error":
		return StatusFailed
	case "cancel", "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}
