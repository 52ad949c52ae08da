package tasks

import "time"

// Task Types
const (
	TaskTypeRecomputeRating     = "bootcamp:recompute_rating"
	TaskTypeRecomputeCost       = "bootcamp:recompute_cost"
	TaskTypeReconcileAggregates = "bootcamp:reconcile_aggregates"
	TaskTypeResetPasswordEmail  = "auth:reset_password_email"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks like reset emails
	QueueDefault  = "default"  // For regular tasks
	QueueLow      = "low"      // For background tasks like reconciliation
)

// Task Priorities (1-10, higher is more important)
const (
	PriorityCritical = 10
	PriorityHigh     = 8
	PriorityNormal   = 5
	PriorityLow      = 3
	PriorityBG       = 1
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
	TimeoutLong   = 30 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)

// RecomputePayload identifies the bootcamp whose derived values need a
// refresh.
type RecomputePayload struct {
	BootcampID string `json:"bootcamp_id"`
}

// ResetPasswordEmailPayload carries everything the mail task needs.
type ResetPasswordEmailPayload struct {
	Email    string `json:"email"`
	ResetURL string `json:"reset_url"`
}
