package model

import "time"

// SubmissionEvent is published to the notification queue for every
// accepted (non-spam) submission. It carries just enough to render an
// operator alert; the full row stays in postgres.
type SubmissionEvent struct {
	SubmissionID    int64     `json:"submission_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Company         string    `json:"company,omitempty"`
	ServiceInterest string    `json:"service_interest,omitempty"`
	ReceivedAt      time.Time `json:"received_at"`
}
