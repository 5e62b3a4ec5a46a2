package model

import (
	"errors"
	"time"
)

// SubmissionStatus is the triage state of a contact submission.
type SubmissionStatus string

const (
	SubmissionStatusNew        SubmissionStatus = "new"
	SubmissionStatusInProgress SubmissionStatus = "in_progress"
	SubmissionStatusCompleted  SubmissionStatus = "completed"
	SubmissionStatusSpam       SubmissionStatus = "spam"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusNew, SubmissionStatusInProgress, SubmissionStatusCompleted, SubmissionStatusSpam:
		return true
	}
	return false
}

type Submission struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone,omitempty"`
	Company         string           `json:"company,omitempty"`
	ServiceInterest string           `json:"service_interest,omitempty"`
	Message         string           `json:"message"`
	IPAddress       string           `json:"ip_address,omitempty"`
	UserAgent       string           `json:"user_agent,omitempty"`
	Referrer        string           `json:"referrer,omitempty"`
	IsRead          bool             `json:"is_read"`
	IsSpam          bool             `json:"is_spam"`
	Status          SubmissionStatus `json:"status"`
	SpamReason      string           `json:"spam_reason,omitempty"`
	AdminNotes      string           `json:"admin_notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// SubmissionCreateRequest carries the raw form values and request
// provenance exactly as received; trimming and validation happen in the
// service.
type SubmissionCreateRequest struct {
	Name            string
	Email           string
	Phone           string
	Company         string
	ServiceInterest string
	Message         string

	IPAddress string
	UserAgent string
	Referrer  string
}

// SubmissionFilter controls admin list queries.
type SubmissionFilter struct {
	Statuses  []SubmissionStatus // IN (...)
	IsRead    *bool
	IsSpam    *bool
	IPAddress *string // equals
	From      *time.Time
	To        *time.Time
	Limit     int // default 50
	Offset    int
	Desc      bool // order by created_at
}

// SubmissionUpdateRequest is a partial update applied during admin
// review. Only these three fields are ever mutable after creation.
type SubmissionUpdateRequest struct {
	IsRead     *bool
	Status     *SubmissionStatus
	AdminNotes *string
}

func (p SubmissionUpdateRequest) Validate() error {
	if p.IsRead == nil && p.Status == nil && p.AdminNotes == nil {
		return errors.New("no updatable fields provided")
	}
	if p.Status != nil && !p.Status.Valid() {
		return errors.New("invalid status value")
	}
	return nil
}
