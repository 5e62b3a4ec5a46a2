package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/repository"
	"github.com/digitalpro/contact-gateway/internal/spam"
	"github.com/digitalpro/contact-gateway/pkg/logger"
	"github.com/digitalpro/contact-gateway/pkg/prom"
)

// ValidationError carries a message safe to show to the submitter.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingFields = &ValidationError{Message: "please fill in all required fields"}
	ErrInvalidEmail  = &ValidationError{Message: "please enter a valid email address"}

	// ErrSubmissionBlocked is returned for every spam verdict. The text is
	// deliberately generic; the specific rule is stored, never exposed.
	ErrSubmissionBlocked = errors.New("submission blocked for security reasons")

	ErrNotFound = errors.New("submission not found")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)
	CountRecentByIP(ctx context.Context, ip string, since time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Submission, error)
	List(ctx context.Context, f model.SubmissionFilter) ([]*model.Submission, int64, error) // results, totalCount
	Update(ctx context.Context, id int64, p model.SubmissionUpdateRequest) (*model.Submission, error)
}

// EventPublisher pushes accepted submissions onto the notification
// stream. Publishing happens after the row is committed and failures are
// logged only; the submitter already got their answer.
type EventPublisher interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

type SubmissionService struct {
	repo            SubmissionRepository
	classifier      *spam.Classifier
	events          EventPublisher
	rateLimitMax    int64
	rateLimitWindow time.Duration
}

func NewSubmissionService(repo SubmissionRepository, classifier *spam.Classifier, events EventPublisher, rateLimitMax int64, rateLimitWindow time.Duration) *SubmissionService {
	return &SubmissionService{
		repo:            repo,
		classifier:      classifier,
		events:          events,
		rateLimitMax:    rateLimitMax,
		rateLimitWindow: rateLimitWindow,
	}
}

// Create runs the full pipeline: validate, classify, persist. Every
// submission that passes validation produces exactly one stored row,
// spam or not.
func (s *SubmissionService) Create(ctx context.Context, p model.SubmissionCreateRequest) (*model.Submission, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Message = strings.TrimSpace(p.Message)

	if p.Name == "" || p.Email == "" || p.Message == "" {
		prom.IncCounter(prom.SystemSubmissions, prom.MetricSubmissionsProcessed, prom.OutcomeRejected)
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(p.Email) {
		prom.IncCounter(prom.SystemSubmissions, prom.MetricSubmissionsProcessed, prom.OutcomeRejected)
		return nil, ErrInvalidEmail
	}

	verdict, err := s.classify(ctx, p)
	if err != nil {
		prom.IncCounter(prom.SystemSubmissions, prom.MetricSubmissionsProcessed, prom.OutcomeFailed)
		return nil, err
	}

	m := &model.Submission{
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Company:         p.Company,
		ServiceInterest: p.ServiceInterest,
		Message:         p.Message,
		IPAddress:       p.IPAddress,
		UserAgent:       p.UserAgent,
		Referrer:        p.Referrer,
		Status:          model.SubmissionStatusNew,
	}
	if verdict.IsSpam {
		m.IsSpam = true
		m.Status = model.SubmissionStatusSpam
		m.SpamReason = verdict.Reason
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		prom.IncCounter(prom.SystemSubmissions, prom.MetricSubmissionsProcessed, prom.OutcomeFailed)
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if created.IsSpam {
		logger.Warn("submission flagged as spam",
			"submission_id", created.ID,
			"ip", created.IPAddress,
			"reason", created.SpamReason)
		prom.IncCounter(prom.SystemSubmissions, prom.MetricSubmissionsProcessed, prom.OutcomeSpam)
		return nil, ErrSubmissionBlocked
	}

	s.publishAccepted(ctx, created)
	prom.IncCounter(prom.SystemSubmissions, prom.MetricSubmissionsProcessed, prom.OutcomeAccepted)
	return created, nil
}

// classify applies the rate-limit rule first, then the content rules.
// The count and the later insert are two separate statements; a burst
// racing the window check can slip an extra row through, which is an
// accepted trade-off for keeping the hot path transaction-free.
func (s *SubmissionService) classify(ctx context.Context, p model.SubmissionCreateRequest) (spam.Verdict, error) {
	if p.IPAddress != "" && s.rateLimitMax > 0 {
		since := time.Now().Add(-s.rateLimitWindow)
		n, err := s.repo.CountRecentByIP(ctx, p.IPAddress, since)
		if err != nil {
			return spam.Verdict{}, fmt.Errorf("count recent submissions: %w", err)
		}
		if n >= s.rateLimitMax {
			return spam.Verdict{IsSpam: true, Reason: spam.ReasonRateLimited}, nil
		}
	}
	return s.classifier.Classify(p.Name, p.Message), nil
}

func (s *SubmissionService) publishAccepted(ctx context.Context, sub *model.Submission) {
	if s.events == nil {
		return
	}
	event := &model.SubmissionEvent{
		SubmissionID:    sub.ID,
		Name:            sub.Name,
		Email:           sub.Email,
		Company:         sub.Company,
		ServiceInterest: sub.ServiceInterest,
		ReceivedAt:      sub.CreatedAt,
	}
	if _, err := s.events.PublishJSON(ctx, event, nil); err != nil {
		logger.Error("failed to publish submission event",
			"submission_id", sub.ID,
			"error", err)
	}
}

func (s *SubmissionService) Get(ctx context.Context, id int64) (*model.Submission, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context, f model.SubmissionFilter) ([]*model.Submission, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *SubmissionService) Update(ctx context.Context, id int64, p model.SubmissionUpdateRequest) (*model.Submission, error) {
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}
