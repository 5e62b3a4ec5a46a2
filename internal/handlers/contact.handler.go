package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/services"
	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
	"github.com/digitalpro/contact-gateway/pkg/logger"
)

type ContactService interface {
	Create(ctx context.Context, p model.SubmissionCreateRequest) (*model.Submission, error)
}

type ContactHandler struct {
	svc ContactService
}

func RegisterContactRoutes(e *router.Group, h *ContactHandler) {
	e.POST("/contact", h.CreateSubmission)
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{
		svc: svc,
	}
}

// submissionResponse is the only body shape the public endpoint ever
// returns, success or not.
type submissionResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID *int64 `json:"submission_id,omitempty"`
}

const (
	msgSubmissionReceived = "thank you for your message, we will get back to you soon"
	msgSubmissionBlocked  = "submission blocked for security reasons"
	msgInternalError      = "something went wrong, please try again later"
)

func (h *ContactHandler) CreateSubmission(ctx *xhttp.RequestCtx) {
	args := ctx.PostArgs()
	p := model.SubmissionCreateRequest{
		Name:            string(args.Peek("name")),
		Email:           string(args.Peek("email")),
		Phone:           string(args.Peek("phone")),
		Company:         string(args.Peek("company")),
		ServiceInterest: string(args.Peek("service_interest")),
		Message:         string(args.Peek("message")),
		IPAddress:       requestIP(ctx),
		UserAgent:       requestUserAgent(ctx),
		Referrer:        requestReferrer(ctx),
	}

	created, err := h.svc.Create(ctx, p)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeSubmissionResult(ctx, xhttp.StatusBadRequest, verr.Message)
		case errors.Is(err, services.ErrSubmissionBlocked):
			// reason stays server-side
			writeSubmissionResult(ctx, xhttp.StatusTooManyRequests, msgSubmissionBlocked)
		default:
			logger.Error("contact submission failed", "ip", p.IPAddress, "error", err)
			writeSubmissionResult(ctx, xhttp.StatusInternalServerError, msgInternalError)
		}
		return
	}

	writeJSON(ctx, xhttp.StatusOK, submissionResponse{
		Success:      true,
		Message:      msgSubmissionReceived,
		SubmissionID: &created.ID,
	})
}

func writeSubmissionResult(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, submissionResponse{Success: false, Message: msg})
}

/* ------------------------------ Shared helpers ------------------------------ */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func queryBool(ctx *xhttp.RequestCtx, key string) *bool {
	v := query(ctx, key)
	if v == "" {
		return nil
	}
	b := strings.EqualFold(v, "true") || v == "1"
	return &b
}
