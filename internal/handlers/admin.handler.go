package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fasthttp/router"
	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/services"
	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
)

type AdminSubmissionService interface {
	Get(ctx context.Context, id int64) (*model.Submission, error)
	List(ctx context.Context, f model.SubmissionFilter) ([]*model.Submission, int64, error)
	Update(ctx context.Context, id int64, p model.SubmissionUpdateRequest) (*model.Submission, error)
}

type AdminHandler struct {
	svc AdminSubmissionService
}

func RegisterAdminRoutes(e *router.Group, h *AdminHandler) {
	e.GET("/admin/submissions", h.ListSubmissions)
	e.GET("/admin/submissions/{id}", h.GetSubmission)
	e.PATCH("/admin/submissions/{id}", h.UpdateSubmission)
}

func NewAdminHandler(svc AdminSubmissionService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

type listSubmissionsResponse struct {
	Items []*model.Submission `json:"items"`
	Total int64               `json:"total"`
}

type updateSubmissionRequest struct {
	IsRead     *bool   `json:"is_read"`
	Status     *string `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

func (h *AdminHandler) ListSubmissions(ctx *xhttp.RequestCtx) {
	var f model.SubmissionFilter

	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.SubmissionStatus(parts[i]))
			}
		}
	}
	f.IsRead = queryBool(ctx, "is_read")
	f.IsSpam = queryBool(ctx, "is_spam")
	if v := query(ctx, "ip"); v != "" {
		f.IPAddress = &v
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, "failed to list submissions")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listSubmissionsResponse{Items: items, Total: total})
}

func (h *AdminHandler) GetSubmission(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid submission id")
		return
	}

	sub, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "submission not found")
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, "failed to get submission")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sub)
}

func (h *AdminHandler) UpdateSubmission(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid submission id")
		return
	}

	var req updateSubmissionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	patch := model.SubmissionUpdateRequest{
		IsRead:     req.IsRead,
		AdminNotes: req.AdminNotes,
	}
	if req.Status != nil {
		s := model.SubmissionStatus(*req.Status)
		patch.Status = &s
	}

	updated, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(ctx, xhttp.StatusBadRequest, verr.Message)
		case errors.Is(err, services.ErrNotFound):
			writeError(ctx, xhttp.StatusNotFound, "submission not found")
		default:
			writeError(ctx, xhttp.StatusInternalServerError, "failed to update submission")
		}
		return
	}
	writeJSON(ctx, xhttp.StatusOK, updated)
}
