package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/services"
	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*model.NewsletterSubscription, error)
	Unsubscribe(ctx context.Context, email string) error
}

type NewsletterHandler struct {
	svc NewsletterService
}

func RegisterNewsletterRoutes(e *router.Group, h *NewsletterHandler) {
	e.POST("/newsletter/subscribe", h.Subscribe)
	e.POST("/newsletter/unsubscribe", h.Unsubscribe)
}

func NewNewsletterHandler(svc NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		svc: svc,
	}
}

type newsletterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *NewsletterHandler) Subscribe(ctx *xhttp.RequestCtx) {
	email := string(ctx.PostArgs().Peek("email"))

	_, err := h.svc.Subscribe(ctx, email)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeJSON(ctx, xhttp.StatusBadRequest, newsletterResponse{Message: verr.Message})
			return
		}
		writeJSON(ctx, xhttp.StatusInternalServerError, newsletterResponse{Message: msgInternalError})
		return
	}
	writeJSON(ctx, xhttp.StatusOK, newsletterResponse{Success: true, Message: "you are subscribed to our newsletter"})
}

func (h *NewsletterHandler) Unsubscribe(ctx *xhttp.RequestCtx) {
	email := string(ctx.PostArgs().Peek("email"))

	if err := h.svc.Unsubscribe(ctx, email); err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(ctx, xhttp.StatusBadRequest, newsletterResponse{Message: verr.Message})
		case errors.Is(err, services.ErrNotSubscribed):
			writeJSON(ctx, xhttp.StatusNotFound, newsletterResponse{Message: "email is not subscribed"})
		default:
			writeJSON(ctx, xhttp.StatusInternalServerError, newsletterResponse{Message: msgInternalError})
		}
		return
	}
	writeJSON(ctx, xhttp.StatusOK, newsletterResponse{Success: true, Message: "you have been unsubscribed"})
}
