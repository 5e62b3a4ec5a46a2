package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/services"
	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Create(ctx context.Context, p model.SubmissionCreateRequest) (*model.Submission, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func setupFormContext(path string, form url.Values) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod("POST")
	ctx.Request.SetRequestURI(path)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.SetBodyString(form.Encode())
	return ctx
}

func contactForm() url.Values {
	return url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@example.com"},
		"message": {"Interested in your SEO services for my startup."},
	}
}

func TestContactHandler_CreateSubmission(t *testing.T) {
	t.Run("successful submission", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.SubmissionCreateRequest) bool {
			return p.Name == "Jane Doe" && p.Email == "jane@example.com"
		})).Return(&model.Submission{ID: 42, Status: model.SubmissionStatusNew}, nil)

		ctx := setupFormContext("/api/v1/contact", contactForm())
		handler.CreateSubmission(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp submissionResponse
		err := json.Unmarshal(ctx.Response.Body(), &resp)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.SubmissionID)
		assert.Equal(t, int64(42), *resp.SubmissionID)

		svc.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, services.ErrMissingFields)

		form := contactForm()
		form.Set("email", "")
		ctx := setupFormContext("/api/v1/contact", form)
		handler.CreateSubmission(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var resp submissionResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "please fill in all required fields", resp.Message)
		assert.Nil(t, resp.SubmissionID)
	})

	t.Run("invalid email message", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, services.ErrInvalidEmail)

		ctx := setupFormContext("/api/v1/contact", contactForm())
		handler.CreateSubmission(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var resp submissionResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "please enter a valid email address", resp.Message)
	})

	t.Run("spam verdict returns generic 429", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, services.ErrSubmissionBlocked)

		ctx := setupFormContext("/api/v1/contact", contactForm())
		handler.CreateSubmission(ctx)

		assert.Equal(t, 429, ctx.Response.StatusCode())

		var resp submissionResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "submission blocked for security reasons", resp.Message)
		// the stored reason never leaks
		assert.NotContains(t, string(ctx.Response.Body()), "suspicious")
	})

	t.Run("infrastructure error returns generic 500", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, errors.New("pq: connection refused"))

		ctx := setupFormContext("/api/v1/contact", contactForm())
		handler.CreateSubmission(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
		assert.NotContains(t, string(ctx.Response.Body()), "pq:")
	})

	t.Run("forwarded header wins over remote address", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.SubmissionCreateRequest) bool {
			return p.IPAddress == "203.0.113.5"
		})).Return(&model.Submission{ID: 1}, nil)

		ctx := setupFormContext("/api/v1/contact", contactForm())
		ctx.Request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
		handler.CreateSubmission(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("user agent and referrer are captured", func(t *testing.T) {
		svc := new(MockContactService)
		handler := NewContactHandler(svc)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.SubmissionCreateRequest) bool {
			return p.UserAgent == "Mozilla/5.0" && p.Referrer == "https://example.com/services"
		})).Return(&model.Submission{ID: 2}, nil)

		ctx := setupFormContext("/api/v1/contact", contactForm())
		ctx.Request.Header.SetUserAgent("Mozilla/5.0")
		ctx.Request.Header.SetReferer("https://example.com/services")
		handler.CreateSubmission(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestContactRoutes_MethodNotAllowed(t *testing.T) {
	svc := new(MockContactService)
	r := xhttp.CreateDefaultRouter()
	RegisterContactRoutes(r.Group("/api/v1"), NewContactHandler(svc))

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.Header.SetMethod(method)
			ctx.Request.SetRequestURI("/api/v1/contact")
			r.Handler(ctx)

			assert.Equal(t, 405, ctx.Response.StatusCode())
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	// the registered method still reaches the handler
	svc.On("Create", mock.Anything, mock.Anything).
		Return(&model.Submission{ID: 7}, nil)
	ctx := setupFormContext("/api/v1/contact", contactForm())
	r.Handler(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		want         string
	}{
		{"no header", "", "192.0.2.1", "192.0.2.1"},
		{"single entry", "203.0.113.5", "192.0.2.1", "203.0.113.5"},
		{"multiple entries take the first", "203.0.113.5, 10.0.0.1, 10.0.0.2", "192.0.2.1", "203.0.113.5"},
		{"entries with spaces", "  203.0.113.5 , 10.0.0.1", "192.0.2.1", "203.0.113.5"},
		{"empty header falls back", "  ,10.0.0.1", "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientIP(tt.forwardedFor, tt.remoteAddr))
		})
	}
}
