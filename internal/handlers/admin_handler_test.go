package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/digitalpro/contact-gateway/internal/model"
	"github.com/digitalpro/contact-gateway/internal/services"
	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Get(ctx context.Context, id int64) (*model.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockAdminService) List(ctx context.Context, f model.SubmissionFilter) ([]*model.Submission, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminService) Update(ctx context.Context, id int64, p model.SubmissionUpdateRequest) (*model.Submission, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestAdminHandler_ListSubmissions(t *testing.T) {
	t.Run("list with filters", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.SubmissionFilter) bool {
			return len(f.Statuses) == 2 &&
				f.Statuses[0] == model.SubmissionStatusNew &&
				f.Statuses[1] == model.SubmissionStatusSpam &&
				f.IsSpam != nil && *f.IsSpam &&
				f.Limit == 20 && f.Desc
		})).Return([]*model.Submission{{ID: 1}}, int64(1), nil)

		ctx := setupTestContext("GET", "/api/v1/admin/submissions?status=new,spam&is_spam=true&limit=20&order=desc", nil)
		handler.ListSubmissions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp listSubmissionsResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, int64(1), resp.Total)
		assert.Len(t, resp.Items, 1)

		svc.AssertExpectations(t)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("List", mock.Anything, mock.Anything).
			Return(nil, int64(0), assert.AnError)

		ctx := setupTestContext("GET", "/api/v1/admin/submissions", nil)
		handler.ListSubmissions(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}

func TestAdminHandler_GetSubmission(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("Get", mock.Anything, int64(42)).
			Return(&model.Submission{ID: 42, Email: "jane@example.com"}, nil)

		ctx := setupTestContext("GET", "/api/v1/admin/submissions/42", nil)
		ctx.SetUserValue("id", "42")
		handler.GetSubmission(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var sub model.Submission
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &sub))
		assert.Equal(t, int64(42), sub.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("Get", mock.Anything, int64(7)).
			Return(nil, services.ErrNotFound)

		ctx := setupTestContext("GET", "/api/v1/admin/submissions/7", nil)
		ctx.SetUserValue("id", "7")
		handler.GetSubmission(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		ctx := setupTestContext("GET", "/api/v1/admin/submissions/abc", nil)
		ctx.SetUserValue("id", "abc")
		handler.GetSubmission(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestAdminHandler_UpdateSubmission(t *testing.T) {
	t.Run("mark read", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("Update", mock.Anything, int64(42), mock.MatchedBy(func(p model.SubmissionUpdateRequest) bool {
			return p.IsRead != nil && *p.IsRead && p.Status == nil
		})).Return(&model.Submission{ID: 42, IsRead: true}, nil)

		body := []byte(`{"is_read": true}`)
		ctx := setupTestContext("PATCH", "/api/v1/admin/submissions/42", body)
		ctx.SetUserValue("id", "42")
		handler.UpdateSubmission(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var sub model.Submission
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &sub))
		assert.True(t, sub.IsRead)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("Update", mock.Anything, int64(42), mock.Anything).
			Return(nil, &services.ValidationError{Message: "invalid status value"})

		body := []byte(`{"status": "archived"}`)
		ctx := setupTestContext("PATCH", "/api/v1/admin/submissions/42", body)
		ctx.SetUserValue("id", "42")
		handler.UpdateSubmission(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		ctx := setupTestContext("PATCH", "/api/v1/admin/submissions/42", []byte("not json"))
		ctx.SetUserValue("id", "42")
		handler.UpdateSubmission(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing submission", func(t *testing.T) {
		svc := new(MockAdminService)
		handler := NewAdminHandler(svc)

		svc.On("Update", mock.Anything, int64(9), mock.Anything).
			Return(nil, services.ErrNotFound)

		body := []byte(`{"is_read": true}`)
		ctx := setupTestContext("PATCH", "/api/v1/admin/submissions/9", body)
		ctx.SetUserValue("id", "9")
		handler.UpdateSubmission(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}
