package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-backend/internal/workflow"
	apperrors "cmms-backend/pkg/errors"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("limit=50&page=2&search=pump&sort[created_at]=desc&filter[status]=Open&filter[status]=In Progress&withPagination=true")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 50, filter.Offset) // (page-1)*limit
	assert.Equal(t, "pump", filter.Search)
	assert.Equal(t, "desc", filter.Sort["created_at"])
	assert.Equal(t, "Open,In Progress", filter.Filter["status"])
	assert.True(t, filter.WithPagination)
}

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.True(t, filter.WithPagination)
}

func TestParseFilterFromQuery_LimitCap(t *testing.T) {
	values, _ := url.ParseQuery("limit=9999")
	filter := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, filter.Limit)
}

func newEchoCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Запрещённый переход статуса всегда возвращается клиенту как 403.
func TestErrorResponse_TransitionNotAllowed(t *testing.T) {
	ctx, rec := newEchoCtx(t)

	err := workflow.ValidateStatusTransition(workflow.StatusOpen, workflow.StatusClosed, workflow.RoleRequester)
	require.Error(t, err)

	require.NoError(t, ErrorResponse(ctx, err, zap.NewNop()))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["status"])
	assert.Contains(t, body["message"], "Open")
}

func TestErrorResponse_Sentinels(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrBadRequest, http.StatusBadRequest},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrSessionRevoked, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		ctx, rec := newEchoCtx(t)
		require.NoError(t, ErrorResponse(ctx, tc.err, zap.NewNop()))
		assert.Equal(t, tc.expected, rec.Code, "err=%v", tc.err)
	}
}

func TestErrorResponse_HttpError(t *testing.T) {
	ctx, rec := newEchoCtx(t)

	err := apperrors.NewHttpError(409, "пользователь уже существует", nil, nil)
	require.NoError(t, ErrorResponse(ctx, err, zap.NewNop()))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestErrorResponse_Unknown(t *testing.T) {
	ctx, rec := newEchoCtx(t)

	require.NoError(t, ErrorResponse(ctx, assert.AnError, zap.NewNop()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
