package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/crm-api/internal/httputil"
	"github.com/redmonkez12/crm-api/internal/user"
)

func TestHandler_Me(t *testing.T) {
	svc, _ := newService(t)
	h := user.NewHandler(svc)

	created, err := svc.Create(context.Background(), annParams())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = req.WithContext(user.WithPrincipal(req.Context(), created))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")

	var got user.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, created.ID, got.ID)

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_UpdateMe(t *testing.T) {
	svc, _ := newService(t)
	h := user.NewHandler(svc)

	created, err := svc.Create(context.Background(), annParams())
	require.NoError(t, err)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(body))
		req = req.WithContext(user.WithPrincipal(req.Context(), created))
		rec := httptest.NewRecorder()
		h.UpdateMe(rec, req)
		return rec
	}

	rec := patch(`{"lastName":"Smith","birthDate":"1985-12-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got user.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Ann", got.FirstName)
	require.Equal(t, "Smith", got.LastName)
	require.Equal(t, "1985-12-01", got.BirthDate.Format("2006-01-02"))

	rec = patch(`{"firstName":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, httputil.CodeValidationFailed, body.Code)
	require.Len(t, body.Fields, 1)
	require.Equal(t, "firstName", body.Fields[0].Field)

	rec = patch(`{"email":"other@example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
