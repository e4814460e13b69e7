package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

type samplePayload struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Sam","email":"sam@example.com","rating":4}`))

	var payload samplePayload
	require.NoError(t, DecodeJSONBody(r, &payload))
	require.Equal(t, "Sam", payload.Name)
	require.Equal(t, 4, payload.Rating)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Sam","email":"sam@example.com","rating":4,"extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyReportsFieldMessages(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","email":"not-an-email","rating":9}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["name"])
	require.Equal(t, "must be a valid email", details["email"])
	require.Equal(t, "must be at most 5", details["rating"])
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=10&cursor=abc", nil)

	params, err := ParsePagination(r)
	require.NoError(t, err)
	require.Equal(t, 10, params.Limit)
	require.Equal(t, "abc", params.Cursor)
}

func TestParsePaginationRejectsBadLimit(t *testing.T) {
	for _, query := range []string{"limit=0", "limit=9999", "limit=ten"} {
		r := httptest.NewRequest("GET", "/?"+query, nil)
		_, err := ParsePagination(r)
		require.Error(t, err, query)
	}
}
