package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer_IssueAndParse(t *testing.T) {
	auth := NewAuthorizer("s3cret", false)
	token, err := auth.IssueToken("admin", true, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.IsStaff)

	_, err = NewAuthorizer("other", false).ParseToken(token)
	assert.Error(t, err, "wrong secret")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{IsStaff: true}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = auth.ParseToken(hs512)
	assert.Error(t, err, "only HS256 is accepted")

	_, err = NewAuthorizer("", true).IssueToken("admin", true, time.Hour)
	assert.Error(t, err)
}

func TestAuthorizer_RequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	auth := NewAuthorizer("s3cret", false)
	staff, err := auth.IssueToken("admin", true, time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		auth   *Authorizer
		method string
		header string
		want   int
	}{
		{name: "read is open", auth: auth, method: http.MethodGet, want: http.StatusTeapot},
		{name: "write without token", auth: auth, method: http.MethodPost, want: http.StatusForbidden},
		{name: "write with malformed header", auth: auth, method: http.MethodPut, header: "Token " + staff, want: http.StatusForbidden},
		{name: "write with garbage token", auth: auth, method: http.MethodPatch, header: "Bearer nope", want: http.StatusForbidden},
		{name: "write with staff token", auth: auth, method: http.MethodDelete, header: "Bearer " + staff, want: http.StatusTeapot},
		{name: "anonymous writes allowed", auth: NewAuthorizer("", true), method: http.MethodPost, want: http.StatusTeapot},
		{name: "nil authorizer denies writes", auth: nil, method: http.MethodPost, want: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/partenaires", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			tc.auth.RequireStaff(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
