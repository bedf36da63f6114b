package api

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newMediaContext(target string, mutate func(*http.Request)) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if mutate != nil {
		mutate(req)
	}
	c.Request = req
	return c
}

func TestMediaResolver_Resolve(t *testing.T) {
	cases := []struct {
		name     string
		resolver *MediaResolver
		mutate   func(*http.Request)
		value    string
		want     string
	}{
		{"empty", NewMediaResolver(nil, ""), nil, "  ", ""},
		{"absolute passthrough", NewMediaResolver(&fakeSigner{}, ""), nil, "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"request host", NewMediaResolver(nil, ""), nil, "projects/a.png", "http://example.com/media/projects/a.png"},
		{"forwarded https", NewMediaResolver(nil, ""), func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, "a.png", "https://example.com/media/a.png"},
		{"tls", NewMediaResolver(nil, ""), func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, "/a.png", "https://example.com/media/a.png"},
		{"configured base", NewMediaResolver(nil, "https://static.example.org/uploads/"), nil, "a.png", "https://static.example.org/uploads/a.png"},
		{"signed", NewMediaResolver(&fakeSigner{}, ""), nil, "profile/me.png", "https://media.example.com/portfolio-media/profile/me.png?X-Amz-Signature=abc"},
		{"signer failure falls back", NewMediaResolver(&fakeSigner{err: errBoom}, "https://static.example.org"), nil, "me.png", "https://static.example.org/me.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newMediaContext("/api/profile/", tc.mutate)
			assert.Equal(t, tc.want, tc.resolver.Resolve(c, tc.value))
		})
	}
}

func TestMediaResolver_ResolvePtr(t *testing.T) {
	c := newMediaContext("/api/contact/", nil)
	r := NewMediaResolver(nil, "")

	assert.Nil(t, r.ResolvePtr(c, ""))
	got := r.ResolvePtr(c, "cv.pdf")
	if assert.NotNil(t, got) {
		assert.Equal(t, "http://example.com/media/cv.pdf", *got)
	}
}
