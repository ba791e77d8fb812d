package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkmark/internal/apperrors"
)

func metaTestServer(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, metaUserAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchMetaPrefersOpenGraph(t *testing.T) {
	srv := metaTestServer(t, http.StatusOK, `<html><head>
		<title>Plain Title</title>
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="OG Description">
		<meta name="description" content="Plain Description">
		<meta property="og:image" content="https://example.com/image.png">
	</head><body></body></html>`)

	meta, err := NewMetaService(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "OG Title", meta.Title)
	assert.Equal(t, "OG Description", meta.Description)
	assert.Equal(t, "https://example.com/image.png", meta.ImageURL)
}

func TestFetchMetaFallsBackToTitleTag(t *testing.T) {
	srv := metaTestServer(t, http.StatusOK, `<html><head><title>Foo</title></head><body></body></html>`)

	meta, err := NewMetaService(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Foo", meta.Title)
	assert.Equal(t, "", meta.Description)
	assert.Equal(t, "", meta.ImageURL)
}

func TestFetchMetaFallsBackToURL(t *testing.T) {
	srv := metaTestServer(t, http.StatusOK, `<html><head></head><body>no metadata here</body></html>`)

	meta, err := NewMetaService(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, meta.Title)
}

func TestFetchMetaDescriptionFallback(t *testing.T) {
	srv := metaTestServer(t, http.StatusOK, `<html><head>
		<title>Page</title>
		<meta name="description" content="Plain Description">
	</head><body></body></html>`)

	meta, err := NewMetaService(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain Description", meta.Description)
}

func TestFetchMetaNonSuccessStatus(t *testing.T) {
	srv := metaTestServer(t, http.StatusNotFound, "not found")

	_, err := NewMetaService(srv.Client()).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, apperrors.ErrFetch)
}

func TestFetchMetaEmptyURL(t *testing.T) {
	_, err := NewMetaService(nil).Fetch(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
