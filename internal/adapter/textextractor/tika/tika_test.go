package tika_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amithrb/jobfinder/internal/adapter/textextractor/tika"
	"github.com/amithrb/jobfinder/internal/domain"
)

func TestExtract(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte("  Extracted\n\n resume   text \x00"))
	}))
	defer srv.Close()

	c := tika.New(srv.URL)
	got, err := c.Extract(context.Background(), "resume.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "Extracted resume text", got)
}

func TestExtract_ServerDown(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := tika.New(srv.URL)
	_, err := c.Extract(context.Background(), "resume.pdf", []byte("x"))
	require.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestExtract_NonOKStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := tika.New(srv.URL)
	_, err := c.Extract(context.Background(), "resume.pdf", []byte("x"))
	require.Error(t, err)
}
