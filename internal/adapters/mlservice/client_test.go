package mlservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "})
	require.Error(t, err)
}

func TestAnalyze_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentiment":"positive","score":0.92}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	result, err := client.Analyze(context.Background(), model.AnalyzeRequest{Text: "great post"})
	require.NoError(t, err)
	assert.Equal(t, "/api/analyze", gotPath)
	assert.Equal(t, "great post", gotBody["text"])
	assert.JSONEq(t, `{"sentiment":"positive","score":0.92}`, string(result))
}

func TestGenerate_Success(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"content":"Generated draft"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	result, err := client.Generate(context.Background(), model.GenerateRequest{Title: "Go profiling"})
	require.NoError(t, err)
	assert.Equal(t, "/api/generate", gotPath)
	assert.JSONEq(t, `{"content":"Generated draft"}`, string(result))
}

func TestAnalyze_Non2xx_IsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), model.AnalyzeRequest{Text: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestAnalyze_InvalidJSONBody_IsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), model.AnalyzeRequest{Text: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestAnalyze_ContextDeadline_IsTimeoutError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Analyze(ctx, model.AnalyzeRequest{Text: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
}

func TestAnalyze_TransportError_IsUpstreamError(t *testing.T) {
	// A server that is immediately closed leaves a refused port behind.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), model.AnalyzeRequest{Text: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestBaseURL_TrailingSlashTrimmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), model.AnalyzeRequest{Text: "x"})
	require.NoError(t, err)
}
