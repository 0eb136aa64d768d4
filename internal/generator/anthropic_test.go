package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rppapi/internal/config"
	"rppapi/internal/content"
	"rppapi/internal/model"
)

func testDoc() *model.Document {
	return &model.Document{
		ID:           1,
		Subject:      "Matematika",
		TeacherName:  "Budi",
		Phase:        "D(Kelas VII-VIII)",
		Semester:     "Ganjil",
		AcademicYear: "2024/2025",
		Assessment:   "Ujian",
		SessionCount: 3,
	}
}

func newTestClient(url string) *Anthropic {
	return NewAnthropic(config.AIConfig{
		APIKey:      "test-key",
		BaseURL:     url + "/",
		Model:       "claude-test",
		MaxTokens:   4000,
		Temperature: 0.7,
	})
}

func TestAnthropic_Generate(t *testing.T) {
	var got messageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"1. Identitas RPP"},{"type":"text","text":"\nisi"}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).Generate(context.Background(), testDoc(), content.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "1. Identitas RPP\nisi", out)

	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 4000, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Mata Pelajaran: Matematika")
}

func TestAnthropic_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, wantMsg: "authentication_error"},
		{name: "bare status", status: http.StatusBadGateway, body: `oops`, wantMsg: "status 502"},
		{name: "empty content", status: http.StatusOK, body: `{"content":[]}`, wantMsg: "empty response"},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantMsg: "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Generate(context.Background(), testDoc(), content.FormatJSON)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstream)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAnthropic_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Generate(ctx, testDoc(), content.FormatText)
	assert.ErrorIs(t, err, ErrUpstream)
}
