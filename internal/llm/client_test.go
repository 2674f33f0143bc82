package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MilanLasica/DrugsDataroom/internal/config"
	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

func TestNewSelectsVariant(t *testing.T) {
	g := New(config.LLMConfig{})
	assert.False(t, g.Available())
	_, err := g.Generate(context.Background(), Request{Prompt: "hi"})
	assert.True(t, errors.Is(err, ErrUnavailable))

	g = New(config.LLMConfig{Token: "tok"})
	assert.True(t, g.Available())
	client, ok := g.(*Client)
	require.True(t, ok)
	assert.Equal(t, "meta-llama-3.1-70b-instruct", client.Model())
}

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 4)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "assistant", req.Messages[2].Role)
		assert.Equal(t, "Question?", req.Messages[3].Content)
		assert.Equal(t, 800, req.MaxTokens)
		require.NotNil(t, req.Temperature)
		assert.Equal(t, 0.7, *req.Temperature)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Answer."}}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Token: "tok", BaseURL: srv.URL + "/"})
	out, err := client.Generate(context.Background(), Request{
		System: "persona",
		History: []domain.Turn{
			{Role: "user", Content: "earlier"},
			{Role: "assistant", Content: "reply"},
		},
		Prompt:      "Question?",
		MaxTokens:   800,
		Temperature: Temperature(0.7),
	})
	require.NoError(t, err)
	assert.Equal(t, "Answer.", out)
}

func TestClientGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(ClientConfig{Token: "t", BaseURL: srv.URL}).Generate(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			var de *domain.DomainError
			assert.ErrorAs(t, err, &de)
		})
	}
}
