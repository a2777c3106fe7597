package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTestServer(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	generator, err := NewGeminiGenerator(context.Background(), "test-key", "gemini-1.5-flash", ts.URL, ts.Client())
	require.NoError(t, err)
	return generator
}

func TestGeminiGeneratorGenerate(t *testing.T) {
	var prompt string
	generator := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-flash:generateContent"), r.URL.Path)
		key := r.URL.Query().Get("key")
		if key == "" {
			key = r.Header.Get("X-Goog-Api-Key")
		}
		assert.Equal(t, "test-key", key)

		var body struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 1)
		prompt = body.Contents[0].Parts[0].Text

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Users "},{"text":"want speed."}]}}]}`)
	})

	text, err := generator.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "Users want speed.", text)
	assert.Equal(t, "summarize this", prompt)
	assert.Equal(t, "gemini", generator.Name())
}

func TestGeminiGeneratorNoCandidates(t *testing.T) {
	generator := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[]}`)
	})

	_, err := generator.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiGeneratorAPIError(t *testing.T) {
	generator := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	})

	_, err := generator.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate content")
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY must be set")
}

func TestGeminiGeneratorDefaultModel(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`)
	}))
	defer ts.Close()

	generator, err := NewGeminiGenerator(context.Background(), "test-key", "", ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "/models/"+defaultGeminiModel+":generateContent"), path)
}
