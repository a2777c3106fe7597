package testhelpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// JiraRequest is one issue-creation call seen by FakeJira
type JiraRequest struct {
	Email    string
	Token    string
	Path     string
	Body     []byte
	Decoded  map[string]any
	BasicSet bool
}

// FakeJira is an httptest server standing in for the issue tracker
type FakeJira struct {
	*httptest.Server

	mu       sync.Mutex
	requests []JiraRequest
	status   int
	body     string
}

// NewFakeJira starts a tracker that answers 201 until told otherwise
func NewFakeJira(t *testing.T) *FakeJira {
	t.Helper()
	f := &FakeJira{status: http.StatusCreated}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// RespondWith changes the status and raw body of later responses
func (f *FakeJira) RespondWith(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Requests returns a copy of every request received so far
func (f *FakeJira) Requests() []JiraRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]JiraRequest(nil), f.requests...)
}

func (f *FakeJira) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	email, token, ok := r.BasicAuth()

	req := JiraRequest{Email: email, Token: token, Path: r.URL.Path, Body: body, BasicSet: ok}
	_ = json.Unmarshal(body, &req.Decoded)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if respBody == "" && status == http.StatusCreated {
		respBody = fmt.Sprintf(`{"id":"%d","key":"FB-%d"}`, 10000+n, n)
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

// NewFakeChatCompletions starts a chat-completions endpoint that answers
// every prompt with reply. An empty reply simulates a backend error.
func NewFakeChatCompletions(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reply == "" {
			http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}
