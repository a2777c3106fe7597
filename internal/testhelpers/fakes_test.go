package testhelpers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeJiraRecordsRequests(t *testing.T) {
	jira := NewFakeJira(t)

	req, err := http.NewRequest(http.MethodPost, jira.URL+"/rest/api/2/issue/", strings.NewReader(`{"fields":{"summary":"s"}}`))
	require.NoError(t, err)
	req.SetBasicAuth("bot@example.com", "token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	jira.RespondWith(http.StatusBadRequest, "Bad Request")
	resp, err = http.Post(jira.URL+"/rest/api/2/issue/", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	requests := jira.Requests()
	require.Len(t, requests, 2)
	assert.True(t, requests[0].BasicSet)
	assert.Equal(t, "bot@example.com", requests[0].Email)
	assert.Equal(t, "s", requests[0].Decoded["fields"].(map[string]any)["summary"])
	assert.False(t, requests[1].BasicSet)
}
