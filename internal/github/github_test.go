package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prBody = `{
	"number": 100,
	"title": "Fix off-by-one",
	"user": {"login": "alice"},
	"base": {"ref": "master"},
	"head": {"sha": "abc1234567890abc1234567890abc1234567890a"}
}`

func testClient(server *httptest.Server, token string) *Client {
	return &Client{
		token:   token,
		apiURL:  server.URL,
		httpCli: server.Client(),
	}
}

func TestGetPR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/bitcoin/bitcoin/pulls/100", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.Write([]byte(prBody))
	}))
	defer server.Close()

	pr, err := testClient(server, "test-token").GetPR(context.Background(), "bitcoin", "bitcoin", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, pr.Number)
	assert.Equal(t, "alice", pr.Author)
	assert.Equal(t, "Fix off-by-one", pr.Title)
	assert.Equal(t, "master", pr.BaseBranch)
	assert.Equal(t, "abc1234567890abc1234567890abc1234567890a", pr.HeadSHA)
	assert.JSONEq(t, prBody, string(pr.Raw))
}

func TestGetPRUnauthenticatedSendsNoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(prBody))
	}))
	defer server.Close()

	_, err := testClient(server, "").GetPR(context.Background(), "bitcoin", "bitcoin", 100)
	require.NoError(t, err)
}

func TestGetPRNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	_, err := testClient(server, "t").GetPR(context.Background(), "bitcoin", "bitcoin", 999999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAuthError(err))
}

func TestGetPRAuthFailure(t *testing.T) {
	for _, status := range []int{401, 403} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		}))
		_, err := testClient(server, "bad").GetPR(context.Background(), "bitcoin", "bitcoin", 100)
		server.Close()
		require.Error(t, err)
		assert.True(t, IsAuthError(err), "status %d", status)
	}
}

func TestGetPRMissingAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number": 100, "title": "x"}`))
	}))
	defer server.Close()

	_, err := testClient(server, "t").GetPR(context.Background(), "bitcoin", "bitcoin", 100)
	assert.Error(t, err)
}
