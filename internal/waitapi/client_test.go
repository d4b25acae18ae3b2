package waitapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/waitwatch/internal/waitapi/waitapitest"
)

const testKey = "test-key"

func newTestClient(t *testing.T, srv *waitapitest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.Endpoint(), testKey, WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"https", "https://example.com/watch-api.php", false},
		{"http with port", "http://127.0.0.1:8080/api", false},
		{"trims space", "  https://example.com/x  ", false},
		{"empty", "   ", true},
		{"no scheme", "example.com/watch-api.php", true},
		{"unsupported scheme", "ftp://example.com/x", true},
		{"missing host", "https:///x", true},
		{"unparsable", "http://[::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseEndpoint(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, u.Host)
		})
	}
}

func TestClient_PushSelectionSendsContract(t *testing.T) {
	t.Parallel()

	srv := waitapitest.New(testKey)
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv)

	require.NoError(t, c.PushSelection(context.Background(), 3))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, testKey, reqs[0].APIKey)
	assert.NotEmpty(t, reqs[0].RequestID)

	var body map[string]int
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, map[string]int{"option_id": 3}, body)

	current, ok := srv.Current()
	assert.True(t, ok)
	assert.Equal(t, 3, current)
}

func TestClient_PushSelectionNon200IsStatusError(t *testing.T) {
	t.Parallel()

	srv := waitapitest.New(testKey)
	t.Cleanup(srv.Close)
	srv.SetPushStatus(http.StatusInternalServerError)
	c := newTestClient(t, srv)

	err := c.PushSelection(context.Background(), 1)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestClient_WrongKeyIsRejected(t *testing.T) {
	t.Parallel()

	srv := waitapitest.New(testKey)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.Endpoint(), "wrong")
	require.NoError(t, err)

	err = c.PushSelection(context.Background(), 1)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestClient_FetchCurrent(t *testing.T) {
	t.Parallel()

	srv := waitapitest.New(testKey)
	t.Cleanup(srv.Close)
	srv.SetCurrent(2)
	c := newTestClient(t, srv)

	got, err := c.FetchCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "current", reqs[0].Action)
	assert.Equal(t, testKey, reqs[0].APIKey)
}

func TestClient_FetchCurrentKeepsExistingQuery(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"current_option_id": 4}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api?store=7", testKey)
	require.NoError(t, err)

	got, err := c.FetchCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, got)
	assert.Contains(t, gotQuery, "store=7")
	assert.Contains(t, gotQuery, "action=current")
}

func TestClient_FetchCurrentMalformed(t *testing.T) {
	bodies := map[string]string{
		"missing field": `{"other": 1}`,
		"wrong type":    `{"current_option_id": "2"}`,
		"not json":      `<html>`,
		"fractional":    `{"current_option_id": 2.5}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := waitapitest.New(testKey)
			t.Cleanup(srv.Close)
			srv.SetReadBody([]byte(body))
			c := newTestClient(t, srv)

			_, err := c.FetchCurrent(context.Background())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestClient_FetchCurrentNon200(t *testing.T) {
	srv := waitapitest.New(testKey)
	t.Cleanup(srv.Close)
	srv.SetReadStatus(http.StatusServiceUnavailable)
	c := newTestClient(t, srv)

	_, err := c.FetchCurrent(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestClient_FetchCurrentNon200ReusesConnection(t *testing.T) {
	srv := waitapitest.New(testKey)
	t.Cleanup(srv.Close)
	srv.SetReadStatus(http.StatusInternalServerError)

	transport := &http.Transport{}
	t.Cleanup(transport.CloseIdleConnections)
	c, err := NewClient(srv.Endpoint(), testKey,
		WithHTTPClient(&http.Client{Transport: transport, Timeout: 2 * time.Second}))
	require.NoError(t, err)

	var reused []bool
	ctx := httptrace.WithClientTrace(context.Background(), &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) { reused = append(reused, info.Reused) },
	})
	for range 2 {
		_, err := c.FetchCurrent(ctx)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
	}

	require.Len(t, reused, 2)
	assert.True(t, reused[1], "error responses should leave the connection reusable")
}

func TestClient_TransportError(t *testing.T) {
	srv := waitapitest.New(testKey)
	endpoint := srv.Endpoint()
	srv.Close()

	c, err := NewClient(endpoint, testKey)
	require.NoError(t, err)

	err = c.PushSelection(context.Background(), 1)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotEmpty(t, transportErr.Description())
	assert.False(t, strings.Contains(transportErr.Description(), endpoint),
		"description should not repeat the URL: %q", transportErr.Description())
	assert.True(t, strings.HasPrefix(err.Error(), "execute request: "))
}

func TestClient_ZeroValueShortCircuits(t *testing.T) {
	var c Client
	assert.ErrorIs(t, c.PushSelection(context.Background(), 1), ErrInvalidEndpoint)
	_, err := c.FetchCurrent(context.Background())
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
	assert.Empty(t, c.Endpoint())
	assert.False(t, c.Valid())

	var nilClient *Client
	assert.ErrorIs(t, nilClient.PushSelection(context.Background(), 1), ErrInvalidEndpoint)
	assert.False(t, nilClient.Valid())
}

func TestTransportError_Description(t *testing.T) {
	err := &TransportError{Err: errors.New("timeout")}
	assert.Equal(t, "timeout", err.Description())
	assert.Equal(t, "execute request: timeout", err.Error())
}
