package web3forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Submit_Success(t *testing.T) {
	var gotAccessKey, gotFormName, gotField string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotAccessKey = r.FormValue("access_key")
		gotFormName = r.FormValue("form_name")
		gotField = r.FormValue("fullName")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer server.Close()

	client := NewClient("key-123", server.URL, 5*time.Second)
	err := client.Submit(context.Background(), "fraud-report", map[string]string{
		"fullName": "Jordan Smith",
	})

	require.NoError(t, err)
	assert.Equal(t, "key-123", gotAccessKey)
	assert.Equal(t, "fraud-report", gotFormName)
	assert.Equal(t, "Jordan Smith", gotField)
}

func TestClient_Submit_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, ErrUnauthorized},
		{"throttled", http.StatusTooManyRequests, `{}`, ErrThrottled},
		{"server error", http.StatusInternalServerError, `{}`, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, `{}`, ErrUnavailable},
		{"rejected", http.StatusOK, `{"success":false,"message":"spam detected"}`, ErrRejected},
		{"invalid response body", http.StatusOK, `not json`, ErrUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient("key", server.URL, 5*time.Second)
			err := client.Submit(context.Background(), "contact", nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestClient_Submit_Unreachable(t *testing.T) {
	// Reserved port with nothing listening
	client := NewClient("key", "http://127.0.0.1:1", 500*time.Millisecond)
	err := client.Submit(context.Background(), "contact", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Submit_RejectedMessagePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"access key disabled"}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, 5*time.Second)
	err := client.Submit(context.Background(), "contact", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access key disabled")
}
