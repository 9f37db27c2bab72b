package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUploadNotification(t *testing.T) {
	tests := []struct {
		name        string
		info        UploadNotificationInfo
		wantTitle   string
		wantMessage string
	}{
		{
			name:        "success with ids",
			info:        UploadNotificationInfo{AppID: "480", DepotID: "481", BuildID: "12345", UploadID: "678", Success: true},
			wantTitle:   "Steam Depot Upload SUCCESS",
			wantMessage: "app 480 depot 481, BuildID 12345, upload 678 ✅",
		},
		{
			name:        "failure",
			info:        UploadNotificationInfo{AppID: "480", DepotID: "481", ExitCode: 5},
			wantTitle:   "Steam Depot Upload FAILED",
			wantMessage: "app 480 depot 481, exit code 5 ❌",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, message := FormatUploadNotification(tt.info)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestSendWebhook_EmptyURL(t *testing.T) {
	assert.NoError(t, SendWebhook("", "title", "message"))
}

func TestSendWebhook_PostsPayload(t *testing.T) {
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := SendWebhook(server.URL, "Steam Depot Upload SUCCESS", "app 480")
	require.NoError(t, err)
	assert.Equal(t, "Steam Depot Upload SUCCESS", got.Title)
	assert.Equal(t, "app 480", got.Message)
}

func TestSendWebhook_NonSuccessStatus(t *testing.T) {
	webhookRetryDelay = 0
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := SendWebhook(server.URL, "t", "m")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, webhookAttempts, hits)
}
