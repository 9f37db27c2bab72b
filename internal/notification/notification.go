package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/galacticworkshop/steam-depot-uploader/pkg/httputil"
)

var (
	webhookAttempts   = 3
	webhookRetryDelay = 2 * time.Second
)

// WebhookPayload represents the notification payload sent to webhook
type WebhookPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// UploadNotificationInfo contains upload details for notification
type UploadNotificationInfo struct {
	AppID    string
	DepotID  string
	BuildID  string
	UploadID string
	ExitCode int
	Success  bool
}

// SendWebhook sends a notification to the configured webhook URL
func SendWebhook(webhookURL, title, message string) error {
	if webhookURL == "" {
		log.Println("Notification webhook URL not configured, skipping notification")
		return nil
	}

	payload := WebhookPayload{
		Title:   title,
		Message: message,
	}

	client := cleanhttp.DefaultClient()
	client.Timeout = 10 * time.Second

	err := httputil.PostJSONWithRetry(context.Background(), client, webhookURL, payload,
		webhookAttempts, webhookRetryDelay, func(attempt, maxAttempts int, err error) {
			log.Printf("Notification attempt %d/%d failed: %v", attempt, maxAttempts, err)
		})
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	log.Printf("Notification sent successfully: %s", title)
	return nil
}

// FormatUploadNotification builds the title and message for an upload outcome
func FormatUploadNotification(info UploadNotificationInfo) (title, message string) {
	status := "SUCCESS"
	emoji := "✅"
	if !info.Success {
		status = "FAILED"
		emoji = "❌"
	}
	title = fmt.Sprintf("Steam Depot Upload %s", status)

	// Format: app 480 depot 481, BuildID 12345, upload 678 ✅
	message = fmt.Sprintf("app %s depot %s", info.AppID, info.DepotID)
	if info.BuildID != "" {
		message += ", BuildID " + info.BuildID
	}
	if info.UploadID != "" {
		message += ", upload " + info.UploadID
	}
	if !info.Success {
		message += fmt.Sprintf(", exit code %d", info.ExitCode)
	}
	message += " " + emoji

	return title, message
}

// SendUploadNotification sends an upload completion notification
func SendUploadNotification(webhookURL string, info UploadNotificationInfo) {
	title, message := FormatUploadNotification(info)

	// Always log the notification message for inspection
	log.Printf("Notification: %s - %s", title, message)

	if err := SendWebhook(webhookURL, title, message); err != nil {
		log.Printf("Failed to send upload notification: %v", err)
	}
}
