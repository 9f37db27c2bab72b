package repository

import (
	"github.com/galacticworkshop/steam-depot-uploader/internal/notification"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

// WebhookNotifier posts upload outcomes to the configured webhook.
type WebhookNotifier struct {
	WebhookURL string
}

func (n WebhookNotifier) NotifyUpload(result entity.UploadResult) {
	notification.SendUploadNotification(n.WebhookURL, notification.UploadNotificationInfo{
		AppID:    result.AppID,
		DepotID:  result.DepotID,
		BuildID:  result.BuildID,
		UploadID: result.UploadID,
		ExitCode: result.ExitCode,
		Success:  result.Success,
	})
}
