package repository

import (
	"github.com/galacticworkshop/steam-depot-uploader/internal/storage"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

// UploadHistory adapts the SQLite upload store to upload results.
type UploadHistory struct {
	store *storage.UploadStore
}

func NewUploadHistory(store *storage.UploadStore) *UploadHistory {
	return &UploadHistory{store: store}
}

func (h *UploadHistory) RecordUpload(result entity.UploadResult) error {
	return h.store.RecordUpload(storage.UploadRecord{
		UploadUUID: result.ID,
		Success:    result.Success,
		ExitCode:   result.ExitCode,
		UploadID:   result.UploadID,
		BuildID:    result.BuildID,
		AppID:      result.AppID,
		DepotID:    result.DepotID,
		BuildPath:  result.BuildPath,
		UploadedAt: result.Timestamp,
		LogOutput:  result.LogOutput,
	})
}

func (h *UploadHistory) GetUpload(id string) (entity.UploadResult, error) {
	record, err := h.store.GetUpload(id)
	if err != nil {
		return entity.UploadResult{}, err
	}
	return toResult(record), nil
}

func (h *UploadHistory) GetRecentUploads(limit int) ([]entity.UploadResult, error) {
	records, err := h.store.GetRecentUploads(limit)
	if err != nil {
		return nil, err
	}
	results := make([]entity.UploadResult, 0, len(records))
	for _, record := range records {
		results = append(results, toResult(record))
	}
	return results, nil
}

func toResult(record *storage.UploadRecord) entity.UploadResult {
	return entity.UploadResult{
		ID:        record.UploadUUID,
		Success:   record.Success,
		ExitCode:  record.ExitCode,
		UploadID:  record.UploadID,
		BuildID:   record.BuildID,
		AppID:     record.AppID,
		DepotID:   record.DepotID,
		BuildPath: record.BuildPath,
		Timestamp: record.UploadedAt,
		LogOutput: record.LogOutput,
	}
}
