package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galacticworkshop/steam-depot-uploader/internal/storage"
	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
)

func TestUploadHistory_RecordAndGet(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	history := NewUploadHistory(storage.NewUploadStore(db, 10))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := entity.UploadResult{ID: "a", Success: true, BuildID: "1", UploadID: "10", AppID: "480", DepotID: "481", Timestamp: base}
	second := entity.UploadResult{ID: "b", ExitCode: entity.AuthFailureExitCode, AppID: "480", DepotID: "481", Timestamp: base.Add(time.Minute), LogOutput: "SteamCMD: Invalid Login Auth Code\n"}
	require.NoError(t, history.RecordUpload(first))
	require.NoError(t, history.RecordUpload(second))

	got, err := history.GetUpload("a")
	require.NoError(t, err)
	assert.Equal(t, first.BuildID, got.BuildID)
	assert.Equal(t, first.UploadID, got.UploadID)
	assert.True(t, got.Success)
	assert.True(t, first.Timestamp.Equal(got.Timestamp))

	recent, err := history.GetRecentUploads(5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].ID)
	assert.Equal(t, -1, recent[0].ExitCode)
	assert.Equal(t, second.LogOutput, recent[0].LogOutput)

	_, err = history.GetUpload("missing")
	assert.Error(t, err)
}
