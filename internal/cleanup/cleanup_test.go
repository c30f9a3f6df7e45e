package cleanup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/cleanup"
	"real-estate-catalog/internal/database/dbtest"
	"real-estate-catalog/internal/logging"
	"real-estate-catalog/internal/models"
)

func ptr(s string) *string { return &s }

func TestCleanupOrphanedContacts(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, gdb.CreateProperty(ctx, &models.Property{ID: "live", Title: "Live", PropertyType: "Flat"}))
	for _, c := range []*models.Contact{
		{Name: "a", Email: "a@x.io", Phone: "1", Message: "m", PropertyID: ptr("live")},
		{Name: "b", Email: "b@x.io", Phone: "2", Message: "m", PropertyID: ptr("gone")},
		{Name: "c", Email: "c@x.io", Phone: "3", Message: "m", PropertyID: ptr("also-gone")},
		{Name: "d", Email: "d@x.io", Phone: "4", Message: "m"},
	} {
		c.Status = models.ContactStatusNew
		require.NoError(t, gdb.CreateContact(ctx, c))
	}

	svc := cleanup.NewService(gdb.DB(), logging.Discard())

	dry, err := svc.CleanupOrphanedContacts(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dry.TargetCount)
	assert.Zero(t, dry.UpdatedCount)

	result, err := svc.CleanupOrphanedContacts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.UpdatedCount)

	var attached int64
	require.NoError(t, gdb.DB().Model(&models.Contact{}).Where("property_id IS NOT NULL").Count(&attached).Error)
	assert.Equal(t, int64(1), attached)

	again, err := svc.CleanupOrphanedContacts(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.TargetCount)
}

func TestDeleteStatsAndLogs(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, gdb.RecordDeletion(ctx, &models.DeleteLog{PropertyID: "p1", Title: "One", Reason: models.DeleteReasonManual, DeletedAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, gdb.RecordDeletion(ctx, &models.DeleteLog{PropertyID: "p2", Title: "Two", Reason: models.DeleteReasonManual, DeletedAt: time.Now()}))

	svc := cleanup.NewService(gdb.DB(), logging.Discard())

	stats, err := svc.GetDeleteStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total_deleted"])
	assert.Equal(t, map[string]int64{models.DeleteReasonManual: 2}, stats["by_reason"])
	assert.Equal(t, int64(0), stats["orphaned_contacts"])

	logs, err := svc.GetRecentDeleteLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "p2", logs[0].PropertyID)
}
