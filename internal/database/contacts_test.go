package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/database"
	"real-estate-catalog/internal/database/dbtest"
	"real-estate-catalog/internal/models"
)

func TestContactLifecycle(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	c := &models.Contact{Name: "Asha", Email: "asha@example.com", Phone: "9999999999", Message: "Is it available?", Status: models.ContactStatusNew}
	require.NoError(t, gdb.CreateContact(ctx, c))
	require.NotZero(t, c.ID)

	require.NoError(t, gdb.UpdateContactStatus(ctx, c.ID, models.ContactStatusContacted))
	got, err := gdb.GetContact(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusContacted, got.Status)

	rows, total, err := gdb.ListContacts(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	require.NoError(t, gdb.DeleteContact(ctx, c.ID))
	assert.ErrorIs(t, gdb.DeleteContact(ctx, c.ID), database.ErrNotFound)
	assert.ErrorIs(t, gdb.UpdateContactStatus(ctx, c.ID, models.ContactStatusResolved), database.ErrNotFound)
	_, err = gdb.GetContact(ctx, c.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
