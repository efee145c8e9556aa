package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelog/internal/domain/employee"
	"sitelog/internal/domain/entry"
	"sitelog/internal/domain/sheet"
)

func TestSheetRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSheetRepository()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, sheet.Row{Sheet: "JCB_Logs", EntryTime: at, EnteredBy: "Ravi", Data: entry.Record{"rate": "500"}}))
	require.NoError(t, repo.Append(ctx, sheet.Row{Sheet: "JCB_Logs", EntryTime: at.Add(time.Second), EnteredBy: "Mohan", Data: entry.Record{}}))

	all, err := repo.List(ctx, "JCB_Logs", sheet.Filter{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := repo.List(ctx, "JCB_Logs", sheet.Filter{EnteredBy: "Ravi"})
	require.NoError(t, err)
	require.Len(t, own, 1)

	// изменение копии не затрагивает хранилище
	own[0].Data["rate"] = "0"
	row, err := repo.Get(ctx, "JCB_Logs", at)
	require.NoError(t, err)
	assert.Equal(t, "500", row.Data["rate"])

	require.NoError(t, repo.Update(ctx, "JCB_Logs", at, entry.Record{"rate": "600"}))
	row, err = repo.Get(ctx, "JCB_Logs", at)
	require.NoError(t, err)
	assert.Equal(t, "600", row.Data["rate"])

	_, err = repo.Get(ctx, "JCB_Logs", at.Add(time.Hour))
	assert.ErrorIs(t, err, sheet.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, "Tipper_Logs", at, entry.Record{}), sheet.ErrNotFound)

	empty, err := repo.List(ctx, "Diesel_Logs", sheet.Filter{All: true})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	id, err := repo.Create(ctx, "Ravi", "hash")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = repo.Create(ctx, "ravi", "hash2")
	assert.ErrorIs(t, err, employee.ErrAlreadyExists)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ravi", list[0].Name)
}
