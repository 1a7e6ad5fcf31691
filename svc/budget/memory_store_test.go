package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAdvanceAlertStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	b := &Budget{ID: uuid.New(), AccountID: uuid.New(), Category: CategoryAll, Month: 1, Year: 2026, LastAlertStatus: AlertNone}
	require.NoError(t, s.Create(ctx, b))
	at := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	won, err := s.AdvanceAlertStatus(ctx, b.ID, AlertNone, AlertNear, at)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = s.AdvanceAlertStatus(ctx, b.ID, AlertNone, AlertExceeded, at)
	require.NoError(t, err)
	assert.False(t, won, "stale from status must not win")

	stored, err := s.Get(ctx, b.AccountID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, AlertNear, stored.LastAlertStatus)
	require.NotNil(t, stored.LastAlertAt)
	assert.Equal(t, at, *stored.LastAlertAt)

	_, err = s.AdvanceAlertStatus(ctx, uuid.New(), AlertNone, AlertNear, at)
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestMemoryStoreScoping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()
	b := &Budget{ID: uuid.New(), AccountID: owner, Category: "Food", Month: 2, Year: 2026, Amount: 10}
	require.NoError(t, s.Create(ctx, b))

	_, err := s.Get(ctx, uuid.New(), b.ID)
	assert.ErrorIs(t, err, ErrBudgetNotFound)

	list, err := s.List(ctx, uuid.New(), 2, 2026)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Delete(ctx, owner, b.ID))
	require.NoError(t, s.Create(ctx, &Budget{ID: uuid.New(), AccountID: owner, Category: "Food", Month: 2, Year: 2026}))
}
