package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/memory"
)

func TestGetPointsHistory_ChronologicalWithTotal(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	seedLedgerEntry(t, store, "h1", "m1", 10, base)
	seedLedgerEntry(t, store, "h2", "m1", 20, base.Add(time.Hour))
	seedLedgerEntry(t, store, "h3", "m1", 30, base.Add(2*time.Hour))
	seedLedgerEntry(t, store, "hx", "m2", 500, base)

	handler := NewGetPointsHistoryHandler(store.Ledger())
	res, err := handler.Handle(context.Background(), GetPointsHistoryQuery{MemberID: "m1"})
	require.NoError(t, err)

	require.Len(t, res.Entries, 3)
	assert.Equal(t, "h1", res.Entries[0].ID)
	assert.Equal(t, "h3", res.Entries[2].ID)
	assert.Equal(t, 60, res.Total)
}

func TestGetPointsHistory_LimitKeepsMostRecent(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	seedLedgerEntry(t, store, "h1", "m1", 10, base)
	seedLedgerEntry(t, store, "h2", "m1", 20, base.Add(time.Hour))
	seedLedgerEntry(t, store, "h3", "m1", 30, base.Add(2*time.Hour))

	handler := NewGetPointsHistoryHandler(store.Ledger())
	res, err := handler.Handle(context.Background(), GetPointsHistoryQuery{MemberID: "m1", Limit: 2})
	require.NoError(t, err)

	// Most recent two, still oldest-first.
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "h2", res.Entries[0].ID)
	assert.Equal(t, "h3", res.Entries[1].ID)
	assert.Equal(t, 50, res.Total)
}

func TestGetPointsHistory_Window(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	seedLedgerEntry(t, store, "h1", "m1", 10, base)
	seedLedgerEntry(t, store, "h2", "m1", 20, base.AddDate(0, 1, 0))
	seedLedgerEntry(t, store, "h3", "m1", 30, base.AddDate(0, 2, 0))

	handler := NewGetPointsHistoryHandler(store.Ledger())
	res, err := handler.Handle(context.Background(), GetPointsHistoryQuery{
		MemberID: "m1",
		From:     base.AddDate(0, 1, 0),
		To:       base.AddDate(0, 1, 15),
	})
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "h2", res.Entries[0].ID)
	assert.Equal(t, 20, res.Total)
}

func TestGetPointsHistory_Validation(t *testing.T) {
	handler := NewGetPointsHistoryHandler(memory.NewStore().Ledger())

	_, err := handler.Handle(context.Background(), GetPointsHistoryQuery{})
	assert.Error(t, err)

	_, err = handler.Handle(context.Background(), GetPointsHistoryQuery{MemberID: "m1", Limit: -5})
	assert.Error(t, err)
}
