package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
)

func TestPortfolio_LoadAll(t *testing.T) {
	list, err := NewPortfolio().LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 10)

	seen := make(map[string]bool)
	var outstanding, loan int64
	for _, b := range list {
		assert.NoError(t, b.Validate(), "borrower %s", b.ID)
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.True(t, b.LastActionDate.IsZero())
		outstanding += b.OutstandingBalance
		loan += b.TotalLoan
	}
	assert.Equal(t, int64(7750000), outstanding)
	assert.Equal(t, int64(8100000), loan)

	assert.Equal(t, workflow.StatusDemandQueue, list[4].Status)
	require.NotNil(t, list[1].LastPaymentDate)
	assert.Equal(t, 2023, list[1].LastPaymentDate.Year())
}

func TestPortfolio_HistoricLogs(t *testing.T) {
	logs := NewPortfolio().HistoricLogs()
	require.Len(t, logs, 5)

	ids := make([]string, 0, len(logs))
	for i, e := range logs {
		ids = append(ids, e.ID)
		if i > 0 {
			assert.False(t, e.PerformedAt.After(logs[i-1].PerformedAt))
		}
	}
	assert.Equal(t, []string{"104", "103", "102", "105", "101"}, ids)
}

var _ borrower.Source = (*Portfolio)(nil)
