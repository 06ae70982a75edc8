package analytics

import (
	"testing"

	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b(id string, status workflow.Status, total, outstanding int64) borrower.Borrower {
	return borrower.Borrower{
		ID:                 id,
		LoanID:             "LN-" + id,
		FullName:           "Borrower " + id,
		Status:             status,
		TotalLoan:          total,
		OutstandingBalance: outstanding,
	}
}

func portfolio() []borrower.Borrower {
	return []borrower.Borrower{
		b("1", workflow.StatusNotLocated, 500000, 500000),
		b("2", workflow.StatusLocated, 1200000, 1150000),
		b("3", workflow.StatusMoving, 300000, 120000),
		b("4", workflow.StatusNotMoving, 850000, 850000),
		b("5", workflow.StatusDemandQueue, 1500000, 1500000),
		b("6", workflow.StatusFirstDemand, 450000, 450000),
		b("7", workflow.StatusSecondDemand, 250000, 250000),
		b("8", workflow.StatusSmallClaims, 2000000, 1900000),
		b("9", workflow.StatusWriteOff, 50000, 50000),
		b("10", workflow.StatusWDisclosure, 1000000, 980000),
	}
}

func TestComputeBasicStats(t *testing.T) {
	stats := ComputeBasicStats(portfolio())
	assert.Equal(t, BasicStats{Total: 10, Legal: 4, Moving: 1, Stuck: 3}, stats)

	assert.Equal(t, BasicStats{}, ComputeBasicStats(nil))
}

func TestComputePortfolio(t *testing.T) {
	stats := ComputePortfolio(portfolio())

	assert.Equal(t, int64(7750000), stats.TotalOutstanding)
	assert.Equal(t, int64(8100000), stats.TotalLoanAmount)
	assert.InDelta(t, 4.3209876, stats.CollectionRate, 1e-6)

	require.Len(t, stats.FinancialDistribution, 4)
	assert.Equal(t, Bucket{Label: BucketPerforming, Value: 120000, Color: ColorPerforming}, stats.FinancialDistribution[0])
	assert.Equal(t, Bucket{Label: BucketLegal, Value: 4100000, Color: ColorLegal}, stats.FinancialDistribution[1])
	assert.Equal(t, Bucket{Label: BucketStuck, Value: 1400000, Color: ColorStuck}, stats.FinancialDistribution[2])
	assert.Equal(t, Bucket{Label: BucketOther, Value: 2130000, Color: ColorOther}, stats.FinancialDistribution[3])

	var sum int64
	for _, bucket := range stats.FinancialDistribution {
		sum += bucket.Value
	}
	assert.Equal(t, stats.TotalOutstanding, sum)
}

func TestComputePortfolio_LocatedLandsInOther(t *testing.T) {
	stats := ComputePortfolio([]borrower.Borrower{
		b("1", workflow.StatusLocated, 10000, 7000),
		b("2", workflow.StatusWODisclosure, 5000, 500),
	})

	assert.Equal(t, int64(0), stats.FinancialDistribution[0].Value)
	assert.Equal(t, int64(0), stats.FinancialDistribution[1].Value)
	assert.Equal(t, int64(0), stats.FinancialDistribution[2].Value)
	assert.Equal(t, int64(7500), stats.FinancialDistribution[3].Value)
}

func TestComputePortfolio_CollectionRate(t *testing.T) {
	t.Run("NoLoans", func(t *testing.T) {
		stats := ComputePortfolio([]borrower.Borrower{b("1", workflow.StatusMoving, 0, 0)})
		assert.Equal(t, float64(0), stats.CollectionRate)
	})

	t.Run("EmptyPortfolio", func(t *testing.T) {
		stats := ComputePortfolio(nil)
		assert.Equal(t, float64(0), stats.CollectionRate)
		assert.Empty(t, stats.StatusCounts)
		require.Len(t, stats.FinancialDistribution, 4)
	})

	t.Run("FullyCollected", func(t *testing.T) {
		stats := ComputePortfolio([]borrower.Borrower{
			b("1", workflow.StatusMoving, 10000, 0),
			b("2", workflow.StatusMoving, 0, 0),
		})
		assert.Equal(t, int64(10000), stats.TotalLoanAmount)
		assert.Equal(t, int64(0), stats.TotalOutstanding)
		assert.Equal(t, float64(100), stats.CollectionRate)
	})

	t.Run("NegativeWhenOverdrawn", func(t *testing.T) {
		assert.Equal(t, float64(-50), CollectionRate(10000, 15000))
	})
}

func TestComputePortfolio_StatusCounts(t *testing.T) {
	list := []borrower.Borrower{
		b("1", workflow.StatusWriteOff, 1, 1),
		b("2", workflow.StatusMoving, 1, 1),
		b("3", workflow.StatusNotLocated, 1, 1),
		b("4", workflow.StatusMoving, 1, 1),
		b("5", workflow.StatusWriteOff, 1, 1),
		b("6", workflow.StatusLocated, 1, 1),
	}

	stats := ComputePortfolio(list)

	assert.Equal(t, []StatusCount{
		{Status: workflow.StatusMoving, Count: 2},
		{Status: workflow.StatusWriteOff, Count: 2},
		{Status: workflow.StatusNotLocated, Count: 1},
		{Status: workflow.StatusLocated, Count: 1},
	}, stats.StatusCounts)
}
