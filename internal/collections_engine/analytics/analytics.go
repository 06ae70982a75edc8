package analytics

import (
	"sort"

	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
)

// Bucket labels and display colors for the financial distribution chart
const (
	BucketPerforming = "Performing"
	BucketLegal      = "Legal Action"
	BucketStuck      = "High Risk / Stuck"
	BucketOther      = "New / Other"

	ColorPerforming = "#22c55e"
	ColorLegal      = "#f59e0b"
	ColorStuck      = "#ef4444"
	ColorOther      = "#64748b"
)

// BasicStats counts borrowers per dashboard group
type BasicStats struct {
	Total  int `json:"total"`
	Legal  int `json:"legal"`
	Moving int `json:"moving"`
	Stuck  int `json:"stuck"`
}

// Bucket is one slice of the outstanding-balance distribution
type Bucket struct {
	Label string `json:"label"`
	Value int64  `json:"value"` // Stored in cents/minor units
	Color string `json:"color"`
}

// StatusCount is the number of borrowers currently in one status
type StatusCount struct {
	Status workflow.Status `json:"status"`
	Count  int             `json:"count"`
}

// PortfolioStats is the KPI summary used by the reports view
type PortfolioStats struct {
	TotalOutstanding      int64         `json:"total_outstanding"`
	TotalLoanAmount       int64         `json:"total_loan_amount"`
	CollectionRate        float64       `json:"collection_rate"`
	FinancialDistribution []Bucket      `json:"financial_distribution"`
	StatusCounts          []StatusCount `json:"status_counts"`
}

// ComputeBasicStats counts borrowers in the legal, moving and stuck groups
func ComputeBasicStats(list []borrower.Borrower) BasicStats {
	stats := BasicStats{Total: len(list)}
	for _, b := range list {
		switch {
		case workflow.GroupLegal.Contains(b.Status):
			stats.Legal++
		case workflow.GroupMoving.Contains(b.Status):
			stats.Moving++
		case workflow.GroupStuck.Contains(b.Status):
			stats.Stuck++
		}
	}
	return stats
}

// ComputePortfolio derives totals, collection rate, balance buckets and status counts.
// The New / Other bucket is the remainder, so the bucket values always sum to TotalOutstanding.
func ComputePortfolio(list []borrower.Borrower) PortfolioStats {
	var (
		stats                PortfolioStats
		moving, legal, stuck int64
	)
	counts := make(map[workflow.Status]int)

	for _, b := range list {
		stats.TotalOutstanding += b.OutstandingBalance
		stats.TotalLoanAmount += b.TotalLoan
		counts[b.Status]++

		switch {
		case workflow.GroupMoving.Contains(b.Status):
			moving += b.OutstandingBalance
		case workflow.GroupLegal.Contains(b.Status):
			legal += b.OutstandingBalance
		case workflow.GroupStuck.Contains(b.Status):
			stuck += b.OutstandingBalance
		}
	}

	stats.CollectionRate = CollectionRate(stats.TotalLoanAmount, stats.TotalOutstanding)
	stats.FinancialDistribution = []Bucket{
		{Label: BucketPerforming, Value: moving, Color: ColorPerforming},
		{Label: BucketLegal, Value: legal, Color: ColorLegal},
		{Label: BucketStuck, Value: stuck, Color: ColorStuck},
		{Label: BucketOther, Value: stats.TotalOutstanding - moving - legal - stuck, Color: ColorOther},
	}
	stats.StatusCounts = sortedCounts(counts)
	return stats
}

// CollectionRate returns the recovered share of the financed amount as a percentage.
// It is 0 for an empty portfolio and is not clamped.
func CollectionRate(totalLoan, totalOutstanding int64) float64 {
	if totalLoan == 0 {
		return 0
	}
	return float64(totalLoan-totalOutstanding) / float64(totalLoan) * 100
}

func sortedCounts(counts map[workflow.Status]int) []StatusCount {
	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		ri, rj := out[i].Status.Rank(), out[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Status < out[j].Status
	})
	return out
}
