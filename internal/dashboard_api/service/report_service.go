package service

import (
	"context"

	"github.com/collections-workflow/internal/collections_engine/analytics"
)

// ReportServiceImpl implements the ReportService interface.
// Figures are recomputed from a snapshot on every call.
type ReportServiceImpl struct {
	store RecordStore
}

// NewReportService creates a new report service
func NewReportService(store RecordStore) ReportService {
	return &ReportServiceImpl{store: store}
}

func (s *ReportServiceImpl) BasicStats(_ context.Context) analytics.BasicStats {
	return analytics.ComputeBasicStats(s.store.Borrowers())
}

func (s *ReportServiceImpl) Portfolio(_ context.Context) analytics.PortfolioStats {
	return analytics.ComputePortfolio(s.store.Borrowers())
}
