package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/data/fixtures"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/letters"
)

type MockPerformer struct {
	mock.Mock
}

func (m *MockPerformer) Perform(ctx context.Context, id string, code actions.Code, note string) (*actions.Result, error) {
	args := m.Called(ctx, id, code, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actions.Result), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(w io.Writer, b borrower.Borrower, t letters.LetterType) error {
	if err := m.Called(w, b, t).Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "%PDF-1.3")
	return err
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	list, err := fixtures.NewPortfolio().LoadAll(context.Background())
	require.NoError(t, err)
	for _, b := range list {
		require.NoError(t, s.Import(context.Background(), b, ""))
	}
	return s
}

func TestBorrowerService_ListBorrowers(t *testing.T) {
	svc := NewBorrowerService(seededStore(t))
	ctx := context.Background()

	page, total, err := svc.ListBorrowers(ctx, store.Query{Filter: workflow.GroupAll}, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	require.Len(t, page, 4)
	assert.Equal(t, "1", page[0].ID)

	page, _, err = svc.ListBorrowers(ctx, store.Query{Filter: workflow.GroupAll}, 3, 4)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "10", page[1].ID)

	page, total, err = svc.ListBorrowers(ctx, store.Query{Filter: workflow.GroupAll}, 9, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Empty(t, page)

	page, total, err = svc.ListBorrowers(ctx, store.Query{Filter: workflow.GroupLegal, Search: "hall"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "7", page[0].ID)
}

func TestBorrowerService_GetBorrower(t *testing.T) {
	svc := NewBorrowerService(seededStore(t))
	ctx := context.Background()

	detail, err := svc.GetBorrower(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, "Evan Wright", detail.Borrower.FullName)
	assert.Equal(t, []workflow.Status{workflow.StatusFirstDemand}, detail.NextStates)
	require.NotNil(t, detail.PrimaryAction)
	assert.Equal(t, actions.CodeFirstLetter, detail.PrimaryAction.Code)
	require.Len(t, detail.Logs, 1)
	assert.Equal(t, actionlog.ActionTypeSystem, detail.Logs[0].ActionType)

	detail, err = svc.GetBorrower(ctx, "9")
	require.NoError(t, err)
	assert.Empty(t, detail.NextStates)
	assert.Nil(t, detail.PrimaryAction)

	_, err = svc.GetBorrower(ctx, "404")
	assert.ErrorIs(t, err, borrower.ErrNotFound{})
}

func TestBorrowerService_Mutations(t *testing.T) {
	s := seededStore(t)
	svc := NewBorrowerService(s)
	ctx := context.Background()

	entry, err := svc.UpdateStatus(ctx, "1", workflow.StatusLocated, "Found via skip trace")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusNotLocated, entry.OldStatus)

	_, err = svc.AddNote(ctx, "1", "   ")
	assert.ErrorIs(t, err, actions.ErrNoteRequired)

	entry, err = svc.AddNote(ctx, "1", "Left voicemail")
	require.NoError(t, err)
	assert.Equal(t, actionlog.ActionTypeNote, entry.ActionType)

	logs, err := svc.GetLogs(ctx, "1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Left voicemail", logs[0].Notes)

	_, err = svc.GetLogs(ctx, "404")
	assert.ErrorIs(t, err, borrower.ErrNotFound{})

	res, err := svc.BulkUpdateStatus(ctx, []string{"3", "404"}, workflow.StatusNotMoving, "Payments stopped")
	require.NoError(t, err)
	assert.Len(t, res.Updated, 1)
	assert.Equal(t, []string{"404"}, res.Skipped)

	assert.Len(t, svc.ListLogs(ctx), 10+3)
}

func TestActionService(t *testing.T) {
	ctx := context.Background()

	t.Run("PerformDelegates", func(t *testing.T) {
		performer := &MockPerformer{}
		want := &actions.Result{LetterName: "Evan_Wright_1ST_Demand.pdf"}
		performer.On("Perform", ctx, "5", actions.CodeFirstLetter, "").Return(want, nil).Once()

		svc := NewActionService(seededStore(t), performer, &MockRenderer{})
		got, err := svc.PerformAction(ctx, "5", actions.CodeFirstLetter, "")
		require.NoError(t, err)
		assert.Same(t, want, got)
		performer.AssertExpectations(t)
	})

	t.Run("RenderLetterDoesNotMutate", func(t *testing.T) {
		s := seededStore(t)
		renderer := &MockRenderer{}
		renderer.On("Render", mock.Anything, mock.Anything, letters.LetterSecond).Return(nil).Once()

		svc := NewActionService(s, &MockPerformer{}, renderer)
		pdf, name, err := svc.RenderLetter(ctx, "2", letters.LetterSecond)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.3"), pdf)
		assert.Equal(t, "Bob_Smith_2ND_Demand.pdf", name)

		b, _ := s.Borrower("2")
		assert.Equal(t, workflow.StatusLocated, b.Status)
		assert.Len(t, s.LogsForBorrower("2"), 1)
	})

	t.Run("RenderLetterErrors", func(t *testing.T) {
		renderer := &MockRenderer{}
		renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("font missing")).Once()
		svc := NewActionService(seededStore(t), &MockPerformer{}, renderer)

		_, _, err := svc.RenderLetter(ctx, "404", letters.LetterFirst)
		assert.ErrorIs(t, err, borrower.ErrNotFound{BorrowerID: "404"})

		_, _, err = svc.RenderLetter(ctx, "1", letters.LetterFirst)
		assert.EqualError(t, err, "font missing")
	})
}

func TestReportService(t *testing.T) {
	svc := NewReportService(seededStore(t))
	ctx := context.Background()

	stats := svc.BasicStats(ctx)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 4, stats.Legal)
	assert.Equal(t, 1, stats.Moving)
	assert.Equal(t, 3, stats.Stuck)

	portfolio := svc.Portfolio(ctx)
	assert.Equal(t, int64(7750000), portfolio.TotalOutstanding)
	assert.Equal(t, int64(8100000), portfolio.TotalLoanAmount)
}

var _ RecordStore = (*store.Store)(nil)
