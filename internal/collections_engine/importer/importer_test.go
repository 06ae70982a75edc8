package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/platform/messaging/producers"
)

// MockDLQ mocks the DeadLetterPublisher interface
type MockDLQ struct {
	mock.Mock
}

func (m *MockDLQ) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDLQ) Close() error {
	return m.Called().Error(0)
}

type staticSource struct {
	list []borrower.Borrower
	err  error
}

func (s staticSource) LoadAll(context.Context) ([]borrower.Borrower, error) {
	return s.list, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImporter_ImportFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("bad rows are reported and skipped", func(t *testing.T) {
		s := store.New(newTestLogger())
		imp := NewImporter(newTestLogger(), s, nil, "Loaded from test")

		src := staticSource{list: []borrower.Borrower{
			{ID: "1", LoanID: "LN-1", FullName: "Alice Johnson", Status: workflow.StatusNotLocated},
			{ID: "2", LoanID: "LN-2", FullName: "Bob Smith", Status: workflow.Status("LOST")},
			{ID: "1", LoanID: "LN-1", FullName: "Alice Again", Status: workflow.StatusLocated},
			{ID: "3", LoanID: "LN-3", FullName: "Charlie Davis", Status: workflow.StatusMoving},
		}}

		summary, err := imp.ImportFrom(ctx, "test", src)
		require.NoError(t, err)
		assert.Equal(t, "test", summary.Source)
		assert.Equal(t, 2, summary.Imported)
		require.Len(t, summary.Failed, 2)
		assert.Equal(t, "2", summary.Failed[0].BorrowerID)
		assert.Equal(t, "1", summary.Failed[1].BorrowerID)

		assert.Equal(t, 2, s.Len())
		logs := s.LogsForBorrower("3")
		require.Len(t, logs, 1)
		assert.Equal(t, "Loaded from test", logs[0].Notes)
	})

	t.Run("source failure", func(t *testing.T) {
		s := store.New(newTestLogger())
		imp := NewImporter(newTestLogger(), s, nil, "")

		_, err := imp.ImportFrom(ctx, "postgres", staticSource{err: errors.New("connection refused")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load borrowers from postgres")
		assert.Zero(t, s.Len())
	})
}

func TestImporter_HandleMessage(t *testing.T) {
	ctx := context.Background()
	valid := []byte(`{"id":"5","loan_id":"LN-2023-005","full_name":"Evan Wright","status":"DEMAND_QUEUE","days_in_status":2,"total_loan":1500000,"outstanding_balance":1500000}`)

	t.Run("imports valid message", func(t *testing.T) {
		s := store.New(newTestLogger())
		dlq := &MockDLQ{}
		imp := NewImporter(newTestLogger(), s, dlq, "")

		require.NoError(t, imp.HandleMessage(ctx, []byte("5"), valid))

		b, err := s.Borrower("5")
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusDemandQueue, b.Status)
		assert.Equal(t, int64(1500000), b.OutstandingBalance)
		dlq.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("redelivery is acknowledged", func(t *testing.T) {
		s := store.New(newTestLogger())
		dlq := &MockDLQ{}
		imp := NewImporter(newTestLogger(), s, dlq, "")

		require.NoError(t, imp.HandleMessage(ctx, []byte("5"), valid))
		require.NoError(t, imp.HandleMessage(ctx, []byte("5"), valid))
		assert.Equal(t, 1, s.Len())
		dlq.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json goes to DLQ", func(t *testing.T) {
		s := store.New(newTestLogger())
		dlq := &MockDLQ{}
		imp := NewImporter(newTestLogger(), s, dlq, "")
		payload := []byte(`{not json`)

		dlq.On("PublishToDLQ", mock.Anything, "k", payload,
			mock.MatchedBy(func(reason string) bool { return reason != "" })).
			Return(nil).Once()

		assert.NoError(t, imp.HandleMessage(ctx, []byte("k"), payload))
		dlq.AssertExpectations(t)
	})

	t.Run("invalid status goes to DLQ", func(t *testing.T) {
		s := store.New(newTestLogger())
		dlq := &MockDLQ{}
		imp := NewImporter(newTestLogger(), s, dlq, "")
		payload := []byte(`{"id":"9","loan_id":"LN-9","full_name":"Ian Curtis","status":"PAID"}`)

		dlq.On("PublishToDLQ", mock.Anything, "9", payload, mock.AnythingOfType("string")).Return(nil).Once()

		assert.NoError(t, imp.HandleMessage(ctx, []byte("9"), payload))
		assert.Zero(t, s.Len())
		dlq.AssertExpectations(t)
	})

	t.Run("DLQ failure asks for redelivery", func(t *testing.T) {
		s := store.New(newTestLogger())
		dlq := &MockDLQ{}
		imp := NewImporter(newTestLogger(), s, dlq, "")

		dlq.On("PublishToDLQ", mock.Anything, "k", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		err := imp.HandleMessage(ctx, []byte("k"), []byte(`[]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to dead-letter message")
	})

	t.Run("disabled DLQ drops poison message", func(t *testing.T) {
		s := store.New(newTestLogger())
		var disabled *producers.DLQProducer
		imp := NewImporter(newTestLogger(), s, disabled, "")

		assert.NoError(t, imp.HandleMessage(ctx, []byte("k"), []byte(`oops`)))
	})

	t.Run("no DLQ drops poison message", func(t *testing.T) {
		imp := NewImporter(newTestLogger(), store.New(newTestLogger()), nil, "")
		assert.NoError(t, imp.HandleMessage(ctx, []byte("k"), []byte(`oops`)))
	})
}
