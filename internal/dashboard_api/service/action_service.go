package service

import (
	"bytes"
	"context"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/letters"
)

// Performer runs primary actions
type Performer interface {
	Perform(ctx context.Context, id string, code actions.Code, note string) (*actions.Result, error)
}

// ActionServiceImpl implements the ActionService interface
type ActionServiceImpl struct {
	store     RecordStore
	performer Performer
	renderer  actions.LetterRenderer
}

// NewActionService creates a new action service
func NewActionService(store RecordStore, performer Performer, renderer actions.LetterRenderer) ActionService {
	return &ActionServiceImpl{
		store:     store,
		performer: performer,
		renderer:  renderer,
	}
}

func (s *ActionServiceImpl) PerformAction(ctx context.Context, id string, code actions.Code, note string) (*actions.Result, error) {
	return s.performer.Perform(ctx, id, code, note)
}

// RenderLetter previews a demand letter for any borrower regardless of status
func (s *ActionServiceImpl) RenderLetter(_ context.Context, id string, t letters.LetterType) ([]byte, string, error) {
	b, err := s.store.Borrower(id)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, b, t); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), letters.FileName(b, t), nil
}
