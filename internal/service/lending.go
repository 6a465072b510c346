package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/repository"
)

// Lending executes the two state transitions of the lending lifecycle.
// The repository makes each transition atomic; this layer adds logging and
// the best-effort event stream. The reader reference is deliberately not
// validated on issue.
type Lending struct {
	log    *zap.Logger
	repo   repository.Repository
	events *Events
}

func NewLending(repo repository.Repository, events *Events, log *zap.Logger) *Lending {
	return &Lending{
		log:    log,
		repo:   repo,
		events: events,
	}
}

func (s *Lending) Issue(ctx context.Context, req model.IssueBookRequest) (model.Issue, error) {
	issue, err := s.repo.IssueBook(ctx, req.ReaderID, req.BookID)
	if err != nil {
		return model.Issue{}, err
	}
	s.log.Info("book issued",
		zap.String("issueId", issue.ID),
		zap.Int64("bookId", issue.BookID),
		zap.Int64("readerId", issue.ReaderID))
	s.publish(model.LendingEvent{
		Type:     model.EventBookIssued,
		IssueID:  issue.ID,
		ReaderID: issue.ReaderID,
		BookID:   issue.BookID,
		At:       issue.IssueDate,
	})
	return issue, nil
}

func (s *Lending) Return(ctx context.Context, issueID string) (model.Issue, error) {
	issue, err := s.repo.ReturnBook(ctx, issueID)
	if err != nil {
		return model.Issue{}, err
	}
	s.log.Info("book returned",
		zap.String("issueId", issue.ID),
		zap.Int64("bookId", issue.BookID))
	at := time.Now().UTC()
	if issue.ReturnDate != nil {
		at = *issue.ReturnDate
	}
	s.publish(model.LendingEvent{
		Type:     model.EventBookReturned,
		IssueID:  issue.ID,
		ReaderID: issue.ReaderID,
		BookID:   issue.BookID,
		At:       at,
	})
	return issue, nil
}

// publish never fails the transition: a dead broker only costs a log line.
func (s *Lending) publish(ev model.LendingEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ev); err != nil {
		s.log.Warn("publish lending event", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}
