package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/repository"
)

type Readers struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewReaders(repo repository.Repository, log *zap.Logger) *Readers {
	return &Readers{
		log:  log,
		repo: repo,
	}
}

func (s *Readers) CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error) {
	return s.repo.CreateReader(ctx, req)
}

func (s *Readers) ListReaders(ctx context.Context) ([]model.Reader, error) {
	return s.repo.ListReaders(ctx)
}

func (s *Readers) UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.Reader, error) {
	return s.repo.UpdateReader(ctx, id, req)
}

func (s *Readers) DeleteReader(ctx context.Context, id int64) error {
	return s.repo.DeleteReader(ctx, id)
}
