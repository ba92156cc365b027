package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *UseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.users.GetByUsername(ctx, username)
}
