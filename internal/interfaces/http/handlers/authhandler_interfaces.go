package handlers

import (
	"context"

	authUsecases "helpdesk/internal/application/auth/usecases"
	"helpdesk/internal/application/user/dto"
	userUsecases "helpdesk/internal/application/user/usecases"
	"helpdesk/internal/domain/access"
)

// Use case interfaces for the account handlers - enables unit testing with mocks.

type registerUseCase interface {
	Execute(ctx context.Context, cmd authUsecases.RegisterCommand) (*dto.UserResponse, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd authUsecases.LoginCommand) (*dto.UserResponse, error)
}

type getProfileUseCase interface {
	Execute(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type listUsersUseCase interface {
	Execute(ctx context.Context, query userUsecases.ListUsersQuery) (*userUsecases.ListUsersResult, error)
}

type listAgentsUseCase interface {
	Execute(ctx context.Context, actor *access.Actor) ([]*dto.UserResponse, error)
}

type getUserUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, userID uint) (*dto.UserResponse, error)
}

type createUserUseCase interface {
	Execute(ctx context.Context, cmd userUsecases.CreateUserCommand) (*dto.UserResponse, error)
}

type updateUserUseCase interface {
	Execute(ctx context.Context, cmd userUsecases.UpdateUserCommand) (*dto.UserResponse, error)
}

type deleteUserUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, userID uint) error
}
