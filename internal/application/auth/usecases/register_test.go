package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/application/testutil"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

func TestRegisterUseCase_Execute_Success(t *testing.T) {
	store := testutil.NewStore()
	uc := NewRegisterUseCase(store.Users(), testutil.PlainHasher{}, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), RegisterCommand{
		Name:     "  Jane Doe ",
		Email:    "Jane@Example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	assert.Equal(t, "Jane Doe", result.Name)
	assert.Equal(t, "jane@example.com", result.Email)
	assert.Equal(t, vo.RoleUser.String(), result.Role)

	saved, err := store.Users().GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:secret123", saved.PasswordHash())
}

func TestRegisterUseCase_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     RegisterCommand
		message string
	}{
		{"missing name", RegisterCommand{Email: "a@b.com", Password: "secret123"}, "Name, email and password are required"},
		{"blank name", RegisterCommand{Name: "  ", Email: "a@b.com", Password: "secret123"}, "Name, email and password are required"},
		{"bad email", RegisterCommand{Name: "A", Email: "nope", Password: "secret123"}, "Invalid email format"},
		{"short password", RegisterCommand{Name: "A", Email: "a@b.com", Password: "12345"}, "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewRegisterUseCase(testutil.NewStore().Users(), testutil.PlainHasher{}, logger.NewNopLogger())
			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Equal(t, tt.message, errors.GetAppError(err).Message)
		})
	}
}

func TestRegisterUseCase_Execute_DuplicateEmail(t *testing.T) {
	store := testutil.NewStore()
	store.AddUser("Existing", "taken@example.com", vo.RoleAgent)
	uc := NewRegisterUseCase(store.Users(), testutil.PlainHasher{}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), RegisterCommand{
		Name:     "Other",
		Email:    "TAKEN@example.com",
		Password: "secret123",
	})

	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
}
