package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/application/testutil"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

var loginRule = ratelimit.Rule{Max: 10, Window: time.Hour}

func TestLoginUseCase_Execute_Success(t *testing.T) {
	store := testutil.NewStore()
	u := store.AddUser("Agent Smith", "smith@example.com", vo.RoleAgent)
	limiter := &testutil.MockLimiter{}
	uc := NewLoginUseCase(store.Users(), testutil.PlainHasher{}, limiter, loginRule, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), LoginCommand{
		Email:    " Smith@Example.com",
		Password: "secret123",
		ClientIP: "10.0.0.1",
	})

	require.NoError(t, err)
	assert.Equal(t, u.ID(), result.ID)
	assert.Equal(t, "agent", result.Role)
	assert.Empty(t, limiter.Recorded, "successful logins are not counted")
}

func TestLoginUseCase_Execute_FailureRecordsAttempt(t *testing.T) {
	store := testutil.NewStore()
	store.AddUser("Agent Smith", "smith@example.com", vo.RoleAgent)
	limiter := &testutil.MockLimiter{}
	uc := NewLoginUseCase(store.Users(), testutil.PlainHasher{}, limiter, loginRule, logger.NewNopLogger())

	for _, cmd := range []LoginCommand{
		{Email: "smith@example.com", Password: "wrong-password", ClientIP: "10.0.0.1"},
		{Email: "nobody@example.com", Password: "secret123", ClientIP: "10.0.0.1"},
	} {
		_, err := uc.Execute(context.Background(), cmd)
		require.Error(t, err)
		assert.True(t, errors.IsUnauthorizedError(err))
		assert.Equal(t, "Invalid email or password", errors.GetAppError(err).Message)
	}

	key := ratelimit.Key("10.0.0.1", constants.ActionLogin)
	assert.Equal(t, []string{key, key}, limiter.Recorded)
}

func TestLoginUseCase_Execute_RateLimited(t *testing.T) {
	store := testutil.NewStore()
	store.AddUser("Agent Smith", "smith@example.com", vo.RoleAgent)
	resetAt := time.Now().Add(30 * time.Minute)
	limiter := &testutil.MockLimiter{
		CheckAndRecordFunc: func(_ context.Context, identifier, action string, rule ratelimit.Rule, record bool) (ratelimit.Result, error) {
			assert.Equal(t, constants.ActionLogin, action)
			assert.False(t, record)
			return ratelimit.Result{Allowed: false, Limit: rule.Max, ResetAt: resetAt}, nil
		},
	}
	uc := NewLoginUseCase(store.Users(), testutil.PlainHasher{}, limiter, loginRule, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), LoginCommand{
		Email:    "smith@example.com",
		Password: "secret123",
		ClientIP: "10.0.0.1",
	})

	require.Error(t, err)
	assert.True(t, errors.IsRateLimitError(err))
	assert.Empty(t, limiter.Recorded)
}

func TestLoginUseCase_Execute_MissingFields(t *testing.T) {
	limiter := &testutil.MockLimiter{}
	uc := NewLoginUseCase(testutil.NewStore().Users(), testutil.PlainHasher{}, limiter, loginRule, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), LoginCommand{Email: "a@b.com", ClientIP: "10.0.0.1"})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, limiter.Recorded)
}

func TestGetProfileUseCase_Execute(t *testing.T) {
	store := testutil.NewStore()
	u := store.AddUser("Customer", "c@example.com", vo.RoleUser)
	uc := NewGetProfileUseCase(store.Users(), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), 0)
	assert.True(t, errors.IsUnauthorizedError(err))

	result, err := uc.Execute(context.Background(), u.ID())
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", result.Email)
}
