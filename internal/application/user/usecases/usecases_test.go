package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/application/testutil"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type fixture struct {
	store    *testutil.Store
	policy   *access.Policy
	admin    *user.User
	agent    *user.User
	customer *user.User
}

func newFixture() *fixture {
	store := testutil.NewStore()
	return &fixture{
		store:    store,
		policy:   access.NewPolicy(access.StaticMatrix()),
		admin:    store.AddUser("Admin", "admin@example.com", vo.RoleAdmin),
		agent:    store.AddUser("Agent", "agent@example.com", vo.RoleAgent),
		customer: store.AddUser("Customer", "customer@example.com", vo.RoleUser),
	}
}

func actorOf(u *user.User) *access.Actor {
	return &access.Actor{ID: u.ID(), Role: u.Role()}
}

func strPtr(s string) *string { return &s }

func TestListUsersUseCase_Execute(t *testing.T) {
	f := newFixture()
	uc := NewListUsersUseCase(f.store.Users(), f.policy, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), ListUsersQuery{Actor: actorOf(f.admin)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Len(t, result.Users, 3)
	assert.Equal(t, 1, result.Page)

	result, err = uc.Execute(context.Background(), ListUsersQuery{Actor: actorOf(f.admin), Role: "agent"})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, f.agent.ID(), result.Users[0].ID)

	_, err = uc.Execute(context.Background(), ListUsersQuery{Actor: actorOf(f.admin), Role: "root"})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), ListUsersQuery{Actor: actorOf(f.agent)})
	assert.True(t, errors.IsForbiddenError(err))
}

func TestListAgentsUseCase_Execute(t *testing.T) {
	f := newFixture()
	uc := NewListAgentsUseCase(f.store.Users(), f.policy, logger.NewNopLogger())

	agents, err := uc.Execute(context.Background(), actorOf(f.agent))
	require.NoError(t, err)
	assert.Len(t, agents, 2)
	for _, a := range agents {
		assert.NotEqual(t, "user", a.Role)
	}

	_, err = uc.Execute(context.Background(), actorOf(f.customer))
	assert.True(t, errors.IsForbiddenError(err))
}

func TestGetUserUseCase_Execute(t *testing.T) {
	f := newFixture()
	uc := NewGetUserUseCase(f.store.Users(), f.policy, logger.NewNopLogger())

	own, err := uc.Execute(context.Background(), actorOf(f.customer), f.customer.ID())
	require.NoError(t, err)
	assert.Equal(t, "customer@example.com", own.Email)

	_, err = uc.Execute(context.Background(), actorOf(f.customer), f.agent.ID())
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.Execute(context.Background(), actorOf(f.admin), 999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCreateUserUseCase_Execute(t *testing.T) {
	f := newFixture()
	uc := NewCreateUserUseCase(f.store.Users(), testutil.PlainHasher{}, f.policy, logger.NewNopLogger())

	created, err := uc.Execute(context.Background(), CreateUserCommand{
		Actor:    actorOf(f.admin),
		Name:     "New Agent",
		Email:    "new.agent@example.com",
		Password: "agent123",
		Role:     "agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "agent", created.Role)

	plain, err := uc.Execute(context.Background(), CreateUserCommand{
		Actor:    actorOf(f.admin),
		Name:     "Plain",
		Email:    "plain@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", plain.Role)

	_, err = uc.Execute(context.Background(), CreateUserCommand{
		Actor: actorOf(f.admin), Name: "Dup", Email: "agent@example.com", Password: "secret123",
	})
	assert.True(t, errors.IsConflictError(err))

	_, err = uc.Execute(context.Background(), CreateUserCommand{
		Actor: actorOf(f.admin), Name: "Bad", Email: "bad@example.com", Password: "secret123", Role: "owner",
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), CreateUserCommand{
		Actor: actorOf(f.agent), Name: "X", Email: "x@example.com", Password: "secret123",
	})
	assert.True(t, errors.IsForbiddenError(err))
}

func TestUpdateUserUseCase_Execute_OwnProfile(t *testing.T) {
	f := newFixture()
	uc := NewUpdateUserUseCase(f.store.Users(), testutil.PlainHasher{}, f.policy, logger.NewNopLogger())

	updated, err := uc.Execute(context.Background(), UpdateUserCommand{
		Actor:    actorOf(f.customer),
		UserID:   f.customer.ID(),
		Name:     strPtr("Renamed"),
		Password: strPtr("newpass1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	saved, err := f.store.Users().GetByID(context.Background(), f.customer.ID())
	require.NoError(t, err)
	assert.Equal(t, "hashed:newpass1", saved.PasswordHash())
}

func TestUpdateUserUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cmd   func(f *fixture) UpdateUserCommand
		check func(error) bool
	}{
		{
			name: "other profile",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.customer), UserID: f.agent.ID(), Name: strPtr("X")}
			},
			check: errors.IsForbiddenError,
		},
		{
			name: "role change by non admin",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.agent), UserID: f.agent.ID(), Role: strPtr("admin")}
			},
			check: errors.IsForbiddenError,
		},
		{
			name: "email taken",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.customer), UserID: f.customer.ID(), Email: strPtr("Agent@example.com")}
			},
			check: errors.IsConflictError,
		},
		{
			name: "no fields",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.customer), UserID: f.customer.ID()}
			},
			check: errors.IsValidationError,
		},
		{
			name: "blank name",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.customer), UserID: f.customer.ID(), Name: strPtr(" ")}
			},
			check: errors.IsValidationError,
		},
		{
			name: "short password",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.customer), UserID: f.customer.ID(), Password: strPtr("123")}
			},
			check: errors.IsValidationError,
		},
		{
			name: "missing user",
			cmd: func(f *fixture) UpdateUserCommand {
				return UpdateUserCommand{Actor: actorOf(f.admin), UserID: 999, Name: strPtr("X")}
			},
			check: errors.IsNotFoundError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			uc := NewUpdateUserUseCase(f.store.Users(), testutil.PlainHasher{}, f.policy, logger.NewNopLogger())
			_, err := uc.Execute(context.Background(), tt.cmd(f))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestUpdateUserUseCase_Execute_AdminChangesRole(t *testing.T) {
	f := newFixture()
	uc := NewUpdateUserUseCase(f.store.Users(), testutil.PlainHasher{}, f.policy, logger.NewNopLogger())

	updated, err := uc.Execute(context.Background(), UpdateUserCommand{
		Actor:  actorOf(f.admin),
		UserID: f.customer.ID(),
		Role:   strPtr("agent"),
	})
	require.NoError(t, err)
	assert.Equal(t, "agent", updated.Role)
}

func TestUpdateUserUseCase_Execute_DemotionReleasesAssignments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uc := NewUpdateUserUseCase(f.store.Users(), testutil.PlainHasher{}, f.policy, logger.NewNopLogger())

	dept := f.store.AddDepartment("Billing")
	tk := f.store.AddTicket("Charged twice", f.customer.ID(), dept.ID())
	require.NoError(t, tk.AssignTo(f.agent.ID(), f.agent.Role()))
	require.NoError(t, f.store.Tickets().Update(ctx, tk))

	updated, err := uc.Execute(ctx, UpdateUserCommand{
		Actor:  actorOf(f.admin),
		UserID: f.agent.ID(),
		Role:   strPtr("user"),
	})
	require.NoError(t, err)
	assert.Equal(t, "user", updated.Role)

	reloaded, err := f.store.Tickets().GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Nil(t, reloaded.AssignedAgentID())
}

func TestDeleteUserUseCase_Execute(t *testing.T) {
	f := newFixture()
	revoker := &testutil.MockTokenRevoker{}
	uc := NewDeleteUserUseCase(f.store.Users(), revoker, f.policy, logger.NewNopLogger())

	err := uc.Execute(context.Background(), actorOf(f.admin), f.admin.ID())
	assert.True(t, errors.IsValidationError(err))

	err = uc.Execute(context.Background(), actorOf(f.agent), f.customer.ID())
	assert.True(t, errors.IsForbiddenError(err))

	err = uc.Execute(context.Background(), actorOf(f.admin), 999)
	assert.True(t, errors.IsNotFoundError(err))

	require.NoError(t, uc.Execute(context.Background(), actorOf(f.admin), f.agent.ID()))
	assert.Equal(t, []uint{f.agent.ID()}, revoker.Revoked)

	_, err = f.store.Users().GetByID(context.Background(), f.agent.ID())
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDeleteUserUseCase_Execute_OwnerOfTickets(t *testing.T) {
	f := newFixture()
	d := f.store.AddDepartment("Billing")
	f.store.AddTicket("Invoice", f.customer.ID(), d.ID())
	uc := NewDeleteUserUseCase(f.store.Users(), nil, f.policy, logger.NewNopLogger())

	err := uc.Execute(context.Background(), actorOf(f.admin), f.customer.ID())
	assert.True(t, errors.IsConflictError(err))
}
