package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/application/testutil"
	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/application/user/usecases"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	httptestutil "helpdesk/internal/interfaces/http/handlers/testutil"
	"helpdesk/internal/shared/logger"
)

type userEnv struct {
	store    *testutil.Store
	admin    *user.User
	agent    *user.User
	customer *user.User
	handler  *UserHandler
}

func newUserEnv() *userEnv {
	log := logger.NewNopLogger()
	store := testutil.NewStore()
	policy := access.NewPolicy(access.StaticMatrix())
	users := store.Users()

	return &userEnv{
		store:    store,
		admin:    store.AddUser("Admin User", "admin@example.com", vo.RoleAdmin),
		agent:    store.AddUser("John Agent", "john.agent@example.com", vo.RoleAgent),
		customer: store.AddUser("Customer One", "customer1@example.com", vo.RoleUser),
		handler: NewUserHandler(
			usecases.NewListUsersUseCase(users, policy, log),
			usecases.NewListAgentsUseCase(users, policy, log),
			usecases.NewGetUserUseCase(users, policy, log),
			usecases.NewCreateUserUseCase(users, testutil.PlainHasher{}, policy, log),
			usecases.NewUpdateUserUseCase(users, testutil.PlainHasher{}, policy, log),
			usecases.NewDeleteUserUseCase(users, &testutil.MockTokenRevoker{}, policy, log),
			log,
		),
	}
}

func id(u *user.User) string { return strconv.FormatUint(uint64(u.ID()), 10) }

func TestUserHandler_ListUsers(t *testing.T) {
	env := newUserEnv()

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/users", nil)
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	env.handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)
	var list httptestutil.ListData
	_, err := httptestutil.DecodeData(w, &list)
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)

	c, w = httptestutil.NewTestContext(http.MethodGet, "/api/users", nil)
	httptestutil.SetAuthContext(c, env.agent.ID(), vo.RoleAgent)
	env.handler.ListUsers(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_ListUsersByRole(t *testing.T) {
	env := newUserEnv()

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/users/role/agent", nil)
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	httptestutil.SetURLParam(c, "role", "agent")
	env.handler.ListUsersByRole(c)

	require.Equal(t, http.StatusOK, w.Code)
	var list httptestutil.ListData
	_, err := httptestutil.DecodeData(w, &list)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	c, w = httptestutil.NewTestContext(http.MethodGet, "/api/users/role/boss", nil)
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	httptestutil.SetURLParam(c, "role", "boss")
	env.handler.ListUsersByRole(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_ListAgents_Staff(t *testing.T) {
	env := newUserEnv()

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/users/agents", nil)
	httptestutil.SetAuthContext(c, env.agent.ID(), vo.RoleAgent)
	env.handler.ListAgents(c)

	require.Equal(t, http.StatusOK, w.Code)
	var agents []dto.UserResponse
	_, err := httptestutil.DecodeData(w, &agents)
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	c, w = httptestutil.NewTestContext(http.MethodGet, "/api/users/agents", nil)
	httptestutil.SetAuthContext(c, env.customer.ID(), vo.RoleUser)
	env.handler.ListAgents(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_GetUser_SelfOrAdmin(t *testing.T) {
	env := newUserEnv()

	tests := []struct {
		name   string
		actor  *user.User
		target *user.User
		status int
	}{
		{"self", env.customer, env.customer, http.StatusOK},
		{"admin", env.admin, env.customer, http.StatusOK},
		{"agent on other", env.agent, env.customer, http.StatusForbidden},
		{"user on other", env.customer, env.admin, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := httptestutil.NewTestContext(http.MethodGet, "/api/users/"+id(tt.target), nil)
			httptestutil.SetAuthContext(c, tt.actor.ID(), tt.actor.Role())
			httptestutil.SetURLParam(c, "id", id(tt.target))

			env.handler.GetUser(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUserHandler_CreateUser(t *testing.T) {
	env := newUserEnv()

	c, w := httptestutil.NewTestContext(http.MethodPost, "/api/users", dto.CreateUserRequest{
		Name: "New Agent", Email: "new.agent@example.com", Password: "secret123", Role: "agent",
	})
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	env.handler.CreateUser(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.UserResponse
	_, err := httptestutil.DecodeData(w, &created)
	require.NoError(t, err)
	assert.Equal(t, "agent", created.Role)

	c, w = httptestutil.NewTestContext(http.MethodPost, "/api/users", dto.CreateUserRequest{
		Name: "X", Email: "x@example.com", Password: "secret123", Role: "root",
	})
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	env.handler.CreateUser(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_UpdateUser_RoleChangeAdminOnly(t *testing.T) {
	env := newUserEnv()
	role := "admin"

	c, w := httptestutil.NewTestContext(http.MethodPut, "/api/users/x", dto.UpdateUserRequest{Role: &role})
	httptestutil.SetAuthContext(c, env.customer.ID(), vo.RoleUser)
	httptestutil.SetURLParam(c, "id", id(env.customer))
	env.handler.UpdateUser(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	name := "Customer Renamed"
	c, w = httptestutil.NewTestContext(http.MethodPut, "/api/users/x", dto.UpdateUserRequest{Name: &name})
	httptestutil.SetAuthContext(c, env.customer.ID(), vo.RoleUser)
	httptestutil.SetURLParam(c, "id", id(env.customer))
	env.handler.UpdateUser(c)
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.UserResponse
	_, err := httptestutil.DecodeData(w, &updated)
	require.NoError(t, err)
	assert.Equal(t, "Customer Renamed", updated.Name)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	env := newUserEnv()

	c, w := httptestutil.NewTestContext(http.MethodDelete, "/api/users/x", nil)
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	httptestutil.SetURLParam(c, "id", id(env.admin))
	env.handler.DeleteUser(c)
	assert.Equal(t, http.StatusBadRequest, w.Code, "admins cannot delete themselves")

	c, w = httptestutil.NewTestContext(http.MethodDelete, "/api/users/x", nil)
	httptestutil.SetAuthContext(c, env.admin.ID(), vo.RoleAdmin)
	httptestutil.SetURLParam(c, "id", id(env.customer))
	env.handler.DeleteUser(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}
