package department

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/application/department/dto"
	"helpdesk/internal/application/department/usecases"
	"helpdesk/internal/application/testutil"
	"helpdesk/internal/domain/access"
	vo "helpdesk/internal/domain/user/valueobjects"
	httptestutil "helpdesk/internal/interfaces/http/handlers/testutil"
	"helpdesk/internal/shared/logger"
)

func newTestHandler() (*Handler, *testutil.Store) {
	log := logger.NewNopLogger()
	store := testutil.NewStore()
	policy := access.NewPolicy(access.StaticMatrix())
	repo := store.Departments()

	return NewHandler(
		usecases.NewListDepartmentsUseCase(repo, policy, log),
		usecases.NewGetDepartmentUseCase(repo, policy, log),
		usecases.NewCreateDepartmentUseCase(repo, policy, log),
		usecases.NewUpdateDepartmentUseCase(repo, policy, log),
		usecases.NewDeleteDepartmentUseCase(repo, policy, log),
		log,
	), store
}

func TestHandler_List_WithCounts(t *testing.T) {
	h, store := newTestHandler()
	owner := store.AddUser("Customer", "c@example.com", vo.RoleUser)
	billing := store.AddDepartment("Billing")
	store.AddDepartment("General")
	store.AddTicket("Charged twice", owner.ID(), billing.ID())

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/departments", nil)
	httptestutil.SetAuthContext(c, owner.ID(), vo.RoleUser)
	httptestutil.SetQueryParams(c, map[string]string{"with_counts": "true"})
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got []dto.DepartmentResponse
	_, err := httptestutil.DecodeData(w, &got)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].TicketCount)
	assert.Equal(t, int64(1), *got[0].TicketCount)
}

func TestHandler_List_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler()

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/departments", nil)
	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Create(t *testing.T) {
	h, store := newTestHandler()
	store.AddDepartment("Billing")

	tests := []struct {
		name   string
		role   vo.Role
		body   any
		status int
	}{
		{"admin creates", vo.RoleAdmin, dto.DepartmentRequest{Name: "Sales"}, http.StatusCreated},
		{"agent forbidden", vo.RoleAgent, dto.DepartmentRequest{Name: "Support"}, http.StatusForbidden},
		{"too short", vo.RoleAdmin, dto.DepartmentRequest{Name: "X"}, http.StatusBadRequest},
		{"missing name", vo.RoleAdmin, map[string]string{}, http.StatusBadRequest},
		{"duplicate", vo.RoleAdmin, dto.DepartmentRequest{Name: "Billing"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := httptestutil.NewTestContext(http.MethodPost, "/api/departments", tt.body)
			httptestutil.SetAuthContext(c, 1, tt.role)

			h.Create(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	h, store := newTestHandler()
	billing := store.AddDepartment("Billing")
	id := strconv.FormatUint(uint64(billing.ID()), 10)

	c, w := httptestutil.NewTestContext(http.MethodPut, "/api/departments/"+id, dto.DepartmentRequest{Name: "Payments"})
	httptestutil.SetAuthContext(c, 1, vo.RoleAdmin)
	httptestutil.SetURLParam(c, "id", id)
	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.DepartmentResponse
	_, err := httptestutil.DecodeData(w, &got)
	require.NoError(t, err)
	assert.Equal(t, "Payments", got.Name)

	c, w = httptestutil.NewTestContext(http.MethodPut, "/api/departments/999", dto.DepartmentRequest{Name: "Payments"})
	httptestutil.SetAuthContext(c, 1, vo.RoleAdmin)
	httptestutil.SetURLParam(c, "id", "999")
	h.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Delete_InUse(t *testing.T) {
	h, store := newTestHandler()
	owner := store.AddUser("Customer", "c@example.com", vo.RoleUser)
	billing := store.AddDepartment("Billing")
	store.AddTicket("Charged twice", owner.ID(), billing.ID())
	empty := store.AddDepartment("Empty")

	c, w := httptestutil.NewTestContext(http.MethodDelete, "/api/departments/x", nil)
	httptestutil.SetAuthContext(c, 1, vo.RoleAdmin)
	httptestutil.SetURLParam(c, "id", strconv.FormatUint(uint64(billing.ID()), 10))
	h.Delete(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = httptestutil.NewTestContext(http.MethodDelete, "/api/departments/x", nil)
	httptestutil.SetAuthContext(c, 1, vo.RoleAdmin)
	httptestutil.SetURLParam(c, "id", strconv.FormatUint(uint64(empty.ID()), 10))
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h, _ := newTestHandler()

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/departments/abc", nil)
	httptestutil.SetAuthContext(c, 1, vo.RoleUser)
	httptestutil.SetURLParam(c, "id", "abc")
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
