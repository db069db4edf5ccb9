// Package testutil provides in-memory repositories and collaborators for
// testing the application layer.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"helpdesk/internal/domain/department"
	"helpdesk/internal/domain/ticket"
	ticketvo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/shared/errors"
)

// Store backs every mock repository so that reads can join names the way
// the SQL repositories do.
type Store struct {
	mu          sync.Mutex
	users       map[uint]*user.User
	departments map[uint]*department.Department
	tickets     map[uint]*ticket.Ticket
	notes       map[uint]*ticket.Note
	attachments map[uint]*ticket.Attachment
	nextID      uint

	// Error injection for testing
	CreateAttachmentErr error
	UpdateTicketErr     error
}

func NewStore() *Store {
	return &Store{
		users:       map[uint]*user.User{},
		departments: map[uint]*department.Department{},
		tickets:     map[uint]*ticket.Ticket{},
		notes:       map[uint]*ticket.Note{},
		attachments: map[uint]*ticket.Attachment{},
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() *MockUserRepository             { return &MockUserRepository{s} }
func (s *Store) Departments() *MockDepartmentRepository { return &MockDepartmentRepository{s} }
func (s *Store) Tickets() *MockTicketRepository         { return &MockTicketRepository{s} }
func (s *Store) Notes() *MockNoteRepository             { return &MockNoteRepository{s} }
func (s *Store) Attachments() *MockAttachmentRepository { return &MockAttachmentRepository{s} }

// AddUser inserts a user directly and returns it.
func (s *Store) AddUser(name, email string, role vo.Role) *user.User {
	e, err := vo.NewEmail(email)
	if err != nil {
		panic(err)
	}
	u, err := user.NewUser(name, e, "hashed:secret123", role)
	if err != nil {
		panic(err)
	}
	if err := s.Users().Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *Store) AddDepartment(name string) *department.Department {
	d, err := department.NewDepartment(name)
	if err != nil {
		panic(err)
	}
	if err := s.Departments().Create(context.Background(), d); err != nil {
		panic(err)
	}
	return d
}

func (s *Store) AddTicket(title string, ownerID, departmentID uint) *ticket.Ticket {
	t, err := ticket.NewTicket(title, "Steps to reproduce", ownerID, departmentID)
	if err != nil {
		panic(err)
	}
	if err := s.Tickets().Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t
}

func (s *Store) AddNote(ticketID, authorID uint, text string) *ticket.Note {
	n, err := ticket.NewNote(ticketID, authorID, text)
	if err != nil {
		panic(err)
	}
	if err := s.Notes().Create(context.Background(), n); err != nil {
		panic(err)
	}
	return n
}

// MockUserRepository implements user.Repository.
type MockUserRepository struct{ s *Store }

func (m *MockUserRepository) Create(_ context.Context, u *user.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, other := range m.s.users {
		if other.Email() == u.Email() {
			return errors.NewConflictError("Email already exists")
		}
	}
	if err := u.SetID(m.s.id()); err != nil {
		return err
	}
	m.s.users[u.ID()] = u
	return nil
}

func (m *MockUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("User not found")
	}
	return cloneUser(u), nil
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email().String() == email {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NewNotFoundError("User not found")
}

func (m *MockUserRepository) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email().String() == email && u.ID() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Update(_ context.Context, u *user.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[u.ID()]; !ok {
		return errors.NewNotFoundError("User not found")
	}
	m.s.users[u.ID()] = cloneUser(u)
	if !u.Role().IsStaff() {
		for _, t := range m.s.tickets {
			if a := t.AssignedAgentID(); a != nil && *a == u.ID() {
				t.Unassign()
			}
		}
	}
	return nil
}

func (m *MockUserRepository) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return errors.NewNotFoundError("User not found")
	}
	for _, t := range m.s.tickets {
		if t.OwnerID() == id {
			return errors.NewConflictError("Cannot delete user with existing tickets")
		}
	}
	for _, t := range m.s.tickets {
		if a := t.AssignedAgentID(); a != nil && *a == id {
			t.Unassign()
		}
	}
	delete(m.s.users, id)
	return nil
}

func (m *MockUserRepository) List(_ context.Context, f user.ListFilter) ([]*user.User, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*user.User
	for _, u := range m.s.users {
		if f.Role != nil && u.Role() != *f.Role {
			continue
		}
		if len(f.Roles) > 0 && !hasRole(f.Roles, u.Role()) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	total := int64(len(out))
	if f.PageSize > 0 {
		start := min(max(f.Page-1, 0)*f.PageSize, len(out))
		end := min(start+f.PageSize, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func hasRole(roles []vo.Role, r vo.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func cloneUser(u *user.User) *user.User {
	c, _ := user.ReconstructUser(u.ID(), u.Name(), u.Email(), u.PasswordHash(), u.Role(), u.CreatedAt(), u.UpdatedAt())
	return c
}

// MockDepartmentRepository implements department.Repository.
type MockDepartmentRepository struct{ s *Store }

func (m *MockDepartmentRepository) Create(_ context.Context, d *department.Department) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := d.SetID(m.s.id()); err != nil {
		return err
	}
	m.s.departments[d.ID()] = d
	return nil
}

func (m *MockDepartmentRepository) GetByID(_ context.Context, id uint) (*department.Department, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id, false)
}

func (m *MockDepartmentRepository) GetByIDWithCount(_ context.Context, id uint) (*department.Department, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id, true)
}

func (m *MockDepartmentRepository) get(id uint, withCount bool) (*department.Department, error) {
	d, ok := m.s.departments[id]
	if !ok {
		return nil, errors.NewNotFoundError("Department not found")
	}
	var count int64
	if withCount {
		count = m.ticketCount(id)
	}
	return department.ReconstructDepartment(d.ID(), d.Name(), count, d.CreatedAt(), d.UpdatedAt())
}

func (m *MockDepartmentRepository) ticketCount(id uint) int64 {
	var n int64
	for _, t := range m.s.tickets {
		if t.DepartmentID() == id {
			n++
		}
	}
	return n
}

func (m *MockDepartmentRepository) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, d := range m.s.departments {
		if strings.EqualFold(d.Name(), name) && d.ID() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockDepartmentRepository) Update(_ context.Context, d *department.Department) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.departments[d.ID()] = d
	return nil
}

func (m *MockDepartmentRepository) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.departments[id]; !ok {
		return errors.NewNotFoundError("Department not found")
	}
	if m.ticketCount(id) > 0 {
		return errors.NewConflictError("Cannot delete department with existing tickets")
	}
	delete(m.s.departments, id)
	return nil
}

func (m *MockDepartmentRepository) List(_ context.Context, withCounts bool) ([]*department.Department, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*department.Department, 0, len(m.s.departments))
	for id := range m.s.departments {
		d, _ := m.get(id, withCounts)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// MockTicketRepository implements ticket.Repository.
type MockTicketRepository struct{ s *Store }

func (m *MockTicketRepository) Create(_ context.Context, t *ticket.Ticket) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := t.SetID(m.s.id()); err != nil {
		return err
	}
	m.s.tickets[t.ID()] = m.view(t)
	return nil
}

func (m *MockTicketRepository) GetByID(_ context.Context, id uint) (*ticket.Ticket, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.tickets[id]
	if !ok {
		return nil, errors.NewNotFoundError("Ticket not found")
	}
	return m.view(t), nil
}

func (m *MockTicketRepository) Update(_ context.Context, t *ticket.Ticket) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.UpdateTicketErr != nil {
		return m.s.UpdateTicketErr
	}
	if _, ok := m.s.tickets[t.ID()]; !ok {
		return errors.NewNotFoundError("Ticket not found")
	}
	m.s.tickets[t.ID()] = m.view(t)
	return nil
}

func (m *MockTicketRepository) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tickets[id]; !ok {
		return errors.NewNotFoundError("Ticket not found")
	}
	delete(m.s.tickets, id)
	for nid, n := range m.s.notes {
		if n.TicketID() == id {
			delete(m.s.notes, nid)
		}
	}
	for aid, a := range m.s.attachments {
		if a.TicketID() == id {
			delete(m.s.attachments, aid)
		}
	}
	return nil
}

func (m *MockTicketRepository) List(_ context.Context, f ticket.Filter) ([]*ticket.Ticket, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := m.filter(f)
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	total := int64(len(out))
	if f.Limit > 0 {
		start := min(f.Offset, len(out))
		end := min(start+f.Limit, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func (m *MockTicketRepository) CountByStatus(_ context.Context, f ticket.Filter) (map[ticketvo.TicketStatus]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	counts := make(map[ticketvo.TicketStatus]int64, len(ticketvo.AllStatuses))
	for _, st := range ticketvo.AllStatuses {
		counts[st] = 0
	}
	for _, t := range m.filter(f) {
		counts[t.Status()]++
	}
	return counts, nil
}

func (m *MockTicketRepository) filter(f ticket.Filter) []*ticket.Ticket {
	var out []*ticket.Ticket
	for _, t := range m.s.tickets {
		if f.OwnerID != nil && t.OwnerID() != *f.OwnerID {
			continue
		}
		if f.DepartmentID != nil && t.DepartmentID() != *f.DepartmentID {
			continue
		}
		if f.Status != nil && t.Status() != *f.Status {
			continue
		}
		if f.AssignedAgentID != nil {
			a := t.AssignedAgentID()
			if a == nil || *a != *f.AssignedAgentID {
				continue
			}
		}
		out = append(out, m.view(t))
	}
	return out
}

// view copies t with owner, department and agent names joined in.
func (m *MockTicketRepository) view(t *ticket.Ticket) *ticket.Ticket {
	var p ticket.Participants
	if u, ok := m.s.users[t.OwnerID()]; ok {
		p.OwnerName, p.OwnerEmail = u.Name(), u.Email().String()
	}
	if d, ok := m.s.departments[t.DepartmentID()]; ok {
		p.DepartmentName = d.Name()
	}
	if a := t.AssignedAgentID(); a != nil {
		if u, ok := m.s.users[*a]; ok {
			p.AssignedAgentName = u.Name()
		}
	}
	c, _ := ticket.ReconstructTicket(t.ID(), t.Title(), t.Description(), t.OwnerID(), t.DepartmentID(),
		t.Status(), t.AssignedAgentID(), t.CreatedAt(), t.UpdatedAt(), p)
	return c
}

// MockNoteRepository implements ticket.NoteRepository.
type MockNoteRepository struct{ s *Store }

func (m *MockNoteRepository) Create(_ context.Context, n *ticket.Note) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := n.SetID(m.s.id()); err != nil {
		return err
	}
	m.s.notes[n.ID()] = n
	return nil
}

func (m *MockNoteRepository) GetByID(_ context.Context, id uint) (*ticket.Note, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n, ok := m.s.notes[id]
	if !ok {
		return nil, errors.NewNotFoundError("Note not found")
	}
	return m.view(n), nil
}

func (m *MockNoteRepository) Update(_ context.Context, n *ticket.Note) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.notes[n.ID()] = m.view(n)
	return nil
}

func (m *MockNoteRepository) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.notes[id]; !ok {
		return errors.NewNotFoundError("Note not found")
	}
	delete(m.s.notes, id)
	return nil
}

func (m *MockNoteRepository) ListByTicket(_ context.Context, ticketID uint) ([]*ticket.Note, error) {
	return m.list(func(n *ticket.Note) bool { return n.TicketID() == ticketID }), nil
}

func (m *MockNoteRepository) ListByAuthor(_ context.Context, authorID uint) ([]*ticket.Note, error) {
	return m.list(func(n *ticket.Note) bool { return n.AuthorID() == authorID }), nil
}

func (m *MockNoteRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	ns, _ := m.ListByTicket(ctx, ticketID)
	return int64(len(ns)), nil
}

func (m *MockNoteRepository) list(keep func(*ticket.Note) bool) []*ticket.Note {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*ticket.Note
	for _, n := range m.s.notes {
		if keep(n) {
			out = append(out, m.view(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (m *MockNoteRepository) view(n *ticket.Note) *ticket.Note {
	var name string
	var role vo.Role
	if u, ok := m.s.users[n.AuthorID()]; ok {
		name, role = u.Name(), u.Role()
	}
	c, _ := ticket.ReconstructNote(n.ID(), n.TicketID(), n.AuthorID(), n.Text(), n.CreatedAt(), n.UpdatedAt(), name, role)
	return c
}

// MockAttachmentRepository implements ticket.AttachmentRepository.
type MockAttachmentRepository struct{ s *Store }

func (m *MockAttachmentRepository) Create(_ context.Context, a *ticket.Attachment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.CreateAttachmentErr != nil {
		return m.s.CreateAttachmentErr
	}
	if err := a.SetID(m.s.id()); err != nil {
		return err
	}
	m.s.attachments[a.ID()] = a
	return nil
}

func (m *MockAttachmentRepository) GetByID(_ context.Context, id uint) (*ticket.Attachment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.attachments[id]
	if !ok {
		return nil, errors.NewNotFoundError("Attachment not found")
	}
	return m.view(a), nil
}

func (m *MockAttachmentRepository) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.attachments[id]; !ok {
		return errors.NewNotFoundError("Attachment not found")
	}
	delete(m.s.attachments, id)
	return nil
}

func (m *MockAttachmentRepository) ListByTicket(_ context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*ticket.Attachment
	for _, a := range m.s.attachments {
		if a.TicketID() == ticketID {
			out = append(out, m.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out, nil
}

func (m *MockAttachmentRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	as, _ := m.ListByTicket(ctx, ticketID)
	return int64(len(as)), nil
}

func (m *MockAttachmentRepository) Stats(context.Context) (ticket.StorageStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var st ticket.StorageStats
	for _, a := range m.s.attachments {
		st.TotalFiles++
		st.TotalSize += a.Size()
	}
	return st, nil
}

func (m *MockAttachmentRepository) view(a *ticket.Attachment) *ticket.Attachment {
	var name string
	if u, ok := m.s.users[a.UploaderID()]; ok {
		name = u.Name()
	}
	c, _ := ticket.ReconstructAttachment(a.ID(), a.TicketID(), a.UploaderID(), a.OriginalName(), a.StoredName(),
		a.MimeType(), a.Size(), a.Path(), a.Checksum(), a.CreatedAt(), name)
	return c
}

// PlainHasher prefixes instead of hashing.
type PlainHasher struct{}

func (PlainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (PlainHasher) Verify(p, hash string) error {
	if hash != "hashed:"+p {
		return errors.NewUnauthorizedError("password mismatch")
	}
	return nil
}

// MockLimiter is a func-field rate limiter. Unset functions allow
// everything.
type MockLimiter struct {
	CheckAndRecordFunc func(ctx context.Context, identifier, action string, rule ratelimit.Rule, record bool) (ratelimit.Result, error)
	RecordFunc         func(ctx context.Context, identifier, action string) error

	mu       sync.Mutex
	Recorded []string
}

func (m *MockLimiter) CheckAndRecord(ctx context.Context, identifier, action string, rule ratelimit.Rule, record bool) (ratelimit.Result, error) {
	if m.CheckAndRecordFunc != nil {
		return m.CheckAndRecordFunc(ctx, identifier, action, rule, record)
	}
	if record {
		m.mu.Lock()
		m.Recorded = append(m.Recorded, ratelimit.Key(identifier, action))
		m.mu.Unlock()
	}
	return ratelimit.Result{Allowed: true, Limit: rule.Max, Remaining: rule.Max}, nil
}

func (m *MockLimiter) Record(ctx context.Context, identifier, action string) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, identifier, action)
	}
	m.mu.Lock()
	m.Recorded = append(m.Recorded, ratelimit.Key(identifier, action))
	m.mu.Unlock()
	return nil
}

// MockNotifier records notifications.
type MockNotifier struct {
	mu       sync.Mutex
	Assigned []uint
	Changed  []StatusChange
}

type StatusChange struct {
	TicketID uint
	From, To ticketvo.TicketStatus
}

func (m *MockNotifier) TicketAssigned(_ context.Context, t *ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assigned = append(m.Assigned, t.ID())
	return nil
}

func (m *MockNotifier) TicketStatusChanged(_ context.Context, t *ticket.Ticket, from ticketvo.TicketStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Changed = append(m.Changed, StatusChange{TicketID: t.ID(), From: from, To: t.Status()})
	return nil
}

// MockTokenRevoker records revoked users.
type MockTokenRevoker struct {
	Revoked []uint
}

func (m *MockTokenRevoker) RevokeUser(_ context.Context, userID uint) error {
	m.Revoked = append(m.Revoked, userID)
	return nil
}
