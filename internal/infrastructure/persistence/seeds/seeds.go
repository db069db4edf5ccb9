// Package seeds loads the demo accounts, departments and tickets used in
// development.
package seeds

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/logger"
)

// Hasher is the slice of the password hasher the seeder needs.
type Hasher interface {
	Hash(password string) (string, error)
}

type seedUser struct {
	name, email, password, role string
}

var demoUsers = []seedUser{
	{"Admin User", "admin@gmail.com", "admin123", "admin"},
	{"John Agent", "john.agent@gmail.com", "agent123", "agent"},
	{"Sarah Agent", "sarah.agent@gmail.com", "agent123", "agent"},
	{"Customer One", "customer1@gmail.com", "customer123", "user"},
	{"Customer Two", "customer2@gmail.com", "customer123", "user"},
}

var demoDepartments = []string{
	"Technical Support",
	"Billing",
	"General Inquiry",
	"Bug Reports",
	"Feature Requests",
}

type seedTicket struct {
	title, description string
	owner, department  string
	status             string
	agent              string
}

var demoTickets = []seedTicket{
	{
		title:       "Login issues with mobile app",
		description: "I cannot login to the mobile app. It shows \"Invalid credentials\" even with correct password.",
		owner:       "customer1@gmail.com", department: "Technical Support", status: "open",
	},
	{
		title:       "Billing discrepancy in last invoice",
		description: "There seems to be an error in my last invoice. I was charged twice for the same service.",
		owner:       "customer2@gmail.com", department: "Billing", status: "in_progress",
		agent: "john.agent@gmail.com",
	},
	{
		title:       "Feature request: Dark mode",
		description: "Can you please add dark mode to the application? It would be very helpful for night usage.",
		owner:       "customer1@gmail.com", department: "Feature Requests", status: "open",
	},
	{
		title:       "Bug: Page not loading properly",
		description: "The dashboard page is not loading properly in Chrome browser. Getting white screen.",
		owner:       "customer2@gmail.com", department: "Bug Reports", status: "closed",
		agent: "sarah.agent@gmail.com",
	},
	{
		title:       "General question about pricing",
		description: "What are the different pricing plans available? I need more information.",
		owner:       "john.agent@gmail.com", department: "General Inquiry", status: "open",
	},
}

type seedNote struct {
	ticket, author, text string
}

var demoNotes = []seedNote{
	{"Login issues with mobile app", "john.agent@gmail.com", "I have received your ticket. Let me check this issue and get back to you soon."},
	{"Billing discrepancy in last invoice", "john.agent@gmail.com", "I found the issue in your billing. The duplicate charge will be refunded within 3-5 business days."},
	{"Billing discrepancy in last invoice", "customer2@gmail.com", "Thank you for the quick response! When should I expect the refund?"},
	{"Bug: Page not loading properly", "sarah.agent@gmail.com", "This was a known issue that has been fixed in the latest update. Please clear your browser cache and try again."},
	{"Bug: Page not loading properly", "customer2@gmail.com", "Thank you! The issue is resolved now."},
}

// Result counts the rows inserted by Run.
type Result struct {
	Users       int
	Departments int
	Tickets     int
	Notes       int
}

// Run inserts the demo data. Users and departments that already exist (by
// email or name) are left alone. Tickets and their notes are only seeded
// into an empty tickets table.
func Run(ctx context.Context, db *gorm.DB, hasher Hasher, log logger.Interface) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, created, err := seedUsers(tx, hasher)
		if err != nil {
			return err
		}
		res.Users = created

		departments, created, err := seedDepartments(tx)
		if err != nil {
			return err
		}
		res.Departments = created

		var existing int64
		if err := tx.Model(&models.TicketModel{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			log.Infow("tickets already present, skipping sample tickets", "count", existing)
			return nil
		}

		res.Tickets, res.Notes, err = seedTickets(tx, users, departments)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("seeding failed: %w", err)
	}

	log.Infow("database seeded",
		"users", res.Users,
		"departments", res.Departments,
		"tickets", res.Tickets,
		"notes", res.Notes,
	)
	return res, nil
}

func seedUsers(tx *gorm.DB, hasher Hasher) (map[string]uint, int, error) {
	ids := make(map[string]uint, len(demoUsers))
	created := 0
	for _, u := range demoUsers {
		var m models.UserModel
		err := tx.Where("email = ?", u.email).Limit(1).Find(&m).Error
		if err != nil {
			return nil, 0, err
		}
		if m.ID == 0 {
			hash, err := hasher.Hash(u.password)
			if err != nil {
				return nil, 0, err
			}
			m = models.UserModel{Name: u.name, Email: u.email, PasswordHash: hash, Role: u.role}
			if err := tx.Create(&m).Error; err != nil {
				return nil, 0, err
			}
			created++
		}
		ids[u.email] = m.ID
	}
	return ids, created, nil
}

func seedDepartments(tx *gorm.DB) (map[string]uint, int, error) {
	ids := make(map[string]uint, len(demoDepartments))
	created := 0
	for _, name := range demoDepartments {
		var m models.DepartmentModel
		if err := tx.Where("name = ?", name).Limit(1).Find(&m).Error; err != nil {
			return nil, 0, err
		}
		if m.ID == 0 {
			m = models.DepartmentModel{Name: name}
			if err := tx.Create(&m).Error; err != nil {
				return nil, 0, err
			}
			created++
		}
		ids[name] = m.ID
	}
	return ids, created, nil
}

func seedTickets(tx *gorm.DB, users, departments map[string]uint) (int, int, error) {
	ticketIDs := make(map[string]uint, len(demoTickets))
	now := time.Now()
	for i, t := range demoTickets {
		m := models.TicketModel{
			Title:        t.title,
			Description:  t.description,
			UserID:       users[t.owner],
			DepartmentID: departments[t.department],
			Status:       t.status,
			CreatedAt:    now.Add(time.Duration(i-len(demoTickets)) * time.Hour),
		}
		if t.agent != "" {
			// assignment puts the ticket in progress
			agentID := users[t.agent]
			m.AssignedAgentID = &agentID
			m.Status = "in_progress"
		}
		m.UpdatedAt = m.CreatedAt
		if err := tx.Create(&m).Error; err != nil {
			return 0, 0, err
		}
		ticketIDs[t.title] = m.ID
	}

	for _, n := range demoNotes {
		m := models.NoteModel{
			TicketID: ticketIDs[n.ticket],
			UserID:   users[n.author],
			Note:     n.text,
		}
		if err := tx.Create(&m).Error; err != nil {
			return 0, 0, err
		}
	}
	return len(demoTickets), len(demoNotes), nil
}
