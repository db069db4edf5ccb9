package seeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/logger"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestRunSeedsOnce(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	res, err := Run(ctx, db, plainHasher{}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 5, Departments: 5, Tickets: 5, Notes: 5}, res)

	var admin models.UserModel
	require.NoError(t, db.Where("email = ?", "admin@gmail.com").First(&admin).Error)
	assert.Equal(t, "admin", admin.Role)
	assert.Equal(t, "hashed:admin123", admin.PasswordHash)

	var assigned []models.TicketModel
	require.NoError(t, db.Where("assigned_agent_id IS NOT NULL").Find(&assigned).Error)
	require.Len(t, assigned, 2)
	for _, tk := range assigned {
		assert.Equal(t, "in_progress", tk.Status)
	}

	res, err = Run(ctx, db, plainHasher{}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	var count int64
	db.Model(&models.UserModel{}).Count(&count)
	assert.EqualValues(t, 5, count)
	db.Model(&models.NoteModel{}).Count(&count)
	assert.EqualValues(t, 5, count)
}
