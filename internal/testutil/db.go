// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/pkg/database"
)

// NewDB opens a migrated SQLite database under t.TempDir().
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cdms_test.db"), nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given role and password "Secret1!".
func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	u := &model.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, u.SetPassword(Password))
	require.NoError(t, db.Create(u).Error)
	return u
}

// Password is the plain-text password used by CreateUser.
const Password = "Secret1!"
