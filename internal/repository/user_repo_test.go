package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/internal/testutil"
)

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewUserRepo(db)

	u := testutil.CreateUser(t, db, "alice", model.RoleAuditor)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, model.RoleAuditor, byName.Role)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "someone", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByUsernameOrEmail(ctx, "someone", "someone@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &model.User{Username: "alice", Email: "other@example.com", Password: "x", Role: model.RoleAdmin}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicateKey)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), repository.ErrNotFound)
}
