package repository

import (
	"context"
	"testing"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/database"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) *MongoRepository {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := database.ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })

	repo := NewMongoRepository(db)
	require.NoError(t, database.EnsureIndexes(ctx, repo))
	return repo
}

func newUser(email string) *domain.User {
	return &domain.User{Name: "Grace", Email: email, PasswordHash: "hash", Gender: "female", Age: 40}
}

func TestCreateUser_AndLookup(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	u := newUser(" Grace@Example.com ")
	require.NoError(t, repo.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "grace@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)

	byID, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	byEmail, err := repo.GetUserByEmail(ctx, "GRACE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("dup@example.com")))
	err := repo.CreateUser(ctx, newUser("DUP@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUser_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRoleAndDelete(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	u := newUser("role@example.com")
	require.NoError(t, repo.CreateUser(ctx, u))

	updated, err := repo.UpdateRole(ctx, u.ID, domain.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, updated.Role)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleSeller, users[0].Role)

	require.NoError(t, repo.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, repo.DeleteUser(ctx, u.ID), ErrUserNotFound)
	_, err = repo.UpdateRole(ctx, u.ID, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.UpdateRole(ctx, u.ID, domain.Role("owner"))
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
