package repository

import (
	"context"
	"testing"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupMongo(t *testing.T) *MongoRepository {
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

func TestMongoRepository(t *testing.T) {
	testOrderRepository(t, setupMongo(t))
}
