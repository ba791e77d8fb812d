package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"linkmark/internal/database"
	"linkmark/internal/models"
)

func mustStartMongoContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	dbContainer, err := mongodb.Run(context.Background(), "mongo:latest")
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	os.Setenv("MONGO_URI", uri)

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	if os.Getenv("SKIP_DB_TESTS") != "" {
		os.Exit(0)
	}

	teardown, err := mustStartMongoContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not start mongodb container")
	}

	code := m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatal().Msg("Could not teardown mongodb container")
	}
	os.Exit(code)
}

func newTestRepo(t *testing.T) BookmarkRepository {
	t.Helper()
	db := database.New()
	t.Cleanup(func() { db.Close(context.Background()) })
	return NewBookmarkRepository(db)
}

func sampleBookmark(ownerID primitive.ObjectID, url string) *models.Bookmark {
	now := time.Now().Truncate(time.Millisecond)
	return &models.Bookmark{
		OwnerID:   ownerID,
		URL:       url,
		Title:     "sample",
		Tags:      []string{},
		FolderIDs: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	inserted, err := repo.Insert(ctx, sampleBookmark(ownerID, "https://example.com/insert"))
	require.NoError(t, err)
	require.False(t, inserted.ID.IsZero())

	found, err := repo.FindByID(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, found.OwnerID)
	assert.Equal(t, "https://example.com/insert", found.URL)
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestFindByOwnerNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	older := sampleBookmark(ownerID, "https://example.com/older")
	older.CreatedAt = time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	_, err := repo.Insert(ctx, older)
	require.NoError(t, err)

	newer := sampleBookmark(ownerID, "https://example.com/newer")
	_, err = repo.Insert(ctx, newer)
	require.NoError(t, err)

	// Another owner's record must never leak into the result.
	_, err = repo.Insert(ctx, sampleBookmark(primitive.NewObjectID(), "https://example.com/foreign"))
	require.NoError(t, err)

	found, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "https://example.com/newer", found[0].URL)
	assert.Equal(t, "https://example.com/older", found[1].URL)
}

func TestSavePersistsChanges(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, sampleBookmark(primitive.NewObjectID(), "https://example.com/save"))
	require.NoError(t, err)

	inserted.Title = "renamed"
	inserted.IsFavorite = true
	require.NoError(t, repo.Save(ctx, inserted))

	found, err := repo.FindByID(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Title)
	assert.True(t, found.IsFavorite)
	assert.False(t, found.UpdatedAt.Before(found.CreatedAt))
}

func TestDeleteReportsCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, sampleBookmark(primitive.NewObjectID(), "https://example.com/delete"))
	require.NoError(t, err)

	count, err := repo.Delete(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.Delete(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFolderAssociations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ownerID := primitive.NewObjectID()
	folderID := primitive.NewObjectID()

	first := sampleBookmark(ownerID, "https://example.com/one")
	first.FolderIDs = []primitive.ObjectID{folderID}
	_, err := repo.Insert(ctx, first)
	require.NoError(t, err)

	second := sampleBookmark(ownerID, "https://example.com/two")
	second.FolderIDs = []primitive.ObjectID{folderID}
	_, err = repo.Insert(ctx, second)
	require.NoError(t, err)

	count, err := repo.CountByFolder(ctx, folderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.PullFolderFromAll(ctx, folderID))

	count, err = repo.CountByFolder(ctx, folderID)
	require.NoError(t, err)
	assert.Zero(t, count)

	found, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, bm := range found {
		assert.Empty(t, bm.FolderIDs)
	}
}
