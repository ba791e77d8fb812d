package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linkmark/internal/database"
	"linkmark/internal/models"
	"linkmark/internal/utils"
)

// BookmarkRepository loads records by id alone; ownership is checked by the
// service layer so a foreign record yields Forbidden, not NotFound.
type BookmarkRepository interface {
	Insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Bookmark, error)
	Save(ctx context.Context, bm *models.Bookmark) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	CountByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error)
	PullFolderFromAll(ctx context.Context, folderID primitive.ObjectID) error
}

type bookmarkRepository struct {
	db database.Service
}

func NewBookmarkRepository(db database.Service) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	queryType := "insert"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	result, err := collection.InsertOne(ctx, bm)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	bm.ID = result.InsertedID.(primitive.ObjectID)
	return bm, nil
}

func (r *bookmarkRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error) {
	queryType := "findById"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var bm models.Bookmark
	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bm)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &bm, nil
}

func (r *bookmarkRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Bookmark, error) {
	queryType := "findByOwner"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to retrieve bookmarks: %w", err)
	}
	defer cursor.Close(ctx)

	var bookmarks []models.Bookmark
	if err := cursor.All(ctx, &bookmarks); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) Save(ctx context.Context, bm *models.Bookmark) error {
	queryType := "save"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	bm.UpdatedAt = time.Now()
	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": bm.ID}, bm)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	queryType := "delete"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	deleteResult, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return deleteResult.DeletedCount, nil
}

func (r *bookmarkRepository) CountByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	queryType := "countByFolder"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	count, err := collection.CountDocuments(ctx, bson.M{"folder_ids": folderID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to count bookmarks in folder: %w", err)
	}
	return count, nil
}

func (r *bookmarkRepository) PullFolderFromAll(ctx context.Context, folderID primitive.ObjectID) error {
	queryType := "pullFolderFromAll"
	repository := "bookmark"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("bookmarks")
	_, err := collection.UpdateMany(ctx,
		bson.M{"folder_ids": folderID},
		bson.M{"$pull": bson.M{"folder_ids": folderID}},
	)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to remove folder associations: %w", err)
	}
	return nil
}
