package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linkmark/internal/database"
	"linkmark/internal/models"
	"linkmark/internal/utils"
)

type FolderRepository interface {
	Insert(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Folder, error)
	Save(ctx context.Context, folder *models.Folder) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type folderRepository struct {
	db database.Service
}

func NewFolderRepository(db database.Service) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Insert(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	queryType := "insert"
	repository := "folder"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("folders")
	result, err := collection.InsertOne(ctx, folder)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to insert folder: %w", err)
	}
	folder.ID = result.InsertedID.(primitive.ObjectID)
	return folder, nil
}

func (r *folderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	queryType := "findById"
	repository := "folder"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var folder models.Folder
	collection := r.db.Client().Database(database.Name).Collection("folders")
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&folder)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &folder, nil
}

// FindByOwner returns the owner's folders oldest first.
func (r *folderRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Folder, error) {
	queryType := "findByOwner"
	repository := "folder"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("folders")
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to retrieve folders: %w", err)
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding folders: %w", err)
	}
	return folders, nil
}

func (r *folderRepository) Save(ctx context.Context, folder *models.Folder) error {
	queryType := "save"
	repository := "folder"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("folders")
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": folder.ID}, folder)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to save folder: %w", err)
	}
	return nil
}

func (r *folderRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	queryType := "delete"
	repository := "folder"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("folders")
	deleteResult, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to delete folder: %w", err)
	}
	return deleteResult.DeletedCount, nil
}
