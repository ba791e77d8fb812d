package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"linkmark/internal/apperrors"
	"linkmark/internal/metrics"
	"linkmark/internal/models"
	"linkmark/internal/repositories"
)

type FolderService interface {
	ListFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error)
	CreateFolder(ctx context.Context, userID primitive.ObjectID, reqBody models.AddFolderRequestBody) (*models.Folder, error)
	RenameFolder(ctx context.Context, userID, folderID primitive.ObjectID, name string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID primitive.ObjectID) error
}

type folderServiceImpl struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
	userRepo     repositories.UserRepository
}

func NewFolderService(folderRepo repositories.FolderRepository, bookmarkRepo repositories.BookmarkRepository, userRepo repositories.UserRepository) FolderService {
	return &folderServiceImpl{folderRepo: folderRepo, bookmarkRepo: bookmarkRepo, userRepo: userRepo}
}

func (s *folderServiceImpl) requireUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.userRepo.FindByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}
	return nil
}

// authorize mirrors the bookmark guard: load by id, then compare owners.
func (s *folderServiceImpl) authorize(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error) {
	folder, err := s.folderRepo.FindByID(ctx, folderID)
	if err == mongo.ErrNoDocuments {
		log.Warn().Str("folderID", folderID.Hex()).Msg("Folder not found")
		return nil, fmt.Errorf("%w: folder", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading folder: %w", err)
	}
	if folder.OwnerID != userID {
		log.Warn().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Rejected mutation of foreign folder")
		return nil, apperrors.ErrForbidden
	}
	return folder, nil
}

// ListFolders returns the user's folders oldest first, each annotated with its
// bookmark count.
func (s *folderServiceImpl) ListFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	log.Debug().Str("userID", userID.Hex()).Msg("Attempting to retrieve folders")
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.FindByOwner(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error finding folders")
		return nil, err
	}

	for i := range folders {
		count, err := s.bookmarkRepo.CountByFolder(ctx, folders[i].ID)
		if err != nil {
			log.Error().Err(err).Str("folderID", folders[i].ID.Hex()).Msg("Error counting bookmarks in folder")
			return nil, err
		}
		folders[i].BookmarkCount = count
	}

	log.Debug().Str("userID", userID.Hex()).Int("count", len(folders)).Msg("Successfully retrieved folders")
	return folders, nil
}

func (s *folderServiceImpl) CreateFolder(ctx context.Context, userID primitive.ObjectID, reqBody models.AddFolderRequestBody) (*models.Folder, error) {
	log.Debug().Str("userID", userID.Hex()).Str("name", reqBody.Name).Msg("Attempting to create folder")
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	folder := models.Folder{
		ID:        primitive.NewObjectID(),
		OwnerID:   userID,
		Name:      reqBody.Name,
		IsSecret:  reqBody.IsSecret,
		CreatedAt: time.Now(),
	}

	created, err := s.folderRepo.Insert(ctx, &folder)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error inserting folder")
		return nil, err
	}

	metrics.FolderCreatedTotal.Inc()
	log.Info().Str("userID", userID.Hex()).Str("folderID", created.ID.Hex()).Msg("Folder created successfully")
	return created, nil
}

func (s *folderServiceImpl) RenameFolder(ctx context.Context, userID, folderID primitive.ObjectID, name string) (*models.Folder, error) {
	folder, err := s.authorize(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	if err := s.folderRepo.Save(ctx, folder); err != nil {
		log.Error().Err(err).Str("folderID", folderID.Hex()).Msg("Error renaming folder")
		return nil, err
	}

	log.Info().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder renamed")
	return folder, nil
}

// DeleteFolder removes the folder and pulls its id from every bookmark; the
// bookmarks themselves survive.
func (s *folderServiceImpl) DeleteFolder(ctx context.Context, userID, folderID primitive.ObjectID) error {
	if _, err := s.authorize(ctx, userID, folderID); err != nil {
		return err
	}

	if err := s.bookmarkRepo.PullFolderFromAll(ctx, folderID); err != nil {
		log.Error().Err(err).Str("folderID", folderID.Hex()).Msg("Error removing folder associations")
		return err
	}

	if _, err := s.folderRepo.Delete(ctx, folderID); err != nil {
		log.Error().Err(err).Str("folderID", folderID.Hex()).Msg("Error deleting folder")
		return err
	}

	log.Info().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder deleted successfully")
	return nil
}
