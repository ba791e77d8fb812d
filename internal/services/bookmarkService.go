package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"linkmark/internal/apperrors"
	"linkmark/internal/collection"
	"linkmark/internal/metrics"
	"linkmark/internal/models"
	"linkmark/internal/repositories"
)

type BookmarkService interface {
	ListBookmarks(ctx context.Context, userID primitive.ObjectID, q collection.Query) ([]models.Bookmark, error)
	AddBookmark(ctx context.Context, userID primitive.ObjectID, reqBody models.AddBookmarkRequestBody) (*models.Bookmark, error)
	UpdateTitle(ctx context.Context, userID, bookmarkID primitive.ObjectID, title string) (*models.Bookmark, error)
	UpdateTags(ctx context.Context, userID, bookmarkID primitive.ObjectID, tags []string) (*models.Bookmark, error)
	ToggleFavorite(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error)
	SetFolders(ctx context.Context, userID, bookmarkID primitive.ObjectID, folderIDs []primitive.ObjectID) (*models.Bookmark, error)
	LinkFolder(ctx context.Context, userID, bookmarkID, folderID primitive.ObjectID) (*models.Bookmark, error)
	UnlinkFolder(ctx context.Context, userID, bookmarkID, folderID primitive.ObjectID) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID) error
}

type bookmarkServiceImpl struct {
	bookmarkRepo repositories.BookmarkRepository
	folderRepo   repositories.FolderRepository
	userRepo     repositories.UserRepository
}

func NewBookmarkService(bookmarkRepo repositories.BookmarkRepository, folderRepo repositories.FolderRepository, userRepo repositories.UserRepository) BookmarkService {
	return &bookmarkServiceImpl{bookmarkRepo: bookmarkRepo, folderRepo: folderRepo, userRepo: userRepo}
}

// requireUser resolves the acting user. The session can outlive the account.
func (s *bookmarkServiceImpl) requireUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.userRepo.FindByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}
	return nil
}

// authorize is the uniform guard before every mutation: load the record by id
// alone, then compare owners. A foreign record is Forbidden, never NotFound and
// never a silent no-op.
func (s *bookmarkServiceImpl) authorize(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	bm, err := s.bookmarkRepo.FindByID(ctx, bookmarkID)
	if err == mongo.ErrNoDocuments {
		log.Warn().Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark not found")
		return nil, fmt.Errorf("%w: bookmark", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading bookmark: %w", err)
	}
	if bm.OwnerID != userID {
		log.Warn().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Rejected mutation of foreign bookmark")
		return nil, apperrors.ErrForbidden
	}
	return bm, nil
}

// authorizeFolder applies the same guard to a folder referenced in a link
// operation, so a caller cannot attach someone else's folder.
func (s *bookmarkServiceImpl) authorizeFolder(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error) {
	folder, err := s.folderRepo.FindByID(ctx, folderID)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: folder", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading folder: %w", err)
	}
	if folder.OwnerID != userID {
		return nil, apperrors.ErrForbidden
	}
	return folder, nil
}

// attachFolders resolves folder documents for the bookmarks' association ids.
// The owner's folders are fetched once per call.
func (s *bookmarkServiceImpl) attachFolders(ctx context.Context, userID primitive.ObjectID, bookmarks []models.Bookmark) error {
	folders, err := s.folderRepo.FindByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolving folders: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	for i := range bookmarks {
		attached := make([]models.Folder, 0, len(bookmarks[i].FolderIDs))
		for _, id := range bookmarks[i].FolderIDs {
			if f, ok := byID[id]; ok {
				attached = append(attached, f)
			}
		}
		bookmarks[i].Folders = attached
	}
	return nil
}

func (s *bookmarkServiceImpl) withFolders(ctx context.Context, userID primitive.ObjectID, bm *models.Bookmark) (*models.Bookmark, error) {
	one := []models.Bookmark{*bm}
	if err := s.attachFolders(ctx, userID, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *bookmarkServiceImpl) ListBookmarks(ctx context.Context, userID primitive.ObjectID, q collection.Query) ([]models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Msg("Attempting to retrieve bookmarks")
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarkRepo.FindByOwner(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error finding bookmarks")
		return nil, err
	}

	if err := s.attachFolders(ctx, userID, bookmarks); err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error attaching folders to bookmarks")
		return nil, err
	}

	result := collection.Apply(bookmarks, q)
	log.Debug().Str("userID", userID.Hex()).Int("count", len(result)).Msg("Successfully retrieved bookmarks")
	return result, nil
}

func (s *bookmarkServiceImpl) AddBookmark(ctx context.Context, userID primitive.ObjectID, reqBody models.AddBookmarkRequestBody) (*models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Str("url", reqBody.URL).Msg("Attempting to add bookmark")
	if reqBody.URL == "" {
		log.Warn().Str("userID", userID.Hex()).Msg("URL is required for adding bookmark")
		return nil, fmt.Errorf("%w: url is required", apperrors.ErrValidation)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	tags := reqBody.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	bm := models.Bookmark{
		ID:          primitive.NewObjectID(),
		OwnerID:     userID,
		URL:         reqBody.URL,
		Title:       reqBody.Title,
		Description: reqBody.Description,
		ImageURL:    reqBody.ImageURL,
		Tags:        tags,
		FolderIDs:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.bookmarkRepo.Insert(ctx, &bm)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error inserting bookmark")
		return nil, err
	}

	metrics.BookmarkCreatedTotal.Inc()
	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", created.ID.Hex()).Msg("Bookmark added successfully")
	return s.withFolders(ctx, userID, created)
}

func (s *bookmarkServiceImpl) UpdateTitle(ctx context.Context, userID, bookmarkID primitive.ObjectID, title string) (*models.Bookmark, error) {
	bm, err := s.authorize(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}

	bm.Title = title
	if err := s.bookmarkRepo.Save(ctx, bm); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error updating bookmark title")
		return nil, err
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark title updated")
	return s.withFolders(ctx, userID, bm)
}

func (s *bookmarkServiceImpl) UpdateTags(ctx context.Context, userID, bookmarkID primitive.ObjectID, tags []string) (*models.Bookmark, error) {
	bm, err := s.authorize(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}
	bm.Tags = tags
	if err := s.bookmarkRepo.Save(ctx, bm); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error updating bookmark tags")
		return nil, err
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark tags updated")
	return s.withFolders(ctx, userID, bm)
}

// ToggleFavorite is read-then-write; two concurrent toggles from the same user
// are last-writer-wins.
func (s *bookmarkServiceImpl) ToggleFavorite(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	bm, err := s.authorize(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}

	bm.IsFavorite = !bm.IsFavorite
	if err := s.bookmarkRepo.Save(ctx, bm); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error toggling favorite")
		return nil, err
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Bool("isFavorite", bm.IsFavorite).Msg("Bookmark favorite toggled")
	return s.withFolders(ctx, userID, bm)
}

// SetFolders replaces the full association set; ids absent from the new set
// are unlinked.
func (s *bookmarkServiceImpl) SetFolders(ctx context.Context, userID, bookmarkID primitive.ObjectID, folderIDs []primitive.ObjectID) (*models.Bookmark, error) {
	bm, err := s.authorize(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}

	replacement := make([]primitive.ObjectID, 0, len(folderIDs))
	seen := make(map[primitive.ObjectID]bool, len(folderIDs))
	for _, folderID := range folderIDs {
		if seen[folderID] {
			continue
		}
		if _, err := s.authorizeFolder(ctx, userID, folderID); err != nil {
			return nil, err
		}
		seen[folderID] = true
		replacement = append(replacement, folderID)
	}

	bm.FolderIDs = replacement
	if err := s.bookmarkRepo.Save(ctx, bm); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error replacing bookmark folders")
		return nil, err
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Int("folders", len(replacement)).Msg("Bookmark folders replaced")
	return s.withFolders(ctx, userID, bm)
}

func (s *bookmarkServiceImpl) LinkFolder(ctx context.Context, userID, bookmarkID, folderID primitive.ObjectID) (*models.Bookmark, error) {
	bm, err := s.authorize(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	if !bm.InFolder(folderID) {
		bm.FolderIDs = append(bm.FolderIDs, folderID)
		if err := s.bookmarkRepo.Save(ctx, bm); err != nil {
			log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error linking folder")
			return nil, err
		}
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder linked to bookmark")
	return s.withFolders(ctx, userID, bm)
}

func (s *bookmarkServiceImpl) UnlinkFolder(ctx context.Context, userID, bookmarkID, folderID primitive.ObjectID) (*models.Bookmark, error) {
	bm, err := s.authorize(ctx, userID, bookmarkID)
	if err != nil {
		return nil, err
	}

	remaining := bm.FolderIDs[:0]
	for _, id := range bm.FolderIDs {
		if id != folderID {
			remaining = append(remaining, id)
		}
	}
	bm.FolderIDs = remaining

	if err := s.bookmarkRepo.Save(ctx, bm); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error unlinking folder")
		return nil, err
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder unlinked from bookmark")
	return s.withFolders(ctx, userID, bm)
}

func (s *bookmarkServiceImpl) DeleteBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID) error {
	if _, err := s.authorize(ctx, userID, bookmarkID); err != nil {
		return err
	}

	if _, err := s.bookmarkRepo.Delete(ctx, bookmarkID); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error deleting bookmark")
		return err
	}

	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark deleted successfully")
	return nil
}
