package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkmark/internal/apperrors"
	"linkmark/internal/collection"
	"linkmark/internal/models"
	"linkmark/internal/services"
	"linkmark/internal/utils"
)

type BookmarkHandler struct {
	service services.BookmarkService
}

func NewBookmarksHandler(service services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// collectionQuery builds the filter/sort pipeline input from the request's
// query parameters. All parameters are optional.
func collectionQuery(r *http.Request) (collection.Query, error) {
	q := collection.Query{
		Text: r.URL.Query().Get("q"),
		Tag:  r.URL.Query().Get("tag"),
		Sort: collection.ParseSort(r.URL.Query().Get("sort")),
	}

	if folderParam := r.URL.Query().Get("folder"); folderParam != "" {
		folderID, err := primitive.ObjectIDFromHex(folderParam)
		if err != nil {
			return collection.Query{}, fmt.Errorf("%w: invalid folder id", apperrors.ErrValidation)
		}
		q.FolderID = folderID
	}
	return q, nil
}

func (h *BookmarkHandler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	q, err := collectionQuery(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	bookmarks, err := h.service.ListBookmarks(r.Context(), userID, q)
	if err != nil {
		log.Error().Err(err).Msg("Error getting bookmarks from service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bookmarks)
}

func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.AddBookmarkRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Error decoding request body for AddBookmark")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.AddBookmark(r.Context(), userID, reqBody)
	if err != nil {
		log.Error().Err(err).Msg("Error adding bookmark via service")
		utils.RespondWithAppError(w, err)
		return
	}

	log.Info().Str("bookmark_id", bm.ID.Hex()).Msg("Successfully created bookmark")
	utils.RespondWithJSON(w, http.StatusCreated, bm)
}

func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteBookmark(r.Context(), userID, bookmarkID); err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error deleting bookmark via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "bookmark deleted"})
}

func (h *BookmarkHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	bm, err := h.service.ToggleFavorite(r.Context(), userID, bookmarkID)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error toggling favorite via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.UpdateTitleRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Invalid JSON for UpdateTitle")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.UpdateTitle(r.Context(), userID, bookmarkID, reqBody.Title)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error updating title via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.UpdateTagsRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Invalid JSON for UpdateTags")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.UpdateTags(r.Context(), userID, bookmarkID, reqBody.Tags)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error updating tags via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}

// SetFolders replaces the bookmark's full folder association set.
func (h *BookmarkHandler) SetFolders(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.SetFoldersRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Invalid JSON for SetFolders")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	folderIDs := make([]primitive.ObjectID, 0, len(reqBody.FolderIDs))
	for _, idStr := range reqBody.FolderIDs {
		folderID, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			utils.SendJSONError(w, "Invalid folder ID format: "+idStr, http.StatusBadRequest)
			return
		}
		folderIDs = append(folderIDs, folderID)
	}

	bm, err := h.service.SetFolders(r.Context(), userID, bookmarkID, folderIDs)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error replacing folders via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) folderLinkRequest(w http.ResponseWriter, r *http.Request) (userID, bookmarkID, folderID primitive.ObjectID, ok bool) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return userID, bookmarkID, folderID, false
	}

	bookmarkID, err = utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return userID, bookmarkID, folderID, false
	}

	var reqBody models.FolderLinkRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Invalid JSON for folder link request")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return userID, bookmarkID, folderID, false
	}

	folderID, err = primitive.ObjectIDFromHex(reqBody.FolderID)
	if err != nil {
		utils.SendJSONError(w, "Invalid folder ID format", http.StatusBadRequest)
		return userID, bookmarkID, folderID, false
	}
	return userID, bookmarkID, folderID, true
}

func (h *BookmarkHandler) LinkFolder(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, folderID, ok := h.folderLinkRequest(w, r)
	if !ok {
		return
	}

	bm, err := h.service.LinkFolder(r.Context(), userID, bookmarkID, folderID)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error linking folder via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) UnlinkFolder(w http.ResponseWriter, r *http.Request) {
	userID, bookmarkID, folderID, ok := h.folderLinkRequest(w, r)
	if !ok {
		return
	}

	bm, err := h.service.UnlinkFolder(r.Context(), userID, bookmarkID, folderID)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error unlinking folder via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}
