package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"linkmark/internal/models"
	"linkmark/internal/services"
	"linkmark/internal/utils"
)

type FolderHandler struct {
	service services.FolderService
}

func NewFolderHandler(service services.FolderService) *FolderHandler {
	return &FolderHandler{service: service}
}

func (h *FolderHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	folders, err := h.service.ListFolders(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Error getting folders from service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) AddFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.AddFolderRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Error decoding request body for AddFolder")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	folder, err := h.service.CreateFolder(r.Context(), userID, reqBody)
	if err != nil {
		log.Error().Err(err).Msg("Error creating folder via service")
		utils.RespondWithAppError(w, err)
		return
	}

	log.Info().Str("folder_id", folder.ID.Hex()).Msg("Successfully created folder")
	utils.RespondWithJSON(w, http.StatusCreated, folder)
}

func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	folderID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.RenameFolderRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Invalid JSON for RenameFolder")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	folder, err := h.service.RenameFolder(r.Context(), userID, folderID, reqBody.Name)
	if err != nil {
		log.Error().Err(err).Str("folder_id", folderID.Hex()).Msg("Error renaming folder via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, folder)
}

func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	folderID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteFolder(r.Context(), userID, folderID); err != nil {
		log.Error().Err(err).Str("folder_id", folderID.Hex()).Msg("Error deleting folder via service")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "folder deleted"})
}
