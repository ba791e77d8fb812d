package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"linkmark/internal/models"
	"linkmark/internal/services"
	"linkmark/internal/utils"
)

type MetaHandler struct {
	service services.MetaService
}

func NewMetaHandler(service services.MetaService) *MetaHandler {
	return &MetaHandler{service: service}
}

// FetchMeta runs the one-shot metadata extraction; callers fall back to the
// raw URL when it fails.
func (h *MetaHandler) FetchMeta(w http.ResponseWriter, r *http.Request) {
	var reqBody models.FetchMetaRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		log.Error().Err(err).Msg("Error decoding request body for FetchMeta")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	meta, err := h.service.Fetch(r.Context(), reqBody.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", reqBody.URL).Msg("Metadata extraction failed")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, meta)
}
