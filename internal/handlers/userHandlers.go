package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"linkmark/internal/services"
	"linkmark/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (u *UserHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	user, err := u.userService.GetUserProfile(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Error getting user profile")
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}
