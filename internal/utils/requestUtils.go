package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkmark/internal/apperrors"
)

type contextKey string

// UserIDContextKey holds the authenticated user's hex id, set by the auth
// middleware.
const UserIDContextKey contextKey = "userID"

// WithUserID returns a context carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserIDFromContext extracts and parses the userID from the request
// context, writing the 401 response itself on failure.
func GetUserIDFromContext(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, error) {
	userIDStr, ok := r.Context().Value(UserIDContextKey).(string)
	if !ok {
		SendJSONError(w, apperrors.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return primitive.NilObjectID, errors.New("missing user ID in context")
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		SendJSONError(w, apperrors.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return primitive.NilObjectID, errors.New("invalid user ID format in context")
	}
	return userID, nil
}

// GetObjectIDFromVars extracts and parses an ObjectID from mux.Vars, writing
// the 400 response itself on failure.
func GetObjectIDFromVars(w http.ResponseWriter, r *http.Request, paramName string) (primitive.ObjectID, error) {
	vars := mux.Vars(r)
	idStr := vars[paramName]
	if idStr == "" {
		SendJSONError(w, "Missing ID parameter", http.StatusBadRequest)
		return primitive.NilObjectID, errors.New("missing ID parameter")
	}

	objID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		SendJSONError(w, "Invalid ID format", http.StatusBadRequest)
		return primitive.NilObjectID, errors.New("invalid ID format")
	}
	return objID, nil
}

func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithAppError maps a service error onto the taxonomy. Internal errors
// are logged with detail and surfaced generically.
func RespondWithAppError(w http.ResponseWriter, err error) {
	status := apperrors.Status(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Internal error while handling request")
	}
	SendJSONError(w, apperrors.Message(err), status)
}
