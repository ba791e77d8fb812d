package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"linkmark/internal/apperrors"
	"linkmark/internal/models"
	"linkmark/internal/repositories"
)

type UserService interface {
	GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type userServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		log.Warn().Str("userID", userID.Hex()).Msg("User not found")
		return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error finding user by ID")
		return nil, err
	}
	return user, nil
}
