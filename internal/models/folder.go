package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder groups bookmarks for one owner. BookmarkCount is computed from the
// association at read time.
type Folder struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID `json:"ownerId" bson:"owner_id"`
	Name          string             `json:"name" bson:"name"`
	IsSecret      bool               `json:"isSecret" bson:"is_secret"`
	BookmarkCount int64              `json:"bookmarkCount" bson:"-"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
}

type AddFolderRequestBody struct {
	Name     string `json:"name"`
	IsSecret bool   `json:"isSecret,omitempty"`
}

type RenameFolderRequestBody struct {
	Name string `json:"name"`
}
