package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark belongs to exactly one owner. FolderIDs is the single owning side
// of the bookmark-folder many-to-many; Folders is resolved at read time and
// never stored.
type Bookmark struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID   `json:"ownerId" bson:"owner_id"`
	URL         string               `json:"url" bson:"url"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	ImageURL    string               `json:"imageUrl" bson:"image_url"`
	Tags        []string             `json:"tags" bson:"tags"`
	IsFavorite  bool                 `json:"isFavorite" bson:"is_favorite"`
	FolderIDs   []primitive.ObjectID `json:"-" bson:"folder_ids"`
	Folders     []Folder             `json:"folders" bson:"-"`
	CreatedAt   time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updated_at"`
}

// InFolder reports whether the bookmark is associated with the given folder.
func (b *Bookmark) InFolder(folderID primitive.ObjectID) bool {
	for _, id := range b.FolderIDs {
		if id == folderID {
			return true
		}
	}
	return false
}

type AddBookmarkRequestBody struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type UpdateTitleRequestBody struct {
	Title string `json:"title"`
}

type UpdateTagsRequestBody struct {
	Tags []string `json:"tags"`
}

type SetFoldersRequestBody struct {
	FolderIDs []string `json:"folderIds"`
}

type FolderLinkRequestBody struct {
	FolderID string `json:"folderId"`
}
