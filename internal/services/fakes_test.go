package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"linkmark/internal/models"
)

// In-memory repository fakes. They return copies so a service mutation only
// becomes visible after Save, like the real store.

type fakeBookmarkRepo struct {
	items map[primitive.ObjectID]models.Bookmark
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{items: make(map[primitive.ObjectID]models.Bookmark)}
}

func (r *fakeBookmarkRepo) Insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	if bm.ID.IsZero() {
		bm.ID = primitive.NewObjectID()
	}
	r.items[bm.ID] = *bm
	return bm, nil
}

func (r *fakeBookmarkRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error) {
	bm, ok := r.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := bm
	return &cp, nil
}

func (r *fakeBookmarkRepo) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Bookmark, error) {
	var out []models.Bookmark
	for _, bm := range r.items {
		if bm.OwnerID == ownerID {
			out = append(out, bm)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeBookmarkRepo) Save(ctx context.Context, bm *models.Bookmark) error {
	r.items[bm.ID] = *bm
	return nil
}

func (r *fakeBookmarkRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

func (r *fakeBookmarkRepo) CountByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	var count int64
	for _, bm := range r.items {
		if bm.InFolder(folderID) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookmarkRepo) PullFolderFromAll(ctx context.Context, folderID primitive.ObjectID) error {
	for id, bm := range r.items {
		remaining := make([]primitive.ObjectID, 0, len(bm.FolderIDs))
		for _, fid := range bm.FolderIDs {
			if fid != folderID {
				remaining = append(remaining, fid)
			}
		}
		bm.FolderIDs = remaining
		r.items[id] = bm
	}
	return nil
}

type fakeFolderRepo struct {
	items map[primitive.ObjectID]models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{items: make(map[primitive.ObjectID]models.Folder)}
}

func (r *fakeFolderRepo) Insert(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	r.items[folder.ID] = *folder
	return folder, nil
}

func (r *fakeFolderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	folder, ok := r.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := folder
	return &cp, nil
}

func (r *fakeFolderRepo) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Folder, error) {
	var out []models.Folder
	for _, folder := range r.items {
		if folder.OwnerID == ownerID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeFolderRepo) Save(ctx context.Context, folder *models.Folder) error {
	r.items[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

type fakeUserRepo struct {
	items map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) addUser() primitive.ObjectID {
	user := models.User{ID: primitive.NewObjectID(), Email: "user@example.com", Username: "user"}
	r.items[user.ID] = user
	return user.ID
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.items[user.ID] = *user
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.items {
		if user.Email == email {
			cp := user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, ok := r.items[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := user
	return &cp, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID primitive.ObjectID) (*mongo.DeleteResult, error) {
	delete(r.items, userID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}
