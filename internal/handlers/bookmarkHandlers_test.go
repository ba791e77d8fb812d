package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkmark/internal/apperrors"
	"linkmark/internal/collection"
	"linkmark/internal/middlewares"
	"linkmark/internal/models"
	"linkmark/internal/utils"
)

// stubBookmarkService records calls and replays canned results so the
// handler/middleware layer can be exercised without a database.
type stubBookmarkService struct {
	calls     int
	bookmarks []models.Bookmark
	bookmark  *models.Bookmark
	err       error
	lastQuery collection.Query
}

func (s *stubBookmarkService) ListBookmarks(ctx context.Context, userID primitive.ObjectID, q collection.Query) ([]models.Bookmark, error) {
	s.calls++
	s.lastQuery = q
	return s.bookmarks, s.err
}

func (s *stubBookmarkService) AddBookmark(ctx context.Context, userID primitive.ObjectID, reqBody models.AddBookmarkRequestBody) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) UpdateTitle(ctx context.Context, userID, bookmarkID primitive.ObjectID, title string) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) UpdateTags(ctx context.Context, userID, bookmarkID primitive.ObjectID, tags []string) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) ToggleFavorite(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) SetFolders(ctx context.Context, userID, bookmarkID primitive.ObjectID, folderIDs []primitive.ObjectID) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) LinkFolder(ctx context.Context, userID, bookmarkID, folderID primitive.ObjectID) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) UnlinkFolder(ctx context.Context, userID, bookmarkID, folderID primitive.ObjectID) (*models.Bookmark, error) {
	s.calls++
	return s.bookmark, s.err
}

func (s *stubBookmarkService) DeleteBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID) error {
	s.calls++
	return s.err
}

func bookmarkTestRouter(svc *stubBookmarkService) *mux.Router {
	bh := NewBookmarksHandler(svc)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/bookmarks", middlewares.AuthMiddleware(http.HandlerFunc(bh.GetBookmarks))).Methods("GET")
	api.Handle("/bookmarks", middlewares.AuthMiddleware(http.HandlerFunc(bh.AddBookmark))).Methods("POST")
	api.Handle("/bookmarks/{id}", middlewares.AuthMiddleware(http.HandlerFunc(bh.DeleteBookmark))).Methods("DELETE")
	api.Handle("/bookmarks/{id}/favorite", middlewares.AuthMiddleware(http.HandlerFunc(bh.ToggleFavorite))).Methods("PATCH")
	api.Handle("/bookmarks/{id}/title", middlewares.AuthMiddleware(http.HandlerFunc(bh.UpdateTitle))).Methods("PATCH")
	api.Handle("/bookmarks/{id}/folders", middlewares.AuthMiddleware(http.HandlerFunc(bh.SetFolders))).Methods("PATCH")
	return r
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT(primitive.NewObjectID())
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{}
	router := bookmarkTestRouter(svc)

	req := httptest.NewRequest("POST", "/api/bookmarks", bytes.NewReader([]byte(`{"url":"https://example.com"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec))
	assert.Zero(t, svc.calls, "service must not be reached without credentials")
}

func TestInvalidTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{}
	router := bookmarkTestRouter(svc)

	req := httptest.NewRequest("GET", "/api/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "not-a-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestGetBookmarksReturnsList(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{
		bookmarks: []models.Bookmark{
			{ID: primitive.NewObjectID(), URL: "https://example.com", Title: "Example"},
		},
	}
	router := bookmarkTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "GET", "/api/bookmarks?tag=go&sort=title", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "go", svc.lastQuery.Tag)
	assert.Equal(t, collection.SortTitle, svc.lastQuery.Sort)

	var got []models.Bookmark
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Example", got[0].Title)
}

func TestGetBookmarksInvalidFolderParam(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{}
	router := bookmarkTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "GET", "/api/bookmarks?folder=nothex", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestAddBookmarkCreated(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{
		bookmark: &models.Bookmark{ID: primitive.NewObjectID(), URL: "https://example.com"},
	}
	router := bookmarkTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "POST", "/api/bookmarks", []byte(`{"url":"https://example.com"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.calls)
}

func TestForeignBookmarkForbidden(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{err: apperrors.ErrForbidden}
	router := bookmarkTestRouter(svc)

	target := "/api/bookmarks/" + primitive.NewObjectID().Hex() + "/title"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "PATCH", target, []byte(`{"title":"mine now"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperrors.ErrForbidden.Error(), decodeError(t, rec))
}

func TestMissingBookmarkNotFound(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{err: apperrors.ErrNotFound}
	router := bookmarkTestRouter(svc)

	target := "/api/bookmarks/" + primitive.NewObjectID().Hex()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "DELETE", target, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedBookmarkIDRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{}
	router := bookmarkTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "PATCH", "/api/bookmarks/nothex/favorite", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestSetFoldersInvalidIDFormat(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubBookmarkService{}
	router := bookmarkTestRouter(svc)

	target := "/api/bookmarks/" + primitive.NewObjectID().Hex() + "/folders"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "PATCH", target, []byte(`{"folderIds":["nothex"]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}
