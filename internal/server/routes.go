package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkmark/internal/handlers"
	"linkmark/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.RootHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Registered on the root router so the API rate limit never applies to
	// metadata fetches.
	mh := handlers.NewMetaHandler(s.metaService)
	r.HandleFunc("/api/meta", mh.FetchMeta).Methods("POST", "OPTIONS")

	s.registerAuthRoutes(r)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middlewares.RateLimit)

	s.registerBookmarkRoutes(api)
	s.registerFolderRoutes(api)

	return r
}

func (s *Server) registerBookmarkRoutes(api *mux.Router) {
	bh := handlers.NewBookmarksHandler(s.bookmarkService)

	api.Handle("/bookmarks", middlewares.AuthMiddleware(http.HandlerFunc(bh.GetBookmarks))).Methods("GET", "OPTIONS")
	api.Handle("/bookmarks", middlewares.AuthMiddleware(http.HandlerFunc(bh.AddBookmark))).Methods("POST", "OPTIONS")
	api.Handle("/bookmarks/{id}", middlewares.AuthMiddleware(http.HandlerFunc(bh.DeleteBookmark))).Methods("DELETE", "OPTIONS")
	api.Handle("/bookmarks/{id}/favorite", middlewares.AuthMiddleware(http.HandlerFunc(bh.ToggleFavorite))).Methods("PATCH", "OPTIONS")
	api.Handle("/bookmarks/{id}/title", middlewares.AuthMiddleware(http.HandlerFunc(bh.UpdateTitle))).Methods("PATCH", "OPTIONS")
	api.Handle("/bookmarks/{id}/tags", middlewares.AuthMiddleware(http.HandlerFunc(bh.UpdateTags))).Methods("PATCH", "OPTIONS")
	api.Handle("/bookmarks/{id}/folders", middlewares.AuthMiddleware(http.HandlerFunc(bh.SetFolders))).Methods("PATCH", "OPTIONS")
	api.Handle("/bookmarks/{id}/folder", middlewares.AuthMiddleware(http.HandlerFunc(bh.LinkFolder))).Methods("PATCH", "OPTIONS")
	api.Handle("/bookmarks/{id}/folder", middlewares.AuthMiddleware(http.HandlerFunc(bh.UnlinkFolder))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerFolderRoutes(api *mux.Router) {
	fh := handlers.NewFolderHandler(s.folderService)

	api.Handle("/folders", middlewares.AuthMiddleware(http.HandlerFunc(fh.GetFolders))).Methods("GET", "OPTIONS")
	api.Handle("/folders", middlewares.AuthMiddleware(http.HandlerFunc(fh.AddFolder))).Methods("POST", "OPTIONS")
	api.Handle("/folders/{id}", middlewares.AuthMiddleware(http.HandlerFunc(fh.RenameFolder))).Methods("PATCH", "OPTIONS")
	api.Handle("/folders/{id}", middlewares.AuthMiddleware(http.HandlerFunc(fh.DeleteFolder))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	uh := handlers.NewUserHandler(s.userService)
	ah := handlers.NewAuthHandler(s.authService)

	r.Handle("/api/me", middlewares.AuthMiddleware(http.HandlerFunc(uh.GetMyProfile))).Methods("GET", "OPTIONS")

	r.HandleFunc("/api/auth/logout", ah.Logout).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/success", ah.AuthSuccess).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/error", ah.AuthError).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}", ah.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}/callback", ah.ProviderCallback).Methods("GET", "OPTIONS")
}
