package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User activity
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of users auto-provisioned at first sign-in.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of OAuth login attempts.",
	}, []string{"status"}) // status: "success" or "failed"

	// Feature usage
	BookmarkCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_created_total",
		Help: "Total number of bookmarks created.",
	})
	FolderCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_folder_created_total",
		Help: "Total number of folders created.",
	})
	MetaFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_meta_fetch_total",
		Help: "Total number of page metadata fetches.",
	}, []string{"status"}) // status: "success", "fetch_error" or "error"
)
