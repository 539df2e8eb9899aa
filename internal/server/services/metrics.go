package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudvault_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudvault_uploads_total",
		Help: "File uploads by result.",
	}, []string{"result"})

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudvault_upload_bytes_total",
		Help: "Bytes accepted into the blob store.",
	})

	deletedEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudvault_deleted_entries_total",
		Help: "File entries removed, including cascaded descendants.",
	}, []string{"kind"})

	missingBlobsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudvault_missing_blobs_total",
		Help: "Blobs that were already gone when their entry was deleted.",
	})
)
