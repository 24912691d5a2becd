package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metaWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_meta_writes_total",
		Help: "Whole-document metadata writes.",
	})
	metaReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_meta_read_failures_total",
		Help: "Metadata reads that fell back to the caller default.",
	})
	blobOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairlog_blob_ops_total",
		Help: "Blob store operations by kind.",
	}, []string{"op"})
	blobBytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairlog_blob_bytes_written_total",
		Help: "Bytes written into the blob store.",
	})
)
