package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pairlog/pkg/store"

	"github.com/gorilla/mux"
)

// RegisterBlobs registers binary upload and download routes. Blobs are
// opaque bytes under generated IDs; the document references them and the
// sweeper reclaims the unreferenced ones.
func RegisterBlobs(r *mux.Router, maxSize int64) {
	r.HandleFunc("/blobs", uploadBlob(maxSize)).Methods(http.MethodPost)
	r.HandleFunc("/blobs/{blobID}", downloadBlob).Methods(http.MethodGet)
	r.HandleFunc("/blobs/{blobID}", removeBlob).Methods(http.MethodDelete)
}

// uploadBlob handles POST /blobs: the raw request body is stored as-is
// and the generated ID returned. Bodies over the configured limit are
// rejected with 413.
func uploadBlob(maxSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.ContentLength > maxSize {
			http.Error(w, `{"error":"blob too large"}`, http.StatusRequestEntityTooLarge)
			return
		}
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSize))
		if err != nil {
			http.Error(w, `{"error":"blob too large"}`, http.StatusRequestEntityTooLarge)
			return
		}
		if len(data) == 0 {
			http.Error(w, `{"error":"empty body"}`, http.StatusBadRequest)
			return
		}
		id, err := store.PutBlob(r.Context(), data)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			ID   string `json:"id"`
			Size int    `json:"size"`
		}{ID: id, Size: len(data)})
	}
}

// downloadBlob handles GET /blobs/{blobID}. Content type is left to the
// client; the store does not record one.
func downloadBlob(w http.ResponseWriter, r *http.Request) {
	data, err := store.GetBlob(r.Context(), mux.Vars(r)["blobID"])
	if errors.Is(err, store.ErrBlobNotFound) {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"blob not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// removeBlob handles DELETE /blobs/{blobID}. Deleting an absent blob
// still answers 204; the outcome is the same.
func removeBlob(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteBlob(r.Context(), mux.Vars(r)["blobID"]); err != nil {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
