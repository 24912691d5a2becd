package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pairlog/pkg/store"
	"pairlog/pkg/theme"

	"github.com/gorilla/mux"
)

// paletteSize is how many dominant colors feed theme generation.
const paletteSize = 6

// RegisterThemes registers theme generation routes.
func RegisterThemes(r *mux.Router, maxSize int64) {
	r.HandleFunc("/themes/generate", generateThemes(maxSize)).Methods(http.MethodPost)
}

// generateThemes handles POST /themes/generate: derives theme candidates
// from an image, either the raw request body or an already uploaded blob
// named by ?blobId=. Answers the candidate list; the client applies the
// chosen one to a pair via the theme route.
func generateThemes(maxSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var data []byte
		if blobID := r.URL.Query().Get("blobId"); blobID != "" {
			var err error
			data, err = store.GetBlob(r.Context(), blobID)
			if errors.Is(err, store.ErrBlobNotFound) {
				http.Error(w, `{"error":"blob not found"}`, http.StatusNotFound)
				return
			}
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
		} else {
			var err error
			data, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxSize))
			if err != nil {
				http.Error(w, `{"error":"image too large"}`, http.StatusRequestEntityTooLarge)
				return
			}
		}
		if len(data) == 0 {
			http.Error(w, `{"error":"image required"}`, http.StatusBadRequest)
			return
		}

		palette, err := theme.ExtractPalette(data, paletteSize)
		if err != nil {
			http.Error(w, `{"error":"not a decodable image"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(struct {
			Themes []map[string]any `json:"themes"`
		}{Themes: theme.GenerateFromPalette(palette)})
	}
}
