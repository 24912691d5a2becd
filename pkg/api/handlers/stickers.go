package handlers

import (
	"encoding/json"
	"net/http"

	"pairlog/pkg/bridge"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"
	"pairlog/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterStickers registers sticker routes under a conversation.
func RegisterStickers(r *mux.Router, b *bridge.Bridge) {
	base := "/pairs/{pairID}/conversations/{convoID}/stickers"
	r.HandleFunc(base, putSticker(b)).Methods(http.MethodPut)
	r.HandleFunc(base+"/{stickerID}/reorder", reorderSticker(b)).Methods(http.MethodPost)
	r.HandleFunc(base+"/{stickerID}", deleteSticker(b)).Methods(http.MethodDelete)
}

// putSticker handles PUT .../stickers: upsert by sticker ID. A sticker
// without an ID is new and renders frontmost; an existing ID keeps its
// z-order and has its fields replaced.
func putSticker(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var st models.Sticker
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		if st.ImageID == "" {
			http.Error(w, `{"error":"imageId is required"}`, http.StatusBadRequest)
			return
		}
		if st.ID == "" {
			st.ID = utils.GenStickerID()
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.AddOrUpdateSticker(doc, vars["pairID"], vars["convoID"], st)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(st)
	}
}

// reorderSticker handles POST .../stickers/{stickerID}/reorder: send the
// sticker all the way to the front or the back of the z-order.
func reorderSticker(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body struct {
			Direction string `json:"direction" validate:"required,oneof=front back"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.ReorderSticker(doc, vars["pairID"], vars["convoID"], vars["stickerID"], pairs.StickerDirection(body.Direction))
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deleteSticker handles DELETE .../stickers/{stickerID}.
func deleteSticker(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.DeleteSticker(doc, vars["pairID"], vars["convoID"], vars["stickerID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"sticker not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
