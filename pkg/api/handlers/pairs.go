package handlers

import (
	"encoding/json"
	"net/http"

	"pairlog/pkg/bridge"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"

	"github.com/gorilla/mux"
)

// RegisterPairs registers pair collection and pair-scoped workspace routes.
func RegisterPairs(r *mux.Router, b *bridge.Bridge) {
	r.HandleFunc("/pairs", listPairs(b)).Methods(http.MethodGet)
	r.HandleFunc("/pairs", createPair(b)).Methods(http.MethodPost)
	r.HandleFunc("/pairs/reorder", reorderPairs(b)).Methods(http.MethodPost)

	r.HandleFunc("/pairs/{pairID}", getPair(b)).Methods(http.MethodGet)
	r.HandleFunc("/pairs/{pairID}", updatePairDetails(b)).Methods(http.MethodPut)
	r.HandleFunc("/pairs/{pairID}", deletePair(b)).Methods(http.MethodDelete)

	r.HandleFunc("/pairs/{pairID}/theme", updatePairTheme(b)).Methods(http.MethodPut)
	r.HandleFunc("/pairs/{pairID}/background", updateBackground(b)).Methods(http.MethodPut)
	r.HandleFunc("/pairs/{pairID}/slides", addSlideImage(b)).Methods(http.MethodPost)
	r.HandleFunc("/pairs/{pairID}/slides/{blobID}", deleteSlideImage(b)).Methods(http.MethodDelete)
}

// listPairs handles GET /pairs: the whole collection, the shape the
// dashboard renders from.
func listPairs(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Pairs []models.Pair `json:"pairs"`
		}{Pairs: b.Snapshot()})
	}
}

// createPair handles POST /pairs. The new pair starts with the default
// workspace theme unless the body overlays one, and one default
// character version per side.
func createPair(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var body struct {
			Title           string         `json:"title" validate:"required"`
			Tags            []string       `json:"tags"`
			BackgroundImage string         `json:"backgroundImage"`
			Theme           map[string]any `json:"theme"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		var created models.Pair
		_, err := b.Apply(func(doc []models.Pair) []models.Pair {
			next := pairs.CreatePair(doc, pairs.PairDetails{
				Title:           body.Title,
				Tags:            body.Tags,
				BackgroundImage: body.BackgroundImage,
				Theme:           body.Theme,
			})
			created = next[len(next)-1]
			return next
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	}
}

// getPair handles GET /pairs/{pairID}.
func getPair(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		p, ok := findPair(b.Snapshot(), mux.Vars(r)["pairID"])
		if !ok {
			http.Error(w, `{"error":"pair not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	}
}

// updatePairDetails handles PUT /pairs/{pairID}: title and tags only.
func updatePairDetails(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var body struct {
			Title string   `json:"title" validate:"required"`
			Tags  []string `json:"tags"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.UpdatePairDetails(doc, pairID, body.Title, body.Tags)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deletePair handles DELETE /pairs/{pairID}.
func deletePair(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.DeletePair(doc, pairID)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"pair not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updatePairTheme handles PUT /pairs/{pairID}/theme. The body replaces
// the pair's whole theme map.
func updatePairTheme(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var theme map[string]any
		if err := json.NewDecoder(r.Body).Decode(&theme); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.UpdatePairTheme(doc, pairID, theme)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// updateBackground handles PUT /pairs/{pairID}/background. An empty
// blobId clears the background.
func updateBackground(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var body struct {
			BlobID string `json:"blobId"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.UpdateBackgroundImage(doc, pairID, body.BlobID)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// addSlideImage handles POST /pairs/{pairID}/slides.
func addSlideImage(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var body struct {
			BlobID string `json:"blobId" validate:"required"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.AddSlideImage(doc, pairID, body.BlobID)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deleteSlideImage handles DELETE /pairs/{pairID}/slides/{blobID}. The
// blob itself stays in the blob store; the sweeper reclaims it once
// nothing references it.
func deleteSlideImage(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.DeleteSlideImage(doc, vars["pairID"], vars["blobID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// reorderPairs handles POST /pairs/reorder: splices the dragged pair in
// before the target pair.
func reorderPairs(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var body struct {
			DraggedID string `json:"draggedId" validate:"required"`
			TargetID  string `json:"targetId" validate:"required"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.ReorderPairs(doc, body.DraggedID, body.TargetID)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}
