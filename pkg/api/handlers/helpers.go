package handlers

import (
	"encoding/json"
	"net/http"

	"pairlog/pkg/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeJSON decodes and validates a JSON request body. On failure it
// writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return false
	}
	return true
}

// findPair looks a pair up by ID in a document snapshot.
func findPair(doc []models.Pair, id string) (models.Pair, bool) {
	for i := range doc {
		if doc[i].ID == id {
			return doc[i], true
		}
	}
	return models.Pair{}, false
}

// findConvo looks a conversation up by ID within a pair.
func findConvo(p models.Pair, id string) (models.Conversation, bool) {
	for i := range p.Conversations {
		if p.Conversations[i].ID == id {
			return p.Conversations[i], true
		}
	}
	return models.Conversation{}, false
}

// writeChanged reports a mutation outcome. Unknown target IDs are
// deliberate no-ops, so they answer 200 with changed=false rather than
// an error.
func writeChanged(w http.ResponseWriter, changed bool) {
	_ = json.NewEncoder(w).Encode(struct {
		Changed bool `json:"changed"`
	}{Changed: changed})
}
