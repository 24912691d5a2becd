package handlers

import (
	"encoding/json"
	"net/http"

	"pairlog/pkg/bridge"

	"github.com/gorilla/mux"
)

// RegisterSettings registers the application preference routes.
func RegisterSettings(r *mux.Router) {
	r.HandleFunc("/settings", getSettings).Methods(http.MethodGet)
	r.HandleFunc("/settings", putSettings).Methods(http.MethodPut)
}

// getSettings handles GET /settings.
func getSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(bridge.LoadSettings())
}

// putSettings handles PUT /settings. The body is the full settings
// object; omitted fields revert to their zero values, so clients send
// everything back.
func putSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var s bridge.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if err := bridge.SaveSettings(s); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}
