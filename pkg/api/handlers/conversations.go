package handlers

import (
	"encoding/json"
	"net/http"

	"pairlog/pkg/bridge"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"

	"github.com/gorilla/mux"
)

// RegisterConversations registers conversation, folder and layout routes.
func RegisterConversations(r *mux.Router, b *bridge.Bridge) {
	r.HandleFunc("/pairs/{pairID}/conversations", createConversation(b)).Methods(http.MethodPost)
	r.HandleFunc("/pairs/{pairID}/conversations/{convoID}", updateConversation(b)).Methods(http.MethodPut)
	r.HandleFunc("/pairs/{pairID}/conversations/{convoID}", deleteConversation(b)).Methods(http.MethodDelete)
	r.HandleFunc("/pairs/{pairID}/conversations/{convoID}/folder", moveConversation(b)).Methods(http.MethodPut)

	r.HandleFunc("/pairs/{pairID}/folders", createFolder(b)).Methods(http.MethodPost)
	r.HandleFunc("/pairs/{pairID}/folders/{folderID}", renameFolder(b)).Methods(http.MethodPut)
	r.HandleFunc("/pairs/{pairID}/folders/{folderID}", deleteFolder(b)).Methods(http.MethodDelete)

	r.HandleFunc("/pairs/{pairID}/reorder", reorderItems(b)).Methods(http.MethodPost)
}

// createConversation handles POST /pairs/{pairID}/conversations. The
// new conversation lands at root level.
func createConversation(b *bridge.Bridge) http.HandlerFunc {
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
		var created models.Conversation
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			next := pairs.AddConversation(doc, pairID, pairs.ConvoDetails{Title: body.Title, Tags: body.Tags})
			if p, ok := findPair(next, pairID); ok && len(p.Conversations) > 0 {
				created = p.Conversations[len(p.Conversations)-1]
			}
			return next
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"pair not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	}
}

// updateConversation handles PUT /pairs/{pairID}/conversations/{convoID}:
// title and tags only.
func updateConversation(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body struct {
			Title string   `json:"title" validate:"required"`
			Tags  []string `json:"tags"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.UpdateConversation(doc, vars["pairID"], vars["convoID"], pairs.ConvoDetails{Title: body.Title, Tags: body.Tags})
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deleteConversation handles DELETE /pairs/{pairID}/conversations/{convoID}.
func deleteConversation(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.DeleteConversation(doc, vars["pairID"], vars["convoID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// moveConversation handles PUT .../conversations/{convoID}/folder. A
// null folderId moves the conversation to root; a folder ID that does
// not exist in the pair leaves the document unchanged.
func moveConversation(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body struct {
			FolderID *string `json:"folderId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.MoveConversationToFolder(doc, vars["pairID"], vars["convoID"], body.FolderID)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// createFolder handles POST /pairs/{pairID}/folders.
func createFolder(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var body struct {
			Name string   `json:"name" validate:"required"`
			Tags []string `json:"tags"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		var created models.Folder
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			next := pairs.AddFolder(doc, pairID, body.Name, body.Tags)
			if p, ok := findPair(next, pairID); ok && len(p.Folders) > 0 {
				created = p.Folders[len(p.Folders)-1]
			}
			return next
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"pair not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	}
}

// renameFolder handles PUT /pairs/{pairID}/folders/{folderID}.
func renameFolder(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body struct {
			Name string   `json:"name" validate:"required"`
			Tags []string `json:"tags"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.RenameFolder(doc, vars["pairID"], vars["folderID"], body.Name, body.Tags)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deleteFolder handles DELETE /pairs/{pairID}/folders/{folderID}. The
// folder's conversations survive and move to root.
func deleteFolder(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.DeleteFolder(doc, vars["pairID"], vars["folderID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"folder not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// reorderItems handles POST /pairs/{pairID}/reorder: one drag-and-drop
// gesture inside the sidebar, folder or conversation onto folder,
// conversation or root.
func reorderItems(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var body struct {
			Drag pairs.Item `json:"drag"`
			Drop pairs.Item `json:"drop"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.ReorderItems(doc, pairID, body.Drag, body.Drop)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}
