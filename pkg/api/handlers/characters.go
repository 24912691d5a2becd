package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pairlog/pkg/bridge"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"

	"github.com/gorilla/mux"
)

// RegisterCharacters registers character version routes. {role} is "me"
// or "other"; the two slots are fixed per pair.
func RegisterCharacters(r *mux.Router, b *bridge.Bridge) {
	base := "/pairs/{pairID}/characters"
	r.HandleFunc(base, replaceCharacters(b)).Methods(http.MethodPut)
	r.HandleFunc(base+"/{role}/versions", addVersion(b)).Methods(http.MethodPost)
	r.HandleFunc(base+"/{role}/versions/{versionID}/clone", cloneVersion(b)).Methods(http.MethodPost)
	r.HandleFunc(base+"/{role}/versions/{versionID}", updateVersion(b)).Methods(http.MethodPut)
	r.HandleFunc(base+"/{role}/versions/{versionID}", deleteVersion(b)).Methods(http.MethodDelete)
}

func roleVar(w http.ResponseWriter, r *http.Request) (pairs.Role, bool) {
	switch mux.Vars(r)["role"] {
	case "me":
		return pairs.RoleMe, true
	case "other":
		return pairs.RoleOther, true
	}
	http.Error(w, `{"error":"role must be me or other"}`, http.StatusBadRequest)
	return "", false
}

// addVersion handles POST .../characters/{role}/versions.
func addVersion(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		role, ok := roleVar(w, r)
		if !ok {
			return
		}
		var body struct {
			Name     string `json:"name" validate:"required"`
			Username string `json:"username"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		var created models.CharacterVersion
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			next := pairs.AddCharacterVersion(doc, pairID, role, body.Name, body.Username)
			if p, ok := findPair(next, pairID); ok {
				list := p.Characters.Other
				if role == pairs.RoleMe {
					list = p.Characters.Me
				}
				if len(list) > 0 {
					created = list[len(list)-1]
				}
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

// cloneVersion handles POST .../versions/{versionID}/clone: a full copy
// under a fresh ID with the clone suffix on the name.
func cloneVersion(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		role, ok := roleVar(w, r)
		if !ok {
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.CloneCharacterVersion(doc, vars["pairID"], role, vars["versionID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// updateVersion handles PUT .../versions/{versionID}: merges supplied
// fields into the version.
func updateVersion(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		role, ok := roleVar(w, r)
		if !ok {
			return
		}
		var body struct {
			Name          *string  `json:"name"`
			Username      *string  `json:"username"`
			Avatar        *string  `json:"avatar"`
			ProfileBanner *string  `json:"profileBanner"`
			HeaderColor1  *string  `json:"headerColor1"`
			HeaderColor2  *string  `json:"headerColor2"`
			StatusMessage *string  `json:"statusMessage"`
			Memo          *string  `json:"memo"`
			Tags          []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.UpdateCharacterVersion(doc, vars["pairID"], role, vars["versionID"], pairs.VersionUpdate{
				Name:          body.Name,
				Username:      body.Username,
				Avatar:        body.Avatar,
				ProfileBanner: body.ProfileBanner,
				HeaderColor1:  body.HeaderColor1,
				HeaderColor2:  body.HeaderColor2,
				StatusMessage: body.StatusMessage,
				Memo:          body.Memo,
				Tags:          body.Tags,
			})
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deleteVersion handles DELETE .../versions/{versionID}. Deleting the
// last version of a role is rejected with 409; every message referencing
// a version must stay resolvable to one.
func deleteVersion(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		role, ok := roleVar(w, r)
		if !ok {
			return
		}
		changed, err := b.ApplyGuarded(func(doc []models.Pair) ([]models.Pair, error) {
			return pairs.DeleteCharacterVersion(doc, vars["pairID"], role, vars["versionID"])
		})
		if errors.Is(err, pairs.ErrLastVersion) {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"version not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// replaceCharacters handles PUT .../characters: wholesale replacement of
// both version lists, used by the character settings editor. Either side
// going empty is rejected with 409.
func replaceCharacters(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pairID := mux.Vars(r)["pairID"]
		var ch models.Characters
		if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		changed, err := b.ApplyGuarded(func(doc []models.Pair) ([]models.Pair, error) {
			return pairs.ReplaceCharacters(doc, pairID, ch)
		})
		if errors.Is(err, pairs.ErrLastVersion) {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}
