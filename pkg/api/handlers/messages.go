package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pairlog/pkg/bridge"
	"pairlog/pkg/linkmeta"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"
	"pairlog/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterMessages registers message routes under a conversation.
func RegisterMessages(r *mux.Router, b *bridge.Bridge) {
	base := "/pairs/{pairID}/conversations/{convoID}/messages"
	r.HandleFunc(base, createMessage(b)).Methods(http.MethodPost)
	r.HandleFunc(base+"/{msgID}", editMessage(b)).Methods(http.MethodPut)
	r.HandleFunc(base+"/{msgID}", deleteMessage(b)).Methods(http.MethodDelete)
	r.HandleFunc(base+"/{msgID}/bookmark", toggleBookmark(b)).Methods(http.MethodPost)
}

// messageBody is the create payload. Text messages send Text; image and
// video messages send the BlobID of an already uploaded blob. TargetID
// and Position turn the append into an insert beside an existing
// message.
type messageBody struct {
	Sender             string `json:"sender" validate:"required,oneof=Me Other"`
	CharacterVersionID string `json:"characterVersionId"`
	Type               string `json:"type" validate:"omitempty,oneof=text image video"`
	Text               string `json:"text"`
	BlobID             string `json:"blobId"`
	TargetID           string `json:"targetId"`
	Position           string `json:"position" validate:"omitempty,oneof=before after"`
}

// buildMessage assembles the stored message from the payload. Text that
// parses as a known service URL is reclassified: embeds store the embed
// URL, links store the URL plus whatever OpenGraph metadata the page
// yields. A failed metadata fetch still posts the bare link.
func buildMessage(ctx context.Context, body messageBody) models.Message {
	m := models.Message{
		ID:                 utils.GenMessageID(),
		Sender:             body.Sender,
		CharacterVersionID: body.CharacterVersionID,
		Type:               body.Type,
	}
	switch body.Type {
	case models.MessageImage, models.MessageVideo:
		m.Content = pairs.TextContent(body.BlobID)
		return m
	}
	m.Type = models.MessageText
	if parsed, ok := linkmeta.Parse(body.Text); ok {
		m.Type = parsed.Kind
		content := map[string]any{"service": parsed.Service}
		if parsed.Kind == linkmeta.KindEmbed {
			content["embedUrl"] = parsed.EmbedURL
		} else {
			content["url"] = parsed.URL
			if md := linkmeta.Fetch(ctx, parsed.URL); md.Success {
				content["title"] = md.Title
				content["description"] = md.Description
				content["image"] = md.Image
			}
		}
		m.Content, _ = json.Marshal(content)
		return m
	}
	m.Content = pairs.TextContent(body.Text)
	return m
}

// createMessage handles POST .../messages. With targetId set the new
// message is spliced in beside it instead of appended.
func createMessage(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body messageBody
		if !decodeJSON(w, r, &body) {
			return
		}
		msg := buildMessage(r.Context(), body)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			if body.TargetID != "" {
				pos := pairs.Before
				if body.Position == "after" {
					pos = pairs.After
				}
				return pairs.AddMessageInBetween(doc, vars["pairID"], vars["convoID"], body.TargetID, msg, pos)
			}
			return pairs.AddMessage(doc, vars["pairID"], vars["convoID"], msg)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(msg)
	}
}

// editMessage handles PUT .../messages/{msgID}. Supplied fields merge
// into the stored message; Text is a convenience for plain content.
func editMessage(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		var body struct {
			Sender             *string         `json:"sender" validate:"omitempty,oneof=Me Other"`
			CharacterVersionID *string         `json:"characterVersionId"`
			Type               *string         `json:"type"`
			Content            json.RawMessage `json:"content"`
			Text               *string         `json:"text"`
			Bookmarked         *bool           `json:"bookmarked"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		upd := pairs.MessageUpdate{
			Sender:             body.Sender,
			CharacterVersionID: body.CharacterVersionID,
			Type:               body.Type,
			Content:            body.Content,
			Bookmarked:         body.Bookmarked,
		}
		if body.Text != nil {
			upd.Content = pairs.TextContent(*body.Text)
		}
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.EditMessage(doc, vars["pairID"], vars["convoID"], vars["msgID"], upd)
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}

// deleteMessage handles DELETE .../messages/{msgID}.
func deleteMessage(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.DeleteMessage(doc, vars["pairID"], vars["convoID"], vars["msgID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if !changed {
			http.Error(w, `{"error":"message not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// toggleBookmark handles POST .../messages/{msgID}/bookmark.
func toggleBookmark(b *bridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		vars := mux.Vars(r)
		changed, err := b.Apply(func(doc []models.Pair) []models.Pair {
			return pairs.ToggleBookmark(doc, vars["pairID"], vars["convoID"], vars["msgID"])
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeChanged(w, changed)
	}
}
