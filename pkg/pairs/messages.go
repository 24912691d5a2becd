package pairs

import (
	"encoding/json"

	"pairlog/pkg/models"
	"pairlog/pkg/utils"
)

// Position selects which side of the target an in-between insert lands on.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

// MessageUpdate carries the fields of an edit; nil fields are left as-is.
type MessageUpdate struct {
	Sender             *string
	CharacterVersionID *string
	Type               *string
	Content            json.RawMessage
	Bookmarked         *bool
}

// TextContent wraps a plain string as text-message content.
func TextContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// AddMessage appends a message to a conversation. A missing message ID is
// filled in; blob-backed content must already be committed to the blob
// store by the caller.
func AddMessage(doc []models.Pair, pairID, convoID string, msg models.Message) []models.Pair {
	if msg.ID == "" {
		msg.ID = utils.GenMessageID()
	}
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		msgs := make([]models.Message, 0, len(c.Messages)+1)
		msgs = append(msgs, c.Messages...)
		c.Messages = append(msgs, msg)
		return c, true
	})
}

// AddMessageInBetween splices a message next to the target message: at the
// target's index for Before, one past it for After. An unknown target
// leaves the conversation unchanged.
func AddMessageInBetween(doc []models.Pair, pairID, convoID, targetID string, msg models.Message, pos Position) []models.Pair {
	if msg.ID == "" {
		msg.ID = utils.GenMessageID()
	}
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		at := -1
		for i := range c.Messages {
			if c.Messages[i].ID == targetID {
				at = i
				break
			}
		}
		if at < 0 {
			return c, false
		}
		if pos == After {
			at++
		}
		msgs := make([]models.Message, 0, len(c.Messages)+1)
		msgs = append(msgs, c.Messages[:at]...)
		msgs = append(msgs, msg)
		msgs = append(msgs, c.Messages[at:]...)
		c.Messages = msgs
		return c, true
	})
}

// EditMessage merges an update into a message, replacing it wholesale in
// the sequence.
func EditMessage(doc []models.Pair, pairID, convoID, msgID string, upd MessageUpdate) []models.Pair {
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		for i := range c.Messages {
			if c.Messages[i].ID != msgID {
				continue
			}
			msgs := make([]models.Message, len(c.Messages))
			copy(msgs, c.Messages)
			m := msgs[i]
			if upd.Sender != nil {
				m.Sender = *upd.Sender
			}
			if upd.CharacterVersionID != nil {
				m.CharacterVersionID = *upd.CharacterVersionID
			}
			if upd.Type != nil {
				m.Type = *upd.Type
			}
			if upd.Content != nil {
				m.Content = upd.Content
			}
			if upd.Bookmarked != nil {
				m.Bookmarked = *upd.Bookmarked
			}
			msgs[i] = m
			c.Messages = msgs
			return c, true
		}
		return c, false
	})
}

// DeleteMessage removes a message from the sequence.
func DeleteMessage(doc []models.Pair, pairID, convoID, msgID string) []models.Pair {
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		for i := range c.Messages {
			if c.Messages[i].ID != msgID {
				continue
			}
			msgs := make([]models.Message, 0, len(c.Messages)-1)
			msgs = append(msgs, c.Messages[:i]...)
			c.Messages = append(msgs, c.Messages[i+1:]...)
			return c, true
		}
		return c, false
	})
}

// ToggleBookmark flips a message's bookmark flag.
func ToggleBookmark(doc []models.Pair, pairID, convoID, msgID string) []models.Pair {
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		for i := range c.Messages {
			if c.Messages[i].ID != msgID {
				continue
			}
			msgs := make([]models.Message, len(c.Messages))
			copy(msgs, c.Messages)
			msgs[i].Bookmarked = !msgs[i].Bookmarked
			c.Messages = msgs
			return c, true
		}
		return c, false
	})
}

// ImportedMessage is one parsed row of an import batch. Sender and
// character version are supplied by the caller's mapping, not inferred
// here.
type ImportedMessage struct {
	Sender             string `json:"sender"`
	Content            string `json:"content"`
	CharacterVersionID string `json:"characterVersionId"`
}

// ImportMessages appends a batch of text messages with freshly generated
// IDs. An empty batch is a no-op.
func ImportMessages(doc []models.Pair, pairID, convoID string, rows []ImportedMessage) []models.Pair {
	if len(rows) == 0 {
		return doc
	}
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		msgs := make([]models.Message, 0, len(c.Messages)+len(rows))
		msgs = append(msgs, c.Messages...)
		for _, r := range rows {
			msgs = append(msgs, models.Message{
				ID:                 utils.GenMessageID(),
				Sender:             r.Sender,
				CharacterVersionID: r.CharacterVersionID,
				Type:               models.MessageText,
				Content:            TextContent(r.Content),
			})
		}
		c.Messages = msgs
		return c, true
	})
}
