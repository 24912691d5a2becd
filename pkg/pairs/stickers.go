package pairs

import (
	"pairlog/pkg/models"
	"pairlog/pkg/utils"
)

// StickerDirection selects where a reordered sticker lands in the z-order.
type StickerDirection string

const (
	Front StickerDirection = "front"
	Back  StickerDirection = "back"
)

// AddOrUpdateSticker upserts a sticker on a conversation canvas. An
// existing ID is replaced in place, preserving its position in the z-order;
// a new sticker is appended and becomes frontmost. The sticker's bitmap
// blob must already be committed by the caller.
func AddOrUpdateSticker(doc []models.Pair, pairID, convoID string, st models.Sticker) []models.Pair {
	if st.ID == "" {
		st.ID = utils.GenStickerID()
	}
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		for i := range c.Stickers {
			if c.Stickers[i].ID != st.ID {
				continue
			}
			sts := make([]models.Sticker, len(c.Stickers))
			copy(sts, c.Stickers)
			sts[i] = st
			c.Stickers = sts
			return c, true
		}
		sts := make([]models.Sticker, 0, len(c.Stickers)+1)
		sts = append(sts, c.Stickers...)
		c.Stickers = append(sts, st)
		return c, true
	})
}

// ReorderSticker moves a sticker to the front (end of the array) or back
// (start of the array) of the z-order.
func ReorderSticker(doc []models.Pair, pairID, convoID, stickerID string, dir StickerDirection) []models.Pair {
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		at := -1
		for i := range c.Stickers {
			if c.Stickers[i].ID == stickerID {
				at = i
				break
			}
		}
		if at < 0 {
			return c, false
		}
		moved := c.Stickers[at]
		rest := make([]models.Sticker, 0, len(c.Stickers))
		rest = append(rest, c.Stickers[:at]...)
		rest = append(rest, c.Stickers[at+1:]...)
		switch dir {
		case Front:
			rest = append(rest, moved)
		case Back:
			rest = append([]models.Sticker{moved}, rest...)
		default:
			return c, false
		}
		c.Stickers = rest
		return c, true
	})
}

// DeleteSticker removes a sticker from the canvas.
func DeleteSticker(doc []models.Pair, pairID, convoID, stickerID string) []models.Pair {
	return updateConversation(doc, pairID, convoID, func(c models.Conversation) (models.Conversation, bool) {
		for i := range c.Stickers {
			if c.Stickers[i].ID != stickerID {
				continue
			}
			sts := make([]models.Sticker, 0, len(c.Stickers)-1)
			sts = append(sts, c.Stickers[:i]...)
			c.Stickers = append(sts, c.Stickers[i+1:]...)
			return c, true
		}
		return c, false
	})
}
