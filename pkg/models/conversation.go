package models

import "encoding/json"

// Sender roles are fixed: every message belongs to one of the two sides.
const (
	SenderMe    = "Me"
	SenderOther = "Other"
)

// Message content kinds.
const (
	MessageText  = "text"
	MessageImage = "image"
	MessageVideo = "video"
	MessageLink  = "link"
	MessageEmbed = "embed"
)

// OrderUnset marks an order value that was absent from the stored document.
// Migration replaces it with the positional index.
const OrderUnset = -1

// Folder is a named grouping of conversations within a pair. Order is kept
// dense 0..n-1 across the pair's folder list.
type Folder struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Order int      `json:"order"`
}

// Conversation is an ordered message log, optionally assigned to a folder
// of the same pair. Order is a tie-breaking hint scoped to siblings sharing
// the same folder; array position is the ultimate source of truth.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Tags     []string  `json:"tags"`
	FolderID *string   `json:"folderId"`
	Order    int       `json:"order"`
	Messages []Message `json:"messages"`
	Stickers []Sticker `json:"stickers"`
}

// UnmarshalJSON distinguishes an absent order (OrderUnset) from an explicit
// zero, and coerces malformed array fields to empty for the read.
func (c *Conversation) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID       string          `json:"id"`
		Title    string          `json:"title"`
		Tags     json.RawMessage `json:"tags"`
		FolderID *string         `json:"folderId"`
		Order    *int            `json:"order"`
		Messages json.RawMessage `json:"messages"`
		Stickers json.RawMessage `json:"stickers"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = aux.ID
	c.Title = aux.Title
	c.FolderID = aux.FolderID
	c.Order = OrderUnset
	if aux.Order != nil {
		c.Order = *aux.Order
	}
	c.Tags = lenientList[string](aux.Tags)
	c.Messages = lenientList[Message](aux.Messages)
	c.Stickers = lenientList[Sticker](aux.Stickers)
	return nil
}

// Message is an entry in a conversation's ordered sequence. Sequence order
// is array position; there is no stored index. Content depends on Type:
// a string for text, a blob ID for image/video, and a structured object for
// link/embed, kept verbatim as raw JSON.
type Message struct {
	ID                 string          `json:"id"`
	Sender             string          `json:"sender"`
	CharacterVersionID string          `json:"characterVersionId,omitempty"`
	Type               string          `json:"type"`
	Content            json.RawMessage `json:"content"`
	Bookmarked         bool            `json:"bookmarked,omitempty"`
}

// TextContent returns the plain string content of a text message.
func (m Message) TextContent() string {
	var s string
	if err := json.Unmarshal(m.Content, &s); err != nil {
		return ""
	}
	return s
}

// Sticker is a freely positioned overlay on a conversation canvas. Z-order
// is array position within the conversation's sticker list; the end of the
// array renders frontmost. Generated text stickers keep their full
// generation parameters beside the rasterized bitmap so they can be edited
// and regenerated.
type Sticker struct {
	ID            string             `json:"id"`
	ImageID       string             `json:"imageId"`
	X             float64            `json:"x"`
	Y             float64            `json:"y"`
	Width         float64            `json:"width"`
	Rotate        float64            `json:"rotate"`
	Effects       *StickerEffects    `json:"effects,omitempty"`
	IsTextSticker bool               `json:"isTextSticker,omitempty"`
	TextParams    *TextStickerParams `json:"textParams,omitempty"`
}

// StickerEffects groups the optional decorative sub-effects.
type StickerEffects struct {
	Border       *BorderEffect       `json:"border,omitempty"`
	Shadow       *ShadowEffect       `json:"shadow,omitempty"`
	Gradient     *GradientEffect     `json:"gradient,omitempty"`
	Animation    *AnimationEffect    `json:"animation,omitempty"`
	BorderRadius *BorderRadiusEffect `json:"borderRadius,omitempty"`
}

type BorderEffect struct {
	Enabled bool    `json:"enabled"`
	Width   float64 `json:"width"`
	Color   string  `json:"color"`
}

type ShadowEffect struct {
	Enabled bool    `json:"enabled"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
}

type GradientEffect struct {
	Enabled   bool    `json:"enabled"`
	Color     string  `json:"color"`
	Intensity float64 `json:"intensity"`
}

// AnimationEffect selects a canned animation: "none", "bounce" or "float".
type AnimationEffect struct {
	Type string `json:"type"`
}

type BorderRadiusEffect struct {
	Value float64 `json:"value"`
}

// TextStickerParams is the full generation parameter set of a text sticker.
type TextStickerParams struct {
	Text            string  `json:"text"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        float64 `json:"fontSize"`
	FontWeight      int     `json:"fontWeight"`
	LetterSpacing   float64 `json:"letterSpacing"`
	TextColor       string  `json:"textColor"`
	StrokeColor     string  `json:"strokeColor"`
	StrokeWidth     float64 `json:"strokeWidth"`
	BackgroundColor string  `json:"backgroundColor"`
	IsTransparent   bool    `json:"isTransparent"`
	BorderRadius    float64 `json:"borderRadius"`
}
