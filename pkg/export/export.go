// Package export renders a conversation as a downloadable transcript.
// Each message becomes a (speaker, content) row: the speaker resolved
// through the pair's character versions, the content flattened to plain
// text with media placeholders. The TXT form round-trips through the
// importer's "[speaker] content" format.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pairlog/pkg/models"
	"pairlog/pkg/pairs"

	"golang.org/x/net/html"
)

// Row is one rendered transcript line.
type Row struct {
	Speaker string
	Content string
}

// ConversationRows flattens a conversation into transcript rows.
func ConversationRows(p models.Pair, c models.Conversation) []Row {
	rows := make([]Row, 0, len(c.Messages))
	for _, m := range c.Messages {
		rows = append(rows, Row{
			Speaker: speakerName(p, m),
			Content: renderContent(m),
		})
	}
	return rows
}

// speakerName resolves the display name for a message's sender,
// falling back to the side's default name when the pair has no
// versions at all.
func speakerName(p models.Pair, m models.Message) string {
	if v, ok := pairs.ResolveVersion(p, m.Sender, m.CharacterVersionID); ok {
		return v.Name
	}
	if m.Sender == models.SenderMe {
		return "A 캐릭터"
	}
	return "B 캐릭터"
}

// linkContent is the subset of link/embed message content the
// transcript needs.
type linkContent struct {
	Service string `json:"service"`
	URL     string `json:"url"`
}

// renderContent flattens message content to one line of plain text.
// Media messages become placeholders; rich text is stripped of markup.
func renderContent(m models.Message) string {
	switch m.Type {
	case models.MessageImage:
		return "[이미지]"
	case models.MessageVideo:
		return "[비디오]"
	case models.MessageEmbed:
		var lc linkContent
		_ = json.Unmarshal(m.Content, &lc)
		return fmt.Sprintf("[링크: %s]", lc.Service)
	case models.MessageLink:
		var lc linkContent
		_ = json.Unmarshal(m.Content, &lc)
		return fmt.Sprintf("[링크: %s]", lc.URL)
	default:
		return stripHTML(m.TextContent())
	}
}

// stripHTML reduces rich text content to its text nodes. Non-HTML text
// passes through unchanged.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

// Filename derives the download filename from the conversation title.
func Filename(c models.Conversation, ext string) string {
	return strings.ReplaceAll(c.Title, " ", "_") + "_export." + ext
}

// WriteTXT writes rows in the "[speaker] content" transcript format.
func WriteTXT(w io.Writer, rows []Row) error {
	for i, r := range rows {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%s] %s", r.Speaker, r.Content); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes rows as CSV with the speaker/content header the
// importer expects to skip.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"화자", "내용"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Speaker, r.Content}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
