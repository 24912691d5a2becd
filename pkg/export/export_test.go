package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairlog/pkg/importer"
	"pairlog/pkg/models"
	"pairlog/pkg/pairs"
)

func exportPair() models.Pair {
	return models.Pair{
		ID: "pair-1",
		Characters: models.Characters{
			Me:    []models.CharacterVersion{{ID: "v-me", Name: "앨리스"}},
			Other: []models.CharacterVersion{{ID: "v-other", Name: "Bob"}},
		},
	}
}

func textMsg(sender, versionID, text string) models.Message {
	return models.Message{
		Sender: sender, CharacterVersionID: versionID,
		Type: models.MessageText, Content: pairs.TextContent(text),
	}
}

func TestConversationRows(t *testing.T) {
	p := exportPair()
	embed, _ := json.Marshal(map[string]string{"service": "youtube", "embedUrl": "https://www.youtube.com/embed/x"})
	link, _ := json.Marshal(map[string]string{"service": "tistory", "url": "https://blog.tistory.com/1"})
	c := models.Conversation{
		Title: "my log",
		Messages: []models.Message{
			textMsg(models.SenderMe, "v-me", "hello"),
			{Sender: models.SenderOther, Type: models.MessageImage, Content: pairs.TextContent("blob-1")},
			{Sender: models.SenderOther, Type: models.MessageVideo, Content: pairs.TextContent("blob-2")},
			{Sender: models.SenderMe, Type: models.MessageEmbed, Content: embed},
			{Sender: models.SenderMe, Type: models.MessageLink, Content: link},
			textMsg(models.SenderOther, "v-gone", "fallback speaker"),
			textMsg(models.SenderMe, "v-me", "<p>rich <b>text</b></p>"),
		},
	}

	rows := ConversationRows(p, c)
	require.Len(t, rows, 7)
	assert.Equal(t, Row{Speaker: "앨리스", Content: "hello"}, rows[0])
	assert.Equal(t, "[이미지]", rows[1].Content)
	assert.Equal(t, "[비디오]", rows[2].Content)
	assert.Equal(t, "[링크: youtube]", rows[3].Content)
	assert.Equal(t, "[링크: https://blog.tistory.com/1]", rows[4].Content)
	// Deleted version falls back to the side's first remaining version.
	assert.Equal(t, "Bob", rows[5].Speaker)
	assert.Equal(t, "rich text", rows[6].Content)
}

func TestFilename(t *testing.T) {
	c := models.Conversation{Title: "our first chat"}
	assert.Equal(t, "our_first_chat_export.txt", Filename(c, "txt"))
	assert.Equal(t, "our_first_chat_export.csv", Filename(c, "csv"))
}

func TestTXTRoundTripsThroughImporter(t *testing.T) {
	p := exportPair()
	c := models.Conversation{
		Messages: []models.Message{
			textMsg(models.SenderMe, "v-me", "first"),
			textMsg(models.SenderOther, "v-other", "second"),
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTXT(&buf, ConversationRows(p, c)))

	rows, err := importer.ParseTXT(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, importer.Row{Speaker: "앨리스", Content: "first"}, rows[0])
	assert.Equal(t, importer.Row{Speaker: "Bob", Content: "second"}, rows[1])
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Row{{Speaker: "앨리스", Content: "안녕"}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "화자,내용", lines[0])
	assert.Equal(t, "앨리스,안녕", lines[1])

	// And the importer skips the header on the way back in.
	rows, err := importer.ParseCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "안녕", rows[0].Content)
}
