package pairs

import (
	"testing"

	"pairlog/pkg/models"
)

func buildConvoDoc(t *testing.T) ([]models.Pair, string) {
	t.Helper()
	doc := testDoc("a")
	doc = AddConversation(doc, "a", ConvoDetails{Title: "log"})
	return doc, doc[0].Conversations[0].ID
}

func msgTitles(c models.Conversation) []string {
	out := make([]string, len(c.Messages))
	for i, m := range c.Messages {
		out[i] = m.TextContent()
	}
	return out
}

func TestAddMessageGeneratesID(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	doc = AddMessage(doc, "a", cid, models.Message{
		Sender:  models.SenderMe,
		Type:    models.MessageText,
		Content: TextContent("hello"),
	})
	msgs := doc[0].Conversations[0].Messages
	if len(msgs) != 1 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if msgs[0].ID == "" {
		t.Fatal("message ID not generated")
	}
	if msgs[0].TextContent() != "hello" {
		t.Fatalf("content = %q", msgs[0].TextContent())
	}
}

func TestAddMessageKeepsProvidedID(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	doc = AddMessage(doc, "a", cid, models.Message{
		ID: "msg-fixed", Sender: models.SenderMe,
		Type: models.MessageText, Content: TextContent("x"),
	})
	if doc[0].Conversations[0].Messages[0].ID != "msg-fixed" {
		t.Fatal("provided message ID must be kept")
	}
}

func TestAddMessageInBetween(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	for _, s := range []string{"one", "two", "three"} {
		doc = AddMessage(doc, "a", cid, models.Message{
			Sender: models.SenderMe, Type: models.MessageText, Content: TextContent(s),
		})
	}
	target := doc[0].Conversations[0].Messages[1].ID

	before := AddMessageInBetween(doc, "a", cid, target, models.Message{
		Sender: models.SenderOther, Type: models.MessageText, Content: TextContent("B"),
	}, Before)
	got := msgTitles(before[0].Conversations[0])
	want := []string{"one", "B", "two", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("before insert: %v", got)
		}
	}

	after := AddMessageInBetween(doc, "a", cid, target, models.Message{
		Sender: models.SenderOther, Type: models.MessageText, Content: TextContent("A"),
	}, After)
	got = msgTitles(after[0].Conversations[0])
	want = []string{"one", "two", "A", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after insert: %v", got)
		}
	}

	if res := AddMessageInBetween(doc, "a", cid, "missing", models.Message{
		Sender: models.SenderMe, Type: models.MessageText, Content: TextContent("x"),
	}, Before); &res[0] != &doc[0] {
		t.Fatal("unknown target must be a no-op")
	}
}

func TestEditMessagePartialUpdate(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	doc = AddMessage(doc, "a", cid, models.Message{
		Sender: models.SenderMe, Type: models.MessageText, Content: TextContent("old"),
	})
	id := doc[0].Conversations[0].Messages[0].ID

	sender := models.SenderOther
	out := EditMessage(doc, "a", cid, id, MessageUpdate{
		Sender:  &sender,
		Content: TextContent("new"),
	})
	m := out[0].Conversations[0].Messages[0]
	if m.Sender != models.SenderOther || m.TextContent() != "new" {
		t.Fatalf("message = %+v", m)
	}
	if m.Type != models.MessageText {
		t.Fatal("unset fields must be left as-is")
	}
	if doc[0].Conversations[0].Messages[0].TextContent() != "old" {
		t.Fatal("input document was mutated")
	}
}

func TestDeleteMessage(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	doc = AddMessage(doc, "a", cid, models.Message{
		Sender: models.SenderMe, Type: models.MessageText, Content: TextContent("x"),
	})
	id := doc[0].Conversations[0].Messages[0].ID
	out := DeleteMessage(doc, "a", cid, id)
	if len(out[0].Conversations[0].Messages) != 0 {
		t.Fatal("message not deleted")
	}
	if got := DeleteMessage(doc, "a", cid, "missing"); &got[0] != &doc[0] {
		t.Fatal("unknown message must be a no-op")
	}
}

func TestToggleBookmark(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	doc = AddMessage(doc, "a", cid, models.Message{
		Sender: models.SenderMe, Type: models.MessageText, Content: TextContent("x"),
	})
	id := doc[0].Conversations[0].Messages[0].ID
	on := ToggleBookmark(doc, "a", cid, id)
	if !on[0].Conversations[0].Messages[0].Bookmarked {
		t.Fatal("bookmark not set")
	}
	off := ToggleBookmark(on, "a", cid, id)
	if off[0].Conversations[0].Messages[0].Bookmarked {
		t.Fatal("bookmark not cleared")
	}
}

func TestImportMessages(t *testing.T) {
	doc, cid := buildConvoDoc(t)
	rows := []ImportedMessage{
		{Sender: models.SenderMe, Content: "hi", CharacterVersionID: "v-1"},
		{Sender: models.SenderOther, Content: "hey", CharacterVersionID: "v-2"},
	}
	out := ImportMessages(doc, "a", cid, rows)
	msgs := out[0].Conversations[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if msgs[0].ID == "" || msgs[1].ID == "" || msgs[0].ID == msgs[1].ID {
		t.Fatal("imported messages need fresh unique IDs")
	}
	if msgs[1].Sender != models.SenderOther || msgs[1].TextContent() != "hey" {
		t.Fatalf("second message = %+v", msgs[1])
	}

	if got := ImportMessages(doc, "a", cid, nil); &got[0] != &doc[0] {
		t.Fatal("empty batch must be a no-op")
	}
}
