package pairs

import (
	"testing"

	"pairlog/pkg/models"
)

// buildReorderDoc makes one pair with two folders and four conversations:
// c1, c2 at the root, c3 in f1, c4 in f2.
func buildReorderDoc(t *testing.T) ([]models.Pair, map[string]string) {
	t.Helper()
	doc := testDoc("a")
	ids := map[string]string{}
	for _, name := range []string{"f1", "f2"} {
		doc = AddFolder(doc, "a", name, nil)
		ids[name] = doc[0].Folders[len(doc[0].Folders)-1].ID
	}
	for _, title := range []string{"c1", "c2", "c3", "c4"} {
		doc = AddConversation(doc, "a", ConvoDetails{Title: title})
		ids[title] = doc[0].Conversations[len(doc[0].Conversations)-1].ID
	}
	f1, f2 := ids["f1"], ids["f2"]
	doc = MoveConversationToFolder(doc, "a", ids["c3"], &f1)
	doc = MoveConversationToFolder(doc, "a", ids["c4"], &f2)
	return doc, ids
}

func convoByTitle(p models.Pair, title string) models.Conversation {
	for _, c := range p.Conversations {
		if c.Title == title {
			return c
		}
	}
	return models.Conversation{}
}

func TestReorderConversationOntoFolder(t *testing.T) {
	doc, ids := buildReorderDoc(t)
	out := ReorderItems(doc, "a",
		Item{ID: ids["c1"], Type: ItemConversation},
		Item{ID: ids["f1"], Type: ItemFolder})

	c1 := convoByTitle(out[0], "c1")
	if c1.FolderID == nil || *c1.FolderID != ids["f1"] {
		t.Fatal("c1 must adopt the target folder")
	}
	// c1 joined f1 after c3.
	c3 := convoByTitle(out[0], "c3")
	if c3.Order != 0 || c1.Order != 1 {
		t.Fatalf("f1 group orders: c3=%d c1=%d", c3.Order, c1.Order)
	}
	assertDenseOrders(t, out[0])
}

func TestReorderConversationOntoConversation(t *testing.T) {
	doc, ids := buildReorderDoc(t)
	out := ReorderItems(doc, "a",
		Item{ID: ids["c2"], Type: ItemConversation},
		Item{ID: ids["c3"], Type: ItemConversation})

	c2 := convoByTitle(out[0], "c2")
	if c2.FolderID == nil || *c2.FolderID != ids["f1"] {
		t.Fatal("c2 must adopt the drop target's folder")
	}
	c3 := convoByTitle(out[0], "c3")
	if c2.Order != 0 || c3.Order != 1 {
		t.Fatalf("insert-before violated: c2=%d c3=%d", c2.Order, c3.Order)
	}
	assertDenseOrders(t, out[0])
}

func TestReorderConversationOntoRoot(t *testing.T) {
	doc, ids := buildReorderDoc(t)
	out := ReorderItems(doc, "a",
		Item{ID: ids["c3"], Type: ItemConversation},
		Item{Type: ItemRoot})

	c3 := convoByTitle(out[0], "c3")
	if c3.FolderID != nil {
		t.Fatal("c3 must move to the root")
	}
	// Root group is now c1, c2, c3.
	if c3.Order != 2 {
		t.Fatalf("c3 root order = %d", c3.Order)
	}
	assertDenseOrders(t, out[0])
}

func TestReorderFolderOntoFolder(t *testing.T) {
	doc, ids := buildReorderDoc(t)
	out := ReorderItems(doc, "a",
		Item{ID: ids["f2"], Type: ItemFolder},
		Item{ID: ids["f1"], Type: ItemFolder})

	folders := out[0].Folders
	if folders[0].ID != ids["f2"] || folders[1].ID != ids["f1"] {
		t.Fatalf("folder order = %s,%s", folders[0].Name, folders[1].Name)
	}
	if folders[0].Order != 0 || folders[1].Order != 1 {
		t.Fatalf("folder orders = %d,%d", folders[0].Order, folders[1].Order)
	}
}

func TestReorderOntoSelfNoop(t *testing.T) {
	doc, ids := buildReorderDoc(t)
	got := ReorderItems(doc, "a",
		Item{ID: ids["f1"], Type: ItemFolder},
		Item{ID: ids["f1"], Type: ItemFolder})
	if &got[0] != &doc[0] {
		t.Fatal("folder dropped onto itself must be a no-op")
	}
	got = ReorderItems(doc, "a",
		Item{ID: ids["c1"], Type: ItemConversation},
		Item{ID: ids["c1"], Type: ItemConversation})
	if &got[0] != &doc[0] {
		t.Fatal("conversation dropped onto itself must be a no-op")
	}
}

func TestReorderUnknownIDsNoop(t *testing.T) {
	doc, ids := buildReorderDoc(t)
	got := ReorderItems(doc, "a",
		Item{ID: "missing", Type: ItemConversation},
		Item{ID: ids["f1"], Type: ItemFolder})
	if &got[0] != &doc[0] {
		t.Fatal("unknown drag ID must be a no-op")
	}
	got = ReorderItems(doc, "a",
		Item{ID: ids["c1"], Type: ItemConversation},
		Item{ID: "missing", Type: ItemConversation})
	if &got[0] != &doc[0] {
		t.Fatal("unknown drop ID must be a no-op")
	}
}

// assertDenseOrders checks the density invariant: folder orders are 0..n-1
// by position and each folderId sibling group runs 0..m-1 independently.
func assertDenseOrders(t *testing.T, p models.Pair) {
	t.Helper()
	for i, f := range p.Folders {
		if f.Order != i {
			t.Fatalf("folder %s order = %d, want %d", f.Name, f.Order, i)
		}
	}
	next := map[string]int{}
	for _, c := range p.Conversations {
		key := "root"
		if c.FolderID != nil {
			key = *c.FolderID
		}
		if c.Order != next[key] {
			t.Fatalf("conversation %s order = %d, want %d in group %s", c.Title, c.Order, next[key], key)
		}
		next[key]++
	}
}
