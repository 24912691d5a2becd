package pairs

import (
	"testing"

	"pairlog/pkg/models"
)

func testDoc(ids ...string) []models.Pair {
	doc := []models.Pair{}
	for _, id := range ids {
		doc = append(doc, models.Pair{
			ID:            id,
			Title:         "pair " + id,
			Tags:          []string{},
			Characters:    models.DefaultCharacters(),
			Folders:       []models.Folder{},
			Conversations: []models.Conversation{},
			SlideImages:   []string{},
		})
	}
	return doc
}

func TestCreatePairDefaults(t *testing.T) {
	doc := CreatePair(nil, PairDetails{Title: "first"})
	if len(doc) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(doc))
	}
	p := doc[0]
	if p.ID == "" {
		t.Fatal("pair ID not generated")
	}
	if p.Title != "first" {
		t.Fatalf("title = %q", p.Title)
	}
	if p.Tags == nil || p.Folders == nil || p.Conversations == nil || p.SlideImages == nil {
		t.Fatal("collection fields must be empty, not nil")
	}
	if len(p.Characters.Me) != 1 || len(p.Characters.Other) != 1 {
		t.Fatalf("expected one default version per role, got %d/%d", len(p.Characters.Me), len(p.Characters.Other))
	}
	if p.Characters.Me[0].Name != "A 캐릭터" || p.Characters.Other[0].Name != "B 캐릭터" {
		t.Fatalf("default names = %q/%q", p.Characters.Me[0].Name, p.Characters.Other[0].Name)
	}
	if p.Theme["name"] != "Clean Light" {
		t.Fatalf("default theme name = %v", p.Theme["name"])
	}
}

func TestCreatePairThemeOverlay(t *testing.T) {
	doc := CreatePair(nil, PairDetails{Title: "x", Theme: map[string]any{"appBg": "#000000"}})
	th := doc[0].Theme
	if th["appBg"] != "#000000" {
		t.Fatalf("overlay not applied: appBg = %v", th["appBg"])
	}
	if th["chatBg"] != "#FFFFFF" {
		t.Fatalf("default keys must survive overlay: chatBg = %v", th["chatBg"])
	}
}

func TestDeletePair(t *testing.T) {
	doc := testDoc("a", "b", "c")
	out := DeletePair(doc, "b")
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("unexpected result after delete: %+v", out)
	}
	if got := DeletePair(doc, "nope"); &got[0] != &doc[0] {
		t.Fatal("unknown ID must return the input document unchanged")
	}
	if len(doc) != 3 {
		t.Fatal("input document was mutated")
	}
}

func TestUpdatePairDetails(t *testing.T) {
	doc := testDoc("a")
	out := UpdatePairDetails(doc, "a", "renamed", nil)
	if out[0].Title != "renamed" {
		t.Fatalf("title = %q", out[0].Title)
	}
	if out[0].Tags == nil {
		t.Fatal("nil tags must normalize to empty")
	}
	if doc[0].Title != "pair a" {
		t.Fatal("input document was mutated")
	}
}

func TestReorderPairs(t *testing.T) {
	doc := testDoc("a", "b", "c", "d")

	out := ReorderPairs(doc, "d", "b")
	got := idsOf(out)
	want := []string{"a", "d", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	out = ReorderPairs(doc, "a", "c")
	got = idsOf(out)
	want = []string{"b", "a", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	if got := ReorderPairs(doc, "a", "missing"); &got[0] != &doc[0] {
		t.Fatal("unknown target must be a no-op")
	}
	if got := ReorderPairs(doc, "a", "a"); &got[0] != &doc[0] {
		t.Fatal("self-drop must be a no-op")
	}
}

func TestSlideImages(t *testing.T) {
	doc := testDoc("a")
	doc = AddSlideImage(doc, "a", "blob-1")
	doc = AddSlideImage(doc, "a", "blob-2")
	if len(doc[0].SlideImages) != 2 {
		t.Fatalf("slides = %v", doc[0].SlideImages)
	}
	doc = DeleteSlideImage(doc, "a", "blob-1")
	if len(doc[0].SlideImages) != 1 || doc[0].SlideImages[0] != "blob-2" {
		t.Fatalf("slides after delete = %v", doc[0].SlideImages)
	}
	if got := DeleteSlideImage(doc, "a", "blob-1"); &got[0] != &doc[0] {
		t.Fatal("deleting an absent slide must be a no-op")
	}
}

func idsOf(doc []models.Pair) []string {
	out := make([]string, len(doc))
	for i := range doc {
		out[i] = doc[i].ID
	}
	return out
}
