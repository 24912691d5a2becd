package pairs

import (
	"errors"
	"testing"

	"pairlog/pkg/models"
)

func TestAddAndCloneCharacterVersion(t *testing.T) {
	doc := testDoc("a")
	doc = AddCharacterVersion(doc, "a", RoleMe, "v2", "user2")
	me := doc[0].Characters.Me
	if len(me) != 2 || me[1].Name != "v2" {
		t.Fatalf("me versions = %+v", me)
	}

	doc = CloneCharacterVersion(doc, "a", RoleMe, me[1].ID)
	me = doc[0].Characters.Me
	if len(me) != 3 {
		t.Fatalf("me versions after clone = %d", len(me))
	}
	clone := me[2]
	if clone.ID == me[1].ID {
		t.Fatal("clone must get a fresh ID")
	}
	if clone.Name != "v2 (복제)" {
		t.Fatalf("clone name = %q", clone.Name)
	}
}

func TestDeleteCharacterVersionFloor(t *testing.T) {
	doc := testDoc("a")
	onlyID := doc[0].Characters.Other[0].ID

	_, err := DeleteCharacterVersion(doc, "a", RoleOther, onlyID)
	if !errors.Is(err, ErrLastVersion) {
		t.Fatalf("err = %v, want ErrLastVersion", err)
	}

	doc = AddCharacterVersion(doc, "a", RoleOther, "extra", "u")
	out, err := DeleteCharacterVersion(doc, "a", RoleOther, onlyID)
	if err != nil {
		t.Fatalf("delete with two versions: %v", err)
	}
	if len(out[0].Characters.Other) != 1 || out[0].Characters.Other[0].Name != "extra" {
		t.Fatalf("other versions = %+v", out[0].Characters.Other)
	}

	// Unknown ID: silent no-op, no error.
	got, err := DeleteCharacterVersion(doc, "a", RoleOther, "missing")
	if err != nil || &got[0] != &doc[0] {
		t.Fatalf("unknown version: changed=%v err=%v", &got[0] != &doc[0], err)
	}
}

func TestUpdateCharacterVersion(t *testing.T) {
	doc := testDoc("a")
	id := doc[0].Characters.Me[0].ID
	name := "renamed"
	out := UpdateCharacterVersion(doc, "a", RoleMe, id, VersionUpdate{
		Name: &name,
		Tags: []string{},
	})
	v := out[0].Characters.Me[0]
	if v.Name != "renamed" {
		t.Fatalf("name = %q", v.Name)
	}
	if v.Username != "user_a" {
		t.Fatal("unset fields must be left as-is")
	}
	if v.Tags == nil || len(v.Tags) != 0 {
		t.Fatal("non-nil empty tags must clear the list")
	}
}

func TestReplaceCharacters(t *testing.T) {
	doc := testDoc("a")
	_, err := ReplaceCharacters(doc, "a", models.Characters{
		Me: []models.CharacterVersion{}, Other: doc[0].Characters.Other,
	})
	if !errors.Is(err, ErrLastVersion) {
		t.Fatalf("empty role must reject: %v", err)
	}

	repl := models.Characters{
		Me:    []models.CharacterVersion{models.NewDefaultCharacterVersion("M", "m")},
		Other: []models.CharacterVersion{models.NewDefaultCharacterVersion("O", "o")},
	}
	out, err := ReplaceCharacters(doc, "a", repl)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if out[0].Characters.Me[0].Name != "M" {
		t.Fatalf("characters = %+v", out[0].Characters)
	}
}

func TestResolveVersionFallback(t *testing.T) {
	doc := testDoc("a")
	p := doc[0]

	v, ok := ResolveVersion(p, models.SenderMe, p.Characters.Me[0].ID)
	if !ok || v.ID != p.Characters.Me[0].ID {
		t.Fatal("exact version must resolve")
	}

	// A deleted version ID falls back to the role's first version.
	v, ok = ResolveVersion(p, models.SenderOther, "v-deleted")
	if !ok || v.ID != p.Characters.Other[0].ID {
		t.Fatal("unknown version must fall back to the first of the role")
	}

	empty := models.Pair{}
	if _, ok := ResolveVersion(empty, models.SenderMe, "any"); ok {
		t.Fatal("a role with no versions cannot resolve")
	}
}
