package store

import (
	"context"
	"errors"
	"testing"
)

func openTemp(t *testing.T) {
	t.Helper()
	if err := Open(t.TempDir()); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
}

func TestMetaRoundTrip(t *testing.T) {
	openTemp(t)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := SaveJSON("test-key", doc{Name: "x", Count: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out doc
	if !LoadJSON("test-key", &out) {
		t.Fatal("load returned false")
	}
	if out.Name != "x" || out.Count != 3 {
		t.Fatalf("out = %+v", out)
	}
}

func TestLoadJSONMissingKey(t *testing.T) {
	openTemp(t)

	out := map[string]string{"pre": "filled"}
	if LoadJSON("absent", &out) {
		t.Fatal("missing key must return false")
	}
	if out["pre"] != "filled" {
		t.Fatal("missing key must leave out untouched")
	}
}

func TestLoadJSONCorruptValue(t *testing.T) {
	openTemp(t)

	if err := SaveMeta("broken", []byte("{not json")); err != nil {
		t.Fatalf("save meta: %v", err)
	}
	var out map[string]any
	if LoadJSON("broken", &out) {
		t.Fatal("corrupt value must read as absent")
	}
}

func TestBlobLifecycle(t *testing.T) {
	openTemp(t)
	ctx := context.Background()

	payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x00, 0x01}
	id, err := PutBlob(ctx, payload)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if id == "" {
		t.Fatal("empty blob ID")
	}

	got, err := GetBlob(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %v", got)
	}

	ids, err := ListBlobIDs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("ids = %v", ids)
	}

	if err := DeleteBlob(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetBlob(ctx, id); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("get after delete = %v, want ErrBlobNotFound", err)
	}
	// Idempotent: deleting again is not an error.
	if err := DeleteBlob(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestBlobAndMetaNamespacesDisjoint(t *testing.T) {
	openTemp(t)
	ctx := context.Background()

	if err := SaveMeta("pair-chat-data", []byte(`[]`)); err != nil {
		t.Fatalf("save meta: %v", err)
	}
	if _, err := PutBlob(ctx, []byte("x")); err != nil {
		t.Fatalf("put blob: %v", err)
	}
	ids, err := ListBlobIDs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("meta keys leaked into blob listing: %v", ids)
	}
	keys, err := ListMetaKeys()
	if err != nil {
		t.Fatalf("list meta: %v", err)
	}
	if len(keys) != 1 || keys[0] != "pair-chat-data" {
		t.Fatalf("meta keys = %v", keys)
	}
}

func TestReadyReflectsOpenState(t *testing.T) {
	if Ready() {
		t.Fatal("ready before open")
	}
	openTemp(t)
	if !Ready() {
		t.Fatal("not ready after open")
	}
}
