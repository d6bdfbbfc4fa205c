package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "pouch.db")

	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	defer kv.Close()

	if _, found, err := kv.Get(ctx, CollectionExpenses); err != nil || found {
		t.Fatalf("Get on empty store = found %v, err %v", found, err)
	}

	doc := []byte(`[{"id":"exp_1"}]`)
	if err := kv.Put(ctx, CollectionExpenses, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := kv.Get(ctx, CollectionExpenses)
	if err != nil || !found {
		t.Fatalf("Get after put = found %v, err %v", found, err)
	}
	if string(got) != string(doc) {
		t.Errorf("Get = %s, want %s", got, doc)
	}

	// Overwrite replaces the document.
	if err := kv.Put(ctx, CollectionExpenses, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, _, err = kv.Get(ctx, CollectionExpenses)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[]` {
		t.Errorf("Get after overwrite = %s", got)
	}

	if err := kv.Delete(ctx, CollectionExpenses); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := kv.Get(ctx, CollectionExpenses); found {
		t.Error("key still present after delete")
	}

	// Deleting an absent key is not an error.
	if err := kv.Delete(ctx, "never_written"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestSQLiteKV_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "pouch.db")

	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, CollectionPool, []byte(`{"amount":700,"history":[]}`)); err != nil {
		t.Fatal(err)
	}
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	kv, err = NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()

	got, found, err := kv.Get(ctx, CollectionPool)
	if err != nil || !found {
		t.Fatalf("Get after reopen = found %v, err %v", found, err)
	}
	if string(got) != `{"amount":700,"history":[]}` {
		t.Errorf("Get after reopen = %s", got)
	}
}
