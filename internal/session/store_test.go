package session

import (
	"errors"
	"testing"

	"docuchat/internal/domain"
)

func TestMemoryStore_Create(t *testing.T) {
	store := NewMemoryStore()

	sess := store.Create("Quarterly invoices")
	if sess.ID == "" {
		t.Fatal("expected generated session id")
	}
	if sess.Title != "Quarterly invoices" {
		t.Errorf("got title %q", sess.Title)
	}
	if len(sess.Messages) != 0 {
		t.Errorf("expected empty history, got %d messages", len(sess.Messages))
	}

	other := store.Create("")
	if other.Title != "New Chat" {
		t.Errorf("expected default title, got %q", other.Title)
	}
	if other.ID == sess.ID {
		t.Error("expected unique session ids")
	}
}

func TestMemoryStore_AppendOrdering(t *testing.T) {
	store := NewMemoryStore()
	sess := store.Create("")

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		if err := store.Append(sess.ID, domain.Message{Role: domain.RoleUser, Content: c}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("session disappeared")
	}
	if len(got.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got.Messages))
	}
	for i, c := range contents {
		if got.Messages[i].Content != c {
			t.Errorf("message %d = %q, want %q", i, got.Messages[i].Content, c)
		}
		if got.Messages[i].ID == "" || got.Messages[i].Timestamp.IsZero() {
			t.Errorf("message %d missing id or timestamp", i)
		}
	}
}

func TestMemoryStore_AppendUnknownSession(t *testing.T) {
	store := NewMemoryStore()
	err := store.Append("nope", domain.Message{Role: domain.RoleUser, Content: "hi"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	sess := store.Create("")
	store.Append(sess.ID, domain.Message{Role: domain.RoleUser, Content: "original"})

	got, _ := store.Get(sess.ID)
	got.Messages[0].Content = "tampered"
	got.Messages = append(got.Messages, domain.Message{Role: domain.RoleAssistant, Content: "extra"})

	fresh, _ := store.Get(sess.ID)
	if len(fresh.Messages) != 1 || fresh.Messages[0].Content != "original" {
		t.Error("stored history was mutated through the returned copy")
	}
}

func TestMemoryStore_ListAndDelete(t *testing.T) {
	store := NewMemoryStore()
	a := store.Create("a")
	b := store.Create("b")
	store.Append(b.ID, domain.Message{Role: domain.RoleUser, Content: "hi"})

	summaries := store.List()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(summaries))
	}
	// b was updated last, so it lists first.
	if summaries[0].SessionID != b.ID || summaries[0].MessageCount != 1 {
		t.Errorf("unexpected ordering: %+v", summaries)
	}

	if !store.Delete(a.ID) {
		t.Error("expected delete to succeed")
	}
	if store.Delete(a.ID) {
		t.Error("expected second delete to report unknown id")
	}
	if _, ok := store.Get(a.ID); ok {
		t.Error("session still retrievable after delete")
	}
}
