package conversation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
)

func TestLog_AppendAndHistory(t *testing.T) {
	log := NewLog()

	log.Append(models.ChatRoleUser, "show top customers")
	log.Append(models.ChatRoleAssistant, "SELECT * FROM customers")

	history := log.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.Role != models.ChatRoleAssistant || last.Content != "SELECT * FROM customers" {
		t.Errorf("last message = %+v, want assistant/SELECT", last)
	}
}

func TestLog_RoundTrip(t *testing.T) {
	log := NewLog()
	log.Append(models.ChatRoleUser, "exact text, unmodified")

	history := log.History()
	got := history[len(history)-1]
	if got.Role != models.ChatRoleUser {
		t.Errorf("role = %q, want %q", got.Role, models.ChatRoleUser)
	}
	if got.Content != "exact text, unmodified" {
		t.Errorf("content = %q, want original text", got.Content)
	}
}

func TestLog_NoAlternationEnforcement(t *testing.T) {
	log := NewLog()

	// Consecutive same-role appends and arbitrary role values are accepted.
	log.Append(models.ChatRoleUser, "first")
	log.Append(models.ChatRoleUser, "second")
	log.Append(models.ChatRole("tool"), "third")

	if log.Len() != 3 {
		t.Errorf("Len() = %d, want 3", log.Len())
	}
}

func TestLog_ClearIsIdempotent(t *testing.T) {
	log := NewLog()
	log.Append(models.ChatRoleUser, "something")

	log.Clear()
	if len(log.History()) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(log.History()))
	}

	log.Clear()
	if len(log.History()) != 0 {
		t.Fatalf("expected empty history after second clear, got %d", len(log.History()))
	}
}

func TestLog_HistoryIsDefensiveCopy(t *testing.T) {
	log := NewLog()
	log.Append(models.ChatRoleUser, "original")

	history := log.History()
	history[0].Content = "mutated"

	if got := log.History()[0].Content; got != "original" {
		t.Errorf("internal state mutated through History() copy: %q", got)
	}
}

func TestStore_GetCreatesPerSession(t *testing.T) {
	store := NewStore()
	a := uuid.New()
	b := uuid.New()

	store.Get(a).Append(models.ChatRoleUser, "session a")

	if got := store.Get(a); got.Len() != 1 {
		t.Errorf("session a Len() = %d, want 1", got.Len())
	}
	if got := store.Get(b); got.Len() != 0 {
		t.Errorf("session b Len() = %d, want 0", got.Len())
	}
	if store.Get(a) != store.Get(a) {
		t.Error("Get returned different logs for the same session")
	}
}

func TestStore_Remove(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	store.Get(id).Append(models.ChatRoleUser, "soon gone")
	store.Remove(id)

	if got := store.Get(id).Len(); got != 0 {
		t.Errorf("Len() after Remove = %d, want 0", got)
	}
}
