package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"genesis/internal/domain/account"
	"genesis/internal/domain/message"
	"genesis/internal/domain/outbox"
	"genesis/internal/domain/preference"
)

type mockMessageStore struct {
	saved   []message.Message
	saveErr error
}

func (m *mockMessageStore) Save(_ context.Context, msg message.Message) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, msg)
	return nil
}

type mockPreferenceStore struct {
	prefs map[string]preference.Preferences
}

func (m *mockPreferenceStore) GetByUsername(_ context.Context, username string) (preference.Preferences, error) {
	p, ok := m.prefs[username]
	if !ok {
		return preference.Preferences{}, errors.New("not found")
	}
	return p, nil
}

type mockOutboxSaver struct {
	entries []outbox.Entry
	saveErr error
}

func (m *mockOutboxSaver) Save(_ context.Context, e outbox.Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func sendDeps(t *testing.T) (SendMessageDeps, *mockMessageStore, *mockOutboxSaver) {
	t.Helper()
	messages := &mockMessageStore{}
	outboxSaver := &mockOutboxSaver{}
	accounts := newMockAccountStore(
		activeAccount(t, "acc-1", "alice", account.RoleUser, "longenough"),
		activeAccount(t, "acc-2", "bob", account.RoleUser, "longenough"),
	)
	return SendMessageDeps{
		MessageStore:    messages,
		AccountStore:    accounts,
		PreferenceStore: &mockPreferenceStore{prefs: map[string]preference.Preferences{}},
		OutboxStore:     outboxSaver,
	}, messages, outboxSaver
}

// TestExecuteSendMessage_Valid tests persisting a message between two users.
func TestExecuteSendMessage_Valid(t *testing.T) {
	deps, messages, outboxSaver := sendDeps(t)

	id, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "bob",
		Subject:   "Hello",
		Body:      "First message",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty message ID")
	}
	if len(messages.saved) != 1 {
		t.Fatalf("expected 1 saved message, got %d", len(messages.saved))
	}
	if messages.saved[0].Recipient != "bob" {
		t.Errorf("expected recipient=bob, got %s", messages.saved[0].Recipient)
	}
	// Recipient has no notification preference, so nothing is queued
	if len(outboxSaver.entries) != 0 {
		t.Errorf("expected no outbox entries, got %d", len(outboxSaver.entries))
	}
}

// TestExecuteSendMessage_RecipientNotFound tests the unknown-recipient path.
func TestExecuteSendMessage_RecipientNotFound(t *testing.T) {
	deps, _, _ := sendDeps(t)

	_, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "ghost",
		Body:      "anyone there?",
	}, deps)
	if !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("expected ErrRecipientNotFound, got %v", err)
	}
}

// TestExecuteSendMessage_SelfMessage tests the no-self-messaging invariant.
func TestExecuteSendMessage_SelfMessage(t *testing.T) {
	deps, _, _ := sendDeps(t)

	_, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "alice",
		Body:      "note to self",
	}, deps)
	if !errors.Is(err, message.ErrSelfMessage) {
		t.Errorf("expected ErrSelfMessage, got %v", err)
	}
}

// TestExecuteSendMessage_EmptyBody tests that a blank body is rejected.
func TestExecuteSendMessage_EmptyBody(t *testing.T) {
	deps, _, _ := sendDeps(t)

	_, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "bob",
	}, deps)
	if !errors.Is(err, message.ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

// TestExecuteSendMessage_EnqueuesNotification tests that opted-in recipients
// get an email queued on the outbox.
func TestExecuteSendMessage_EnqueuesNotification(t *testing.T) {
	deps, _, outboxSaver := sendDeps(t)
	deps.PreferenceStore = &mockPreferenceStore{prefs: map[string]preference.Preferences{
		"bob": {
			Username:          "bob",
			Theme:             preference.ThemeSystem,
			FontFamily:        preference.FontDefault,
			Notifications:     true,
			NotificationEmail: "bob@example.com",
		},
	}}

	_, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "bob",
		Subject:   "Heads up",
		Body:      "Check the dashboard",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outboxSaver.entries) != 1 {
		t.Fatalf("expected 1 outbox entry, got %d", len(outboxSaver.entries))
	}
	entry := outboxSaver.entries[0]
	if entry.ActionType != outbox.ActionTypeEmail {
		t.Errorf("expected action type=email, got %s", entry.ActionType)
	}
	var payload EmailPayload
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.To != "bob@example.com" {
		t.Errorf("expected To=bob@example.com, got %s", payload.To)
	}
	if !strings.Contains(payload.Subject, "alice") {
		t.Errorf("expected subject to name the sender, got %q", payload.Subject)
	}
}

// TestExecuteSendMessage_OutboxFailureDoesNotFailSend tests that a broken
// outbox never loses the message itself.
func TestExecuteSendMessage_OutboxFailureDoesNotFailSend(t *testing.T) {
	deps, messages, outboxSaver := sendDeps(t)
	outboxSaver.saveErr = errors.New("disk full")
	deps.PreferenceStore = &mockPreferenceStore{prefs: map[string]preference.Preferences{
		"bob": {
			Username:          "bob",
			Notifications:     true,
			NotificationEmail: "bob@example.com",
		},
	}}

	_, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "bob",
		Body:      "still delivered",
	}, deps)
	if err != nil {
		t.Fatalf("expected send to succeed despite outbox failure, got %v", err)
	}
	if len(messages.saved) != 1 {
		t.Errorf("expected message persisted, got %d", len(messages.saved))
	}
}

// TestExecuteSendMessage_NilNotificationDeps tests that missing notification
// stores are tolerated.
func TestExecuteSendMessage_NilNotificationDeps(t *testing.T) {
	deps, _, _ := sendDeps(t)
	deps.PreferenceStore = nil
	deps.OutboxStore = nil

	_, err := ExecuteSendMessage(context.Background(), SendMessageInput{
		Sender:    "alice",
		Recipient: "bob",
		Body:      "no notifications configured",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
