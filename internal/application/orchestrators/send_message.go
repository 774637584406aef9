package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"genesis/internal/domain/account"
	"genesis/internal/domain/message"
	"genesis/internal/domain/outbox"
	"genesis/internal/domain/preference"

	"github.com/google/uuid"
)

// MessageStoreForSend defines the store interface needed by SendMessage.
type MessageStoreForSend interface {
	Save(ctx context.Context, m message.Message) error
}

// AccountStoreForSend resolves recipients by username.
type AccountStoreForSend interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
}

// PreferenceStoreForSend loads the recipient's notification settings.
type PreferenceStoreForSend interface {
	GetByUsername(ctx context.Context, username string) (preference.Preferences, error)
}

// OutboxStoreForSend enqueues notification deliveries.
type OutboxStoreForSend interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// SendMessageInput carries input for the send-message orchestrator.
type SendMessageInput struct {
	Sender    string
	Recipient string
	Subject   string
	Body      string
}

// SendMessageDeps holds dependencies for SendMessage.
type SendMessageDeps struct {
	MessageStore    MessageStoreForSend
	AccountStore    AccountStoreForSend
	PreferenceStore PreferenceStoreForSend
	OutboxStore     OutboxStoreForSend
}

var ErrRecipientNotFound = errors.New("recipient does not exist")

// ExecuteSendMessage validates and persists a direct message. If the
// recipient has notification emails enabled, a delivery entry is enqueued on
// the outbox; outbox failures do not fail the send.
// PRE: Sender is an authenticated username
// POST: Message is persisted; notification enqueued when the recipient opted in
// INVARIANT: A user cannot message themselves
func ExecuteSendMessage(ctx context.Context, input SendMessageInput, deps SendMessageDeps) (string, error) {
	if _, err := deps.AccountStore.GetByUsername(ctx, input.Recipient); err != nil {
		return "", ErrRecipientNotFound
	}

	msg := message.Message{
		ID:        uuid.New().String(),
		Sender:    input.Sender,
		Recipient: input.Recipient,
		Subject:   input.Subject,
		Body:      input.Body,
		CreatedAt: time.Now(),
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}

	if err := deps.MessageStore.Save(ctx, msg); err != nil {
		return "", fmt.Errorf("save message: %w", err)
	}

	slog.Info("message_event", "event", "message_sent", "sender", input.Sender, "recipient", input.Recipient)

	enqueueMessageNotification(ctx, msg, deps)
	return msg.ID, nil
}

// enqueueMessageNotification adds an email notification to the outbox when the
// recipient wants one. Errors are logged, not propagated.
func enqueueMessageNotification(ctx context.Context, msg message.Message, deps SendMessageDeps) {
	if deps.PreferenceStore == nil || deps.OutboxStore == nil {
		return
	}

	prefs, err := deps.PreferenceStore.GetByUsername(ctx, msg.Recipient)
	if err != nil || !prefs.WantsEmail() {
		return
	}

	payload, err := json.Marshal(EmailPayload{
		To:      prefs.NotificationEmail,
		Subject: fmt.Sprintf("New message from %s", msg.Sender),
		Body:    fmt.Sprintf("You have a new message on Genesis: %s", msg.Subject),
	})
	if err != nil {
		slog.Error("message_event", "event", "notify_marshal_failed", "error", err.Error())
		return
	}

	entry := outbox.Entry{
		ID:          uuid.New().String(),
		ActionType:  outbox.ActionTypeEmail,
		Payload:     string(payload),
		Status:      outbox.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   time.Now(),
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		slog.Error("message_event", "event", "notify_enqueue_failed", "error", err.Error())
	}
}
