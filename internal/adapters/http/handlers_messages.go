package web

import (
	"errors"
	"net/http"
	"time"

	"genesis/internal/adapters/http/middleware"
	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
	"genesis/internal/domain/message"
)

func sendMessageDeps() orchestrators.SendMessageDeps {
	return orchestrators.SendMessageDeps{
		MessageStore:    stores.MessageStore,
		AccountStore:    stores.AccountStore,
		PreferenceStore: stores.PreferenceStore,
		OutboxStore:     stores.OutboxStore,
	}
}

// messagePayload is the JSON shape shared by the polling API and the
// websocket push, so clients handle both paths with one decoder.
type messagePayload struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessagePayload(m message.Message) messagePayload {
	return messagePayload{
		ID:        m.ID,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Subject:   m.Subject,
		Body:      m.Body,
		Read:      m.IsRead(),
		CreatedAt: m.CreatedAt,
	}
}

// handleMessages renders the inbox and accepts new messages (GET/POST /messages).
func handleMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		inbox, err := stores.MessageStore.ListByRecipient(ctx, sess.Username)
		if err != nil {
			internalError(w, err)
			return
		}
		sent, err := stores.MessageStore.ListBySender(ctx, sess.Username)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "messages.html", map[string]any{
			"Inbox": inbox,
			"Sent":  sent,
		})

	case "POST":
		input := orchestrators.SendMessageInput{
			Sender:    sess.Username,
			Recipient: r.FormValue("Recipient"),
			Subject:   r.FormValue("Subject"),
			Body:      r.FormValue("Body"),
		}
		id, err := orchestrators.ExecuteSendMessage(ctx, input, sendMessageDeps())
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, orchestrators.ErrRecipientNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		recordAudit(r, audit.CategoryMessage, audit.ActionCreate, audit.SeverityInfo,
			"sent message to "+input.Recipient)

		if msg, err := stores.MessageStore.GetByID(ctx, id); err == nil {
			messageHub.Push(msg.Recipient, toMessagePayload(msg))
		}
		http.Redirect(w, r, "/messages", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMessagesAPI serves the polling feed (GET /api/messages?since=RFC3339).
// Without a cursor it returns the whole inbox, newest first.
func handleMessagesAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()

	var (
		msgs []message.Message
		err  error
	)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, parseErr := time.Parse(time.RFC3339Nano, sinceStr)
		if parseErr != nil {
			http.Error(w, "since must be an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
		msgs, err = stores.MessageStore.ListByRecipientSince(ctx, sess.Username, since)
	} else {
		msgs, err = stores.MessageStore.ListByRecipient(ctx, sess.Username)
	}
	if err != nil {
		internalError(w, err)
		return
	}

	payloads := make([]messagePayload, 0, len(msgs))
	for _, m := range msgs {
		payloads = append(payloads, toMessagePayload(m))
	}
	unread, err := stores.MessageStore.CountUnread(ctx, sess.Username)
	if err != nil {
		unread = 0
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": payloads,
		"unread":   unread,
	})
}

// handleMessageReadAPI marks one inbox message as read (POST /api/messages/read).
func handleMessageReadAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()

	var req struct {
		MessageID string `json:"message_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MessageID == "" {
		http.Error(w, "message_id is required", http.StatusBadRequest)
		return
	}

	msg, err := stores.MessageStore.GetByID(ctx, req.MessageID)
	if err != nil {
		http.Error(w, "Message not found", http.StatusNotFound)
		return
	}
	// Only the recipient can mark their own mail read.
	if msg.Recipient != sess.Username {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	msg.MarkRead()
	if err := stores.MessageStore.Save(ctx, msg); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessagePayload(msg))
}
