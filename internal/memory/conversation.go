package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrConversationNotFound is returned for unknown conversation ids.
var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is one qualification or discovery session with a
// customer. A conversation with no ended_at is active.
type Conversation struct {
	ID         string  `json:"conversation_id"`
	CustomerID string  `json:"customer_id"`
	DealID     string  `json:"deal_id,omitempty"`
	StartedAt  string  `json:"started_at"`
	EndedAt    *string `json:"ended_at,omitempty"`
	Summary    *string `json:"summary,omitempty"`
}

// Message is one role-tagged turn inside a conversation.
type Message struct {
	ID             int64  `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	CreatedAt      string `json:"timestamp"`
}

// StartConversation opens a new session for the customer.
func (s *Store) StartConversation(customerID, dealID string) (*Conversation, error) {
	if customerID == "" {
		return nil, fmt.Errorf("memory: customer id is required")
	}

	c := &Conversation{
		ID:         "CONV-" + uuid.NewString(),
		CustomerID: customerID,
		DealID:     dealID,
		StartedAt:  stamp(),
	}
	_, err := s.db.Exec(`
		INSERT INTO conversations (id, customer_id, deal_id, started_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.CustomerID, c.DealID, c.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("memory: start conversation: %w", err)
	}
	return c, nil
}

// ActiveConversation returns the customer's open session, or
// ErrConversationNotFound if every session has ended.
func (s *Store) ActiveConversation(customerID string) (*Conversation, error) {
	row := s.db.QueryRow(`
		SELECT id, customer_id, deal_id, started_at, ended_at, summary
		FROM conversations
		WHERE customer_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1`, customerID)

	var c Conversation
	err := row.Scan(&c.ID, &c.CustomerID, &c.DealID, &c.StartedAt, &c.EndedAt, &c.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no active conversation for %q", ErrConversationNotFound, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("memory: active conversation: %w", err)
	}
	return &c, nil
}

// AddMessage appends a turn to the customer's active conversation,
// starting one if necessary.
func (s *Store) AddMessage(customerID, dealID, role, content string) (*Message, error) {
	if role != "user" && role != "agent" {
		return nil, fmt.Errorf("memory: unknown message role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("memory: message content is required")
	}

	conv, err := s.ActiveConversation(customerID)
	if errors.Is(err, ErrConversationNotFound) {
		conv, err = s.StartConversation(customerID, dealID)
	}
	if err != nil {
		return nil, err
	}

	m := &Message{
		ConversationID: conv.ID,
		Role:           role,
		Content:        content,
		CreatedAt:      stamp(),
	}
	res, err := s.db.Exec(`
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		m.ConversationID, m.Role, m.Content, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("memory: add message: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return m, nil
}

// EndConversation closes the session with an optional summary.
func (s *Store) EndConversation(conversationID, summary string) error {
	res, err := s.db.Exec(`
		UPDATE conversations SET ended_at = ?, summary = ?
		WHERE id = ? AND ended_at IS NULL`,
		stamp(), summary, conversationID)
	if err != nil {
		return fmt.Errorf("memory: end conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrConversationNotFound, conversationID)
	}
	return nil
}

// RecentContext returns the last n messages of the customer's most
// recent conversation (active first, else the latest ended one), oldest
// first — the shape the qualification evaluator expects.
func (s *Store) RecentContext(customerID string, n int) ([]Message, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := s.db.Query(`
		SELECT m.id, m.conversation_id, m.role, m.content, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.id = (
			SELECT id FROM conversations
			WHERE customer_id = ?
			ORDER BY (ended_at IS NULL) DESC, started_at DESC LIMIT 1
		)
		ORDER BY m.id DESC LIMIT ?`, customerID, n)
	if err != nil {
		return nil, fmt.Errorf("memory: recent context: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("memory: scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// FormatContext renders messages as the plain transcript handed to the
// qualification evaluator.
func FormatContext(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := "User"
		if m.Role == "agent" {
			role = "Agent"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	return b.String()
}
