package memory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Interaction types mirror how the sales team actually touches an
// account.
const (
	InteractionEmail   = "email"
	InteractionCall    = "call"
	InteractionMeeting = "meeting"
	InteractionDemo    = "demo"
	InteractionNote    = "note"
)

// Sentiment tiers for an interaction.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Interaction is one entry in the append-only interaction log.
type Interaction struct {
	ID         string `json:"interaction_id"`
	CustomerID string `json:"customer_id"`
	DealID     string `json:"deal_id,omitempty"`
	Type       string `json:"interaction_type"`
	Summary    string `json:"summary"`
	Details    string `json:"details,omitempty"`
	Sentiment  string `json:"sentiment"`
	CreatedAt  string `json:"timestamp"`
}

// LogInteractionParams holds the input for recording an interaction.
type LogInteractionParams struct {
	CustomerID string
	DealID     string
	Type       string
	Summary    string
	Details    string
	Sentiment  string
}

func validInteractionType(t string) bool {
	switch t {
	case InteractionEmail, InteractionCall, InteractionMeeting, InteractionDemo, InteractionNote:
		return true
	}
	return false
}

func validSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// LogInteraction appends one interaction to the log. The log is never
// edited or pruned.
func (s *Store) LogInteraction(p LogInteractionParams) (*Interaction, error) {
	if p.CustomerID == "" {
		return nil, fmt.Errorf("memory: customer id is required")
	}
	if !validInteractionType(p.Type) {
		return nil, fmt.Errorf("memory: unknown interaction type %q", p.Type)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, fmt.Errorf("memory: interaction summary is required")
	}
	if p.Sentiment == "" {
		p.Sentiment = SentimentNeutral
	}
	if !validSentiment(p.Sentiment) {
		return nil, fmt.Errorf("memory: unknown sentiment %q", p.Sentiment)
	}

	in := &Interaction{
		ID:         "INT-" + uuid.NewString(),
		CustomerID: p.CustomerID,
		DealID:     p.DealID,
		Type:       p.Type,
		Summary:    p.Summary,
		Details:    p.Details,
		Sentiment:  p.Sentiment,
		CreatedAt:  stamp(),
	}

	_, err := s.db.Exec(`
		INSERT INTO interactions (id, customer_id, deal_id, type, summary, details, sentiment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.CustomerID, in.DealID, in.Type, in.Summary, in.Details, in.Sentiment, in.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("memory: log interaction: %w", err)
	}
	return in, nil
}

const interactionColumns = `id, customer_id, deal_id, type, summary, details, sentiment, created_at`

// RecentInteractions returns up to limit interactions for the customer,
// newest first.
func (s *Store) RecentInteractions(customerID string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT `+interactionColumns+` FROM interactions
		WHERE customer_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("memory: recent interactions: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// DealInteractions returns every interaction logged against the deal,
// oldest first.
func (s *Store) DealInteractions(dealID string) ([]Interaction, error) {
	rows, err := s.db.Query(`
		SELECT `+interactionColumns+` FROM interactions
		WHERE deal_id = ?
		ORDER BY created_at, rowid`, dealID)
	if err != nil {
		return nil, fmt.Errorf("memory: deal interactions: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanInteractions(rows rowsScanner) ([]Interaction, error) {
	var out []Interaction
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(&in.ID, &in.CustomerID, &in.DealID, &in.Type,
			&in.Summary, &in.Details, &in.Sentiment, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("memory: scan interaction: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
