// Package voting implements the topic registry, the session lifecycle, and
// the vote ledger with its on-demand tally.
package voting

import "time"

// Choice is a member's position on a topic.
type Choice string

const (
	ChoiceAffirm Choice = "AFFIRM"
	ChoiceReject Choice = "REJECT"
)

// ValidChoice reports whether c is one of the two accepted values.
func ValidChoice(c Choice) bool {
	return c == ChoiceAffirm || c == ChoiceReject
}

// Topic is a matter submitted for a vote. Immutable once created.
type Topic struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is the single time-boxed voting window of a topic. There is no
// status field: a session is open exactly while now < ClosesAt, derived on
// every read.
type Session struct {
	ID       string    `json:"id"`
	TopicID  string    `json:"topic_id"`
	OpenedAt time.Time `json:"opened_at"`
	ClosesAt time.Time `json:"closes_at"`
}

// Open reports whether the session still accepts votes at the given instant.
func (s Session) Open(now time.Time) bool {
	return now.Before(s.ClosesAt)
}

// Vote is one member's recorded choice. CPF is stored as bare digits; at
// most one vote exists per (session, CPF) pair.
type Vote struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	TopicID   string    `json:"topic_id"`
	CPF       string    `json:"cpf"`
	Choice    Choice    `json:"choice"`
	CreatedAt time.Time `json:"created_at"`
}

// Tally is the aggregate result of a session, recomputed from the vote set on
// every request and never cached.
type Tally struct {
	SessionID string `json:"session_id"`
	TopicID   string `json:"topic_id"`
	Total     int    `json:"total"`
	Affirm    int    `json:"affirm"`
	Reject    int    `json:"reject"`
	Open      bool   `json:"open"`
}
