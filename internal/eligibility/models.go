package eligibility

import "time"

// Status is the outcome of an eligibility check against the external
// identity service.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusEligible   Status = "ELIGIBLE"
	StatusIneligible Status = "INELIGIBLE"
	StatusError      Status = "ERROR"
)

// AuditRecord links an accepted vote to the eligibility status of the
// identity that cast it. Created with StatusPending when the vote is
// persisted and mutated exactly once by the background check. The record is
// for later reconciliation only; it never invalidates the vote.
type AuditRecord struct {
	CPF       string    `json:"cpf"`
	TopicID   string    `json:"topic_id"`
	SessionID string    `json:"session_id"`
	VoteID    string    `json:"vote_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
