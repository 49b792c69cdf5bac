// Package domain contains core concepts of the daily chat.
// Messages are owned by their sender; only the owner may edit or
// delete one. Identity is always passed explicitly, never ambient.
package domain

import "time"

// Message is one dated journal entry attributed to a participant.
type Message struct {
	ID     uint64
	Sender string
	Body   string
	SentAt time.Time
}

func (m Message) Day() Day {
	return DayOf(m.SentAt)
}

// Roster holds the two chat identities.
type Roster struct {
	A string `validate:"required"`
	B string `validate:"required,nefield=A"`
}

func (r Roster) Knows(name string) bool {
	return name == r.A || name == r.B
}
