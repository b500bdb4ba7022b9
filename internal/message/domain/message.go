package domain

import (
	"time"

	userdomain "github.com/messagely/messagely/internal/user/domain"
)

// Message is the stored record. ReadAt is nil until the recipient marks the
// message read; it never goes back to nil.
type Message struct {
	ID           string
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// Detail is a message with both participant profiles joined in.
type Detail struct {
	Message
	From userdomain.Profile
	To   userdomain.Profile
}

// Outgoing is a sent message with the recipient profile joined in.
type Outgoing struct {
	ID     string
	To     userdomain.Profile
	Body   string
	SentAt time.Time
	ReadAt *time.Time
}

// Incoming is a received message with the sender profile joined in.
type Incoming struct {
	ID     string
	From   userdomain.Profile
	Body   string
	SentAt time.Time
	ReadAt *time.Time
}

// ReadReceipt is the result of marking a message read.
type ReadReceipt struct {
	ID     string
	ReadAt time.Time
}
