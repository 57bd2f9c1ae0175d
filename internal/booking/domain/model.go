package domain

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// Request is a service-booking inquiry directed at a provider. Only the
// provider mutates it (read flag, status transitions).
type Request struct {
	ID         string
	ProviderID string
	Name       string
	Email      string
	Phone      string
	Message    string
	Read       bool
	Status     RequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContactMessage is a consultation/contact form submission. It is stored
// and relayed by mail to the site operators.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}
