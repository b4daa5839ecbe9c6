package model

import "time"

type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
	DeliveryLogged  DeliveryStatus = "logged" // no transport configured; nothing left the server
)

// Delivery is the outcome of sending a report to a respondent
type Delivery struct {
	Status DeliveryStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// DeliveryRecord is a delivery attempt log entry. It carries no answers or scores.
type DeliveryRecord struct {
	ID           string         `json:"id" bson:"_id,omitempty"`
	SubmissionID string         `json:"submissionId" bson:"submissionId"`
	Recipient    string         `json:"recipient" bson:"recipient"` // masked
	Status       DeliveryStatus `json:"status" bson:"status"`
	Error        string         `json:"error,omitempty" bson:"error,omitempty"`
	AttemptedAt  time.Time      `json:"attemptedAt" bson:"attemptedAt"`
}
