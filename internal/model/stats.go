package model

// SubtypeCount is one row of the primary subtype tally
type SubtypeCount struct {
	Subtype string `json:"subtype"`
	Count   int64  `json:"count"`
}

// StatsSummary is the anonymised admin overview
type StatsSummary struct {
	TotalAssessments int64                    `json:"totalAssessments"`
	ProbableDisorder int64                    `json:"probableDisorder"`
	Subtypes         []SubtypeCount           `json:"subtypes"`
	Deliveries       map[DeliveryStatus]int64 `json:"deliveries"`
}

// ClassifiedEvent is broadcast to admin dashboards after each classification
type ClassifiedEvent struct {
	SubmissionID     string `json:"submissionId"`
	PrimarySubtype   string `json:"primarySubtype"`
	ProbableDisorder bool   `json:"probableDisorder"`
	RedFlagCount     int    `json:"redFlagCount"`
}
