package model

// Answer is one respondent answer to a questionnaire item
type Answer struct {
	ItemID string `json:"itemId"`
	Score  Scale  `json:"score"`
}

// Submission is the raw input collected by the form
type Submission struct {
	Answers   []Answer  `json:"answers"`
	Frequency Frequency `json:"frequency"`
}
