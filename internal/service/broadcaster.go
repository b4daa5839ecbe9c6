package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToAdmins(msgType string, payload interface{})
}

// Event types sent to admin dashboards
const (
	EventAssessmentClassified = "assessment_classified"
	EventReportDelivered      = "report_delivered"
)
