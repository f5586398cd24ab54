package types

// SubmitReportRequest is the submission entry point payload.
type SubmitReportRequest struct {
	ReportText  string    `json:"reportText"`
	GPSLocation *GeoPoint `json:"gpsLocation"`
	UserID      string    `json:"userId"`
}

// SubmitReportResponse is returned to the presentation layer on success.
type SubmitReportResponse struct {
	Success       bool               `json:"success"`
	ReportID      string             `json:"reportId"`
	ExtractedInfo ExtractedInfo      `json:"extractedInfo"`
	Verification  VerificationResult `json:"verification"`
	Message       string             `json:"message"`
}

// UpdateStatusRequest advances a report's lifecycle status. Moderation only,
// never issued by the intake pipeline itself.
type UpdateStatusRequest struct {
	Status      ReportStatus `json:"status"`
	ModeratorID string       `json:"moderatorId"`
}

type ChatRequest struct {
	Message string `json:"message"`
}
