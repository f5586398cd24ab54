package types

import "time"

type FireType string

const (
	Wildfire    FireType = "wildfire"
	Building    FireType = "building"
	Vehicle     FireType = "vehicle"
	Industrial  FireType = "industrial"
	Electrical  FireType = "electrical"
	UnknownFire FireType = "unknown"
)

type Severity string

const (
	Low      Severity = "low"
	Moderate Severity = "moderate"
	High     Severity = "high"
	Critical Severity = "critical"
)

type ReportStatus string

const (
	Active     ReportStatus = "active"
	Resolved   ReportStatus = "resolved"
	FalseAlarm ReportStatus = "false_alarm"
)

type VerificationStatus string

const (
	Pending            VerificationStatus = "pending"
	Verified           VerificationStatus = "verified"
	VerifiedFalseAlarm VerificationStatus = "false_alarm"
)

// GeoPoint is a reporter-supplied GPS position.
type GeoPoint struct {
	Latitude  float64 `firestore:"latitude" json:"latitude"`
	Longitude float64 `firestore:"longitude" json:"longitude"`
	Address   string  `firestore:"address,omitempty" json:"address,omitempty"`
}

type Reporter struct {
	UserID   string   `firestore:"userId" json:"userId"`
	Location GeoPoint `firestore:"location" json:"location"`
}

// ExtractedInfo is the structured signal bundle produced by the extraction
// adapter (oracle path) or the rule-based extractor (fallback path).
// Severity and Confidence are left unset on the rule-based path.
type ExtractedInfo struct {
	Location      string   `firestore:"location" json:"location"`
	FireType      FireType `firestore:"fireType" json:"fireType"`
	Severity      Severity `firestore:"severity,omitempty" json:"severity,omitempty"`
	Confidence    int      `firestore:"confidence" json:"confidence"` // oracle self-reported, 0-100
	UrgencyScore  int      `firestore:"urgencyScore" json:"urgencyScore"`
	Keywords      []string `firestore:"keywords" json:"keywords"`
	HasCasualties bool     `firestore:"hasCasualties" json:"hasCasualties"`
	Reason        string   `firestore:"reason,omitempty" json:"reason,omitempty"`
	Description   string   `firestore:"description,omitempty" json:"description,omitempty"`
}

// VerificationResult carries the verifier's confidence, on a 0.0-1.0 scale
// distinct from the oracle's 0-100 one.
type VerificationResult struct {
	Status              VerificationStatus `firestore:"status" json:"status"`
	Confidence          float64            `firestore:"confidence" json:"confidence"`
	SimilarReportsCount int                `firestore:"similarReportsCount" json:"similarReportsCount"`
	VerifiedBy          []string           `firestore:"verifiedBy" json:"verifiedBy"`
	Reason              string             `firestore:"reason,omitempty" json:"reason,omitempty"`
}

// GeoCluster is the emergent spatial label carried on each report. Two reports
// with the same ClusterID are asserted, not guaranteed, to describe the same
// incident.
type GeoCluster struct {
	ClusterID         string `firestore:"clusterId" json:"clusterId"`
	NearbyReportCount int    `firestore:"nearbyReports" json:"nearbyReports"`
}

// IncidentReport is the persisted unit. The intake pipeline assembles it once;
// nothing in this service mutates a record afterward except the moderation
// endpoints and the stale-report sweeper.
type IncidentReport struct {
	ID            string             `firestore:"-" json:"id"`
	ReportText    string             `firestore:"reportText" json:"reportText"`
	Reporter      Reporter           `firestore:"reporter" json:"reporter"`
	ExtractedInfo ExtractedInfo      `firestore:"extractedInfo" json:"extractedInfo"`
	Verification  VerificationResult `firestore:"verification" json:"verification"`
	GeoCluster    GeoCluster         `firestore:"geoCluster" json:"geoCluster"`
	Status        ReportStatus       `firestore:"status" json:"status"`
	Timestamp     time.Time          `firestore:"timestamp" json:"timestamp"`
}
