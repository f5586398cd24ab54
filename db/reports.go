package db

import (
	"cloud.google.com/go/firestore"
	"context"
	"errors"
	"fmt"
	"go-firewatch/cluster"
	"go-firewatch/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"log"
	"time"

	"github.com/google/uuid"
)

const reportsCollection = "fire_reports"

// ErrNotFound is returned when a report document does not exist.
var ErrNotFound = errors.New("report not found")

// ReportStore wraps persistence and the geospatial candidate queries for
// incident reports.
type ReportStore struct {
	client *firestore.Client
}

func NewReportStore(client *firestore.Client) *ReportStore {
	return &ReportStore{client: client}
}

// Save persists the report and returns its document ID, generating one when
// the report carries none.
func (s *ReportStore) Save(ctx context.Context, report types.IncidentReport) (string, error) {
	id := report.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.client.Collection(reportsCollection).Doc(id).Set(ctx, report)
	if err != nil {
		return "", fmt.Errorf("failed to save report %s: %w", id, err)
	}
	return id, nil
}

// GetByID retrieves a single report document.
func (s *ReportStore) GetByID(ctx context.Context, reportID string) (types.IncidentReport, error) {
	doc, err := s.client.Collection(reportsCollection).Doc(reportID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.IncidentReport{}, ErrNotFound
		}
		return types.IncidentReport{}, fmt.Errorf("error getting report %s: %w", reportID, err)
	}
	return decodeReport(doc)
}

// NearbyActive returns active reports within radiusKM of the given point with
// timestamp >= since, newest first, capped at limit.
//
// Firestore supports a range filter on a single field only, so the query
// narrows by recency and status and the spherical-radius predicate is applied
// in memory.
func (s *ReportStore) NearbyActive(ctx context.Context, lat, lon, radiusKM float64, since time.Time, limit int) ([]types.IncidentReport, error) {
	reports, err := s.nearbyActive(ctx, lat, lon, radiusKM, since)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// CountNearbyActive counts active reports within radiusKM of the given point
// with timestamp >= since. The predicate is a spherical radius, not a
// bounding box.
func (s *ReportStore) CountNearbyActive(ctx context.Context, lat, lon, radiusKM float64, since time.Time) (int, error) {
	reports, err := s.nearbyActive(ctx, lat, lon, radiusKM, since)
	if err != nil {
		return 0, err
	}
	return len(reports), nil
}

func (s *ReportStore) nearbyActive(ctx context.Context, lat, lon, radiusKM float64, since time.Time) ([]types.IncidentReport, error) {
	docs, err := s.client.Collection(reportsCollection).
		Where("status", "==", string(types.Active)).
		Where("timestamp", ">=", since).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("error querying nearby reports: %w", err)
	}

	reports := make([]types.IncidentReport, 0, len(docs))
	for _, doc := range docs {
		report, err := decodeReport(doc)
		if err != nil {
			log.Printf("Warning: skipping undecodable report %s: %v", doc.Ref.ID, err)
			continue
		}
		reports = append(reports, report)
	}

	return filterWithinRadius(reports, lat, lon, radiusKM), nil
}

// filterWithinRadius keeps reports whose reporter coordinates lie within
// radiusKM great-circle distance of the given point, preserving input order.
func filterWithinRadius(reports []types.IncidentReport, lat, lon, radiusKM float64) []types.IncidentReport {
	within := make([]types.IncidentReport, 0, len(reports))
	for _, report := range reports {
		loc := report.Reporter.Location
		if cluster.HaversineKM(lat, lon, loc.Latitude, loc.Longitude) <= radiusKM {
			within = append(within, report)
		}
	}
	return within
}

// ListRecent returns the newest reports regardless of status, for dashboards.
func (s *ReportStore) ListRecent(ctx context.Context, limit int) ([]types.IncidentReport, error) {
	query := s.client.Collection(reportsCollection).
		OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	reports := make([]types.IncidentReport, 0, len(docs))
	for _, doc := range docs {
		report, err := decodeReport(doc)
		if err != nil {
			log.Printf("Warning: skipping undecodable report %s: %v", doc.Ref.ID, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// UpdateStatus advances a report's lifecycle status. Moderation action, never
// called by the intake pipeline. A false-alarm ruling also downgrades the
// verification status; a moderator ID is appended to verifiedBy when present.
func (s *ReportStore) UpdateStatus(ctx context.Context, reportID string, newStatus types.ReportStatus, moderatorID string) error {
	updates := []firestore.Update{
		{Path: "status", Value: string(newStatus)},
	}
	if newStatus == types.FalseAlarm {
		updates = append(updates, firestore.Update{Path: "verification.status", Value: string(types.VerifiedFalseAlarm)})
	}
	if moderatorID != "" {
		updates = append(updates, firestore.Update{Path: "verification.verifiedBy", Value: firestore.ArrayUnion(moderatorID)})
	}

	_, err := s.client.Collection(reportsCollection).Doc(reportID).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("error updating status for report %s: %w", reportID, err)
	}
	return nil
}

// ResolveStale marks active reports older than the cutoff as resolved, using
// BulkWriter for efficient non-transactional writes. Returns the number of
// reports enqueued.
func (s *ReportStore) ResolveStale(ctx context.Context, olderThan time.Time) (int, error) {
	docs, err := s.client.Collection(reportsCollection).
		Where("status", "==", string(types.Active)).
		Where("timestamp", "<", olderThan).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, fmt.Errorf("error querying stale reports: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	resolved := 0
	for _, doc := range docs {
		_, err := bw.Update(doc.Ref, []firestore.Update{
			{Path: "status", Value: string(types.Resolved)},
		})
		if err != nil {
			log.Printf("Error enqueueing stale report %s for resolve: %v", doc.Ref.ID, err)
			continue
		}
		resolved++
	}
	bw.Flush()

	log.Printf("Resolved %d stale reports older than %s", resolved, olderThan.Format(time.RFC3339))
	return resolved, nil
}

func decodeReport(doc *firestore.DocumentSnapshot) (types.IncidentReport, error) {
	var report types.IncidentReport
	if err := doc.DataTo(&report); err != nil {
		return report, fmt.Errorf("error converting document %s: %w", doc.Ref.ID, err)
	}
	report.ID = doc.Ref.ID
	return report, nil
}
