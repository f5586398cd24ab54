package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"go-firewatch/cluster"
	"go-firewatch/extraction"
	"go-firewatch/types"
	"go-firewatch/verify"
)

const (
	// Candidate query bounds shared by clustering and verification.
	candidateRadiusKM = 2.0
	candidateWindow   = 24 * time.Hour
	candidateLimit    = 10
)

// ValidationError rejects a submission before any external call is made.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Extractor produces structured info from free report text. It must not fail;
// degraded output is expected instead.
type Extractor interface {
	Extract(ctx context.Context, reportText string, location types.GeoPoint) types.ExtractedInfo
}

// ReportStore is the slice of persistence the orchestrator needs.
type ReportStore interface {
	NearbyActive(ctx context.Context, lat, lon, radiusKM float64, since time.Time, limit int) ([]types.IncidentReport, error)
	CountNearbyActive(ctx context.Context, lat, lon, radiusKM float64, since time.Time) (int, error)
	Save(ctx context.Context, report types.IncidentReport) (string, error)
}

// Service sequences extraction, candidate lookup, verification, clustering
// and persistence for one submission. It holds no per-call state.
type Service struct {
	store     ReportStore
	extractor Extractor
	places    extraction.PlaceResolver
	verifier  *verify.Verifier
	clock     clockwork.Clock
}

func NewService(store ReportStore, extractor Extractor, places extraction.PlaceResolver, verifier *verify.Verifier, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if verifier == nil {
		verifier = verify.New(clock)
	}
	return &Service{
		store:     store,
		extractor: extractor,
		places:    places,
		verifier:  verifier,
		clock:     clock,
	}
}

type SubmitResult struct {
	ReportID      string
	ExtractedInfo types.ExtractedInfo
	Verification  types.VerificationResult
	ClusterID     string
}

// Submit runs the full intake pipeline. Validation and persistence failures
// are the only errors a caller sees; extraction and geocoding degradations
// are absorbed so a well-formed submission always produces a record.
func (s *Service) Submit(ctx context.Context, req types.SubmitReportRequest) (SubmitResult, error) {
	if err := validate(req); err != nil {
		return SubmitResult{}, err
	}
	loc := *req.GPSLocation

	// Extraction and the two candidate queries are independent of each
	// other; fan out and join before verification and clustering.
	var (
		info       types.ExtractedInfo
		candidates []types.IncidentReport
		totalCount int
		listErr    error
		countErr   error
	)
	since := s.clock.Now().Add(-candidateWindow)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		info = s.extract(ctx, req.ReportText, loc)
	}()
	go func() {
		defer wg.Done()
		candidates, listErr = s.store.NearbyActive(ctx, loc.Latitude, loc.Longitude, candidateRadiusKM, since, candidateLimit)
	}()
	go func() {
		defer wg.Done()
		totalCount, countErr = s.store.CountNearbyActive(ctx, loc.Latitude, loc.Longitude, candidateRadiusKM, since)
	}()
	wg.Wait()

	if listErr != nil {
		log.Printf("Nearby query failed, proceeding without candidates: %v", listErr)
		candidates = nil
	}
	if countErr != nil {
		log.Printf("Nearby count failed, falling back to candidate list size: %v", countErr)
		totalCount = len(candidates)
	}

	// Verification and clustering operate on the same candidate snapshot,
	// never a refetch.
	verification := s.verifier.Verify(info, candidates, totalCount)
	clusterID := cluster.AssignCluster(loc, candidates)

	report := types.IncidentReport{
		ReportText: req.ReportText,
		Reporter: types.Reporter{
			UserID:   req.UserID,
			Location: loc,
		},
		ExtractedInfo: info,
		Verification:  verification,
		GeoCluster: types.GeoCluster{
			ClusterID:         clusterID,
			NearbyReportCount: totalCount,
		},
		Status:    types.Active,
		Timestamp: s.clock.Now().UTC(),
	}

	reportID, err := s.store.Save(ctx, report)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to persist report: %w", err)
	}

	return SubmitResult{
		ReportID:      reportID,
		ExtractedInfo: info,
		Verification:  verification,
		ClusterID:     clusterID,
	}, nil
}

// extract runs the configured extractor with a second safety net on top of
// the adapter's own degradation: a missing or panicking extractor still
// yields the rule-based result.
func (s *Service) extract(ctx context.Context, reportText string, loc types.GeoPoint) (info types.ExtractedInfo) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Extractor panicked, falling back to rule-based extraction: %v", r)
			info = extraction.ExtractRuleBased(ctx, reportText, loc, s.places)
		}
	}()

	if s.extractor == nil {
		return extraction.ExtractRuleBased(ctx, reportText, loc, s.places)
	}
	return s.extractor.Extract(ctx, reportText, loc)
}

func validate(req types.SubmitReportRequest) error {
	if strings.TrimSpace(req.ReportText) == "" {
		return &ValidationError{msg: "reportText is required"}
	}
	if req.GPSLocation == nil {
		return &ValidationError{msg: "gpsLocation is required"}
	}
	if !finite(req.GPSLocation.Latitude) || !finite(req.GPSLocation.Longitude) {
		return &ValidationError{msg: "gpsLocation must carry finite latitude and longitude"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
