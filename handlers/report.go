package handlers

import (
	"go-firewatch/db"
	"go-firewatch/intake"
	"go-firewatch/types"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

// SubmitReport is the submission entry point for the intake pipeline.
func SubmitReport(c *gin.Context, service *intake.Service) {
	var req types.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := service.Submit(c.Request.Context(), req)
	if err != nil {
		if intake.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.SubmitReportResponse{
		Success:       true,
		ReportID:      result.ReportID,
		ExtractedInfo: result.ExtractedInfo,
		Verification:  result.Verification,
		Message:       "Report received",
	})
}

// GetReports lists the newest reports for dashboards.
func GetReports(c *gin.Context, store *db.ReportStore) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reports, err := store.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

// GetNearbyReports returns recent active reports around a point, for maps.
func GetNearbyReports(c *gin.Context, store *db.ReportStore) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "lat and lon query parameters are required"})
		return
	}

	radiusKM := 2.0
	if raw := c.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radiusKM = parsed
		}
	}

	since := sinceForNearby(c)
	reports, err := store.NearbyActive(c.Request.Context(), lat, lon, radiusKM, since, defaultListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

func sinceForNearby(c *gin.Context) time.Time {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	return time.Now().Add(-time.Duration(hours) * time.Hour)
}

// GetReport returns a single report by document ID.
func GetReport(c *gin.Context, store *db.ReportStore) {
	report, err := store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// UpdateReportStatus advances a report's lifecycle status. This is the
// external moderation action; the intake pipeline never mutates status.
func UpdateReportStatus(c *gin.Context, store *db.ReportStore) {
	var req types.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch req.Status {
	case types.Active, types.Resolved, types.FalseAlarm:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be active, resolved or false_alarm"})
		return
	}

	if err := store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.ModeratorID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated"})
}
