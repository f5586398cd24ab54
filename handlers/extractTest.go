package handlers

import (
	"go-firewatch/extraction"
	"go-firewatch/types"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TestExtraction runs the extraction adapter on a query string so the
// pipeline can be exercised without persisting anything.
func TestExtraction(c *gin.Context, adapter *extraction.Adapter) {
	text := c.Query("text")
	if text == "" {
		text = "Large fire near the old warehouse, lots of smoke"
	}

	lat, _ := strconv.ParseFloat(c.DefaultQuery("lat", "34.0522"), 64)
	lon, _ := strconv.ParseFloat(c.DefaultQuery("lon", "-118.2437"), 64)

	info := adapter.Extract(c.Request.Context(), text, types.GeoPoint{Latitude: lat, Longitude: lon})

	c.JSON(http.StatusOK, gin.H{
		"reportText":    text,
		"extractedInfo": info,
	})
}
