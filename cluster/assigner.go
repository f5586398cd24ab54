package cluster

import (
	"fmt"
	"go-firewatch/types"
	"math"
)

const (
	// Max distance (km) for a new report to join an existing cluster.
	epsilonKM     = 0.5
	earthRadiusKM = 6371.0
)

// AssignCluster deterministically maps a new report location onto an existing
// spatial cluster, or synthesizes a coordinate-based identifier when no
// candidate lies strictly within the 0.5 km threshold. Candidates are walked
// in caller order; the first minimum wins, so ties resolve by input order.
func AssignCluster(newLocation types.GeoPoint, nearbyReports []types.IncidentReport) string {
	if len(nearbyReports) == 0 {
		return coordinateClusterID(newLocation)
	}

	minDistance := math.Inf(1)
	closestCluster := ""

	for _, report := range nearbyReports {
		// A candidate missing cluster or location data is skipped, never
		// treated as a zero-distance match.
		if report.GeoCluster.ClusterID == "" {
			continue
		}
		coords := report.Reporter.Location
		if !finiteCoords(coords.Latitude, coords.Longitude) {
			continue
		}

		distance := HaversineKM(
			newLocation.Latitude, newLocation.Longitude,
			coords.Latitude, coords.Longitude,
		)
		if distance < minDistance && distance < epsilonKM {
			minDistance = distance
			closestCluster = report.GeoCluster.ClusterID
		}
	}

	if closestCluster != "" {
		return closestCluster
	}
	return coordinateClusterID(newLocation)
}

// coordinateClusterID groups isolated reports by 4-decimal coordinate rounding.
func coordinateClusterID(loc types.GeoPoint) string {
	return fmt.Sprintf("cluster_%.4f_%.4f", loc.Latitude, loc.Longitude)
}

func finiteCoords(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return false
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat != 0 || lon != 0
}

// HaversineKM calculates the great-circle distance between two points
// on the earth (specified in decimal degrees).
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLon1 := lon1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radLon2 := lon2 * math.Pi / 180

	deltaLat := radLat2 - radLat1
	deltaLon := radLon2 - radLon1

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
