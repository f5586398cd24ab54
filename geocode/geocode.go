package geocode

import (
	"context"
	"fmt"
	"googlemaps.github.io/maps"
	"log"
	"os"
	"sync"
)

// FallbackPlaceName is returned whenever reverse geocoding cannot produce a
// usable place descriptor. Geocoding is best-effort and never blocks intake.
const FallbackPlaceName = "Nearby area"

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	var err error
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			err = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, err = maps.NewClient(maps.WithAPIKey(apiKey))
		if err != nil {
			log.Fatalf("Failed to create maps client: %v", err)
		}
	})
	return mapsClient, err
}

// Resolver turns coordinates into a short human-readable place descriptor.
type Resolver struct {
	client *maps.Client
}

func NewResolver(client *maps.Client) *Resolver {
	return &Resolver{client: client}
}

// ResolvePlaceName reverse geocodes the given coordinates. It cannot fail:
// any upstream error degrades to FallbackPlaceName.
func (r *Resolver) ResolvePlaceName(ctx context.Context, lat, lon float64) string {
	if r == nil || r.client == nil {
		return FallbackPlaceName
	}

	results, err := r.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	if err != nil {
		log.Printf("Reverse geocode failed for (%f, %f): %v", lat, lon, err)
		return FallbackPlaceName
	}
	if len(results) == 0 {
		log.Printf("No reverse geocode results for (%f, %f)", lat, lon)
		return FallbackPlaceName
	}

	if name := PlaceNameFromComponents(results[0].AddressComponents); name != "" {
		return name
	}
	if results[0].FormattedAddress != "" {
		return results[0].FormattedAddress
	}
	return FallbackPlaceName
}

// Component type priority: most specific locality level first, then the
// broader city/town/district level used as a suffix.
var (
	specificTypes = []string{"neighborhood", "sublocality", "sublocality_level_1"}
	broadTypes    = []string{"locality", "postal_town", "administrative_area_level_2", "administrative_area_level_1"}
)

// PlaceNameFromComponents assembles "<specific>, <broad>" from the address
// components, or just one of the two when the other is missing.
func PlaceNameFromComponents(components []maps.AddressComponent) string {
	specific := firstComponent(components, specificTypes)
	broad := firstComponent(components, broadTypes)

	switch {
	case specific != "" && broad != "" && specific != broad:
		return specific + ", " + broad
	case specific != "":
		return specific
	default:
		return broad
	}
}

func firstComponent(components []maps.AddressComponent, priority []string) string {
	for _, wanted := range priority {
		for _, c := range components {
			for _, t := range c.Types {
				if t == wanted && c.LongName != "" {
					return c.LongName
				}
			}
		}
	}
	return ""
}
