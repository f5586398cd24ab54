package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"
)

func component(name string, componentTypes ...string) maps.AddressComponent {
	return maps.AddressComponent{LongName: name, Types: componentTypes}
}

func TestPlaceNameFromComponents(t *testing.T) {
	tests := []struct {
		name       string
		components []maps.AddressComponent
		want       string
	}{
		{
			name: "specific and broad",
			components: []maps.AddressComponent{
				component("Echo Park", "neighborhood", "political"),
				component("Los Angeles", "locality", "political"),
			},
			want: "Echo Park, Los Angeles",
		},
		{
			name: "broad only",
			components: []maps.AddressComponent{
				component("Los Angeles", "locality", "political"),
				component("California", "administrative_area_level_1", "political"),
			},
			want: "Los Angeles",
		},
		{
			name: "sublocality with district",
			components: []maps.AddressComponent{
				component("Brooklyn", "sublocality_level_1", "sublocality"),
				component("Kings County", "administrative_area_level_2", "political"),
			},
			want: "Brooklyn, Kings County",
		},
		{
			name: "neighborhood beats sublocality",
			components: []maps.AddressComponent{
				component("Williamsburg", "neighborhood"),
				component("Brooklyn", "sublocality_level_1", "sublocality"),
				component("New York", "locality", "political"),
			},
			want: "Williamsburg, New York",
		},
		{
			name: "duplicate specific and broad collapses",
			components: []maps.AddressComponent{
				component("Monaco", "neighborhood"),
				component("Monaco", "locality"),
			},
			want: "Monaco",
		},
		{
			name:       "no usable components",
			components: []maps.AddressComponent{component("90012", "postal_code")},
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceNameFromComponents(tt.components))
		})
	}
}

func TestResolvePlaceNameDegradesWithoutClient(t *testing.T) {
	var r *Resolver
	assert.Equal(t, FallbackPlaceName, r.ResolvePlaceName(context.Background(), 34.05, -118.24))

	assert.Equal(t, FallbackPlaceName, NewResolver(nil).ResolvePlaceName(context.Background(), 34.05, -118.24))
}
