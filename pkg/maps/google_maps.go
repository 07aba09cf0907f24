package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

const metersPerMile = 1609.344

type GoogleMapsProvider struct {
	client *maps.Client
}

func NewGoogleMapsProvider(apiKey string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
	}, nil
}

func (g *GoogleMapsProvider) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	req := &maps.GeocodingRequest{
		Address: address,
	}

	resp, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", address)
	}

	return &GeocodeResult{
		Address: resp[0].FormattedAddress,
		Lat:     resp[0].Geometry.Location.Lat,
		Lng:     resp[0].Geometry.Location.Lng,
		PlaceID: resp[0].PlaceID,
	}, nil
}

func (g *GoogleMapsProvider) Distance(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (*DistanceResult, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", fromLat, fromLng)},
		Destinations: []string{fmt.Sprintf("%f,%f", toLat, toLng)},
		Mode:         maps.TravelModeDriving,
	}

	resp, err := g.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix failed: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("empty distance matrix response")
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("distance matrix element status: %s", element.Status)
	}

	return &DistanceResult{
		Miles:           float64(element.Distance.Meters) / metersPerMile,
		DurationMinutes: int(element.Duration.Minutes()),
	}, nil
}
