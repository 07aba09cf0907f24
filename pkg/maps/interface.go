package maps

import "context"

// Provider is the slice of a mapping API the dashboard needs: resolving
// typed addresses to coordinates and computing the driving distance
// between the pickup and the impound lot.
type Provider interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
	Distance(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (*DistanceResult, error)
}

type GeocodeResult struct {
	Address string  `json:"formatted_address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	PlaceID string  `json:"place_id,omitempty"`
}

type DistanceResult struct {
	Miles           float64 `json:"miles"`
	DurationMinutes int     `json:"duration_minutes"`
}
