package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTowID(t *testing.T) {
	t.Run("Carries Prefix And Sorts By Creation", func(t *testing.T) {
		first := GenerateTowID()
		second := GenerateTowID()

		assert.True(t, strings.HasPrefix(first, "tow-"))
		assert.True(t, strings.HasPrefix(second, "tow-"))
		// Millisecond timestamps make later ids compare greater or equal.
		assert.LessOrEqual(t, first[:len("tow-")+13], second[:len("tow-")+13])
	})
}

func TestJitterCoordinates(t *testing.T) {
	t.Run("Stays Within Radius", func(t *testing.T) {
		const centerLat, centerLng, radiusKM = 47.5632, -122.3231, 4.0

		for i := 0; i < 100; i++ {
			lat, lng := JitterCoordinates(centerLat, centerLng, radiusKM)
			distance := CalculateDistance(centerLat, centerLng, lat, lng)
			assert.LessOrEqual(t, distance, radiusKM*1.01, "point %d outside radius", i)
		}
	})
}

func TestEstimateETAMinutes(t *testing.T) {
	t.Run("Rounds Up", func(t *testing.T) {
		assert.Equal(t, 21, EstimateETAMinutes(10.1, 30))
	})

	t.Run("Falls Back To City Speed", func(t *testing.T) {
		assert.Equal(t, EstimateETAMinutes(10, AverageCitySpeedKMH), EstimateETAMinutes(10, 0))
	})
}
