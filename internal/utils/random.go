package utils

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"
)

const (
	numberBytes  = "0123456789"
	alphanumeric = "abcdefghijklmnopqrstuvwxyz" + numberBytes
)

// GenerateTowID returns a fresh tow record id. The embedded millisecond
// timestamp makes ids sort by creation time, which the listing relies on.
func GenerateTowID() string {
	return fmt.Sprintf("tow-%d-%s", time.Now().UnixMilli(), GenerateRandomString(4))
}

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

func SecureRandomFloat() float64 {
	max := big.NewInt(1 << 53)
	n, _ := rand.Int(rand.Reader, max)
	return float64(n.Int64()) / float64(1<<53)
}

// JitterCoordinates returns a random point within radiusKM of the given
// center. Used to place a pickup when a create request carries no
// coordinates.
func JitterCoordinates(lat, lng, radiusKM float64) (float64, float64) {
	// Uniform over the disc, not the bounding square.
	distance := radiusKM * math.Sqrt(SecureRandomFloat())
	bearing := 2 * math.Pi * SecureRandomFloat()

	dLat := (distance / EarthRadiusKM) * (180 / math.Pi)
	dLng := dLat / math.Cos(lat*math.Pi/180)

	return lat + dLat*math.Cos(bearing), lng + dLng*math.Sin(bearing)
}
