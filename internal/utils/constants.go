package utils

import "time"

const (
	// Response status
	StatusSuccess = "success"
	StatusError   = "error"

	// Error messages
	ErrValidationFailed = "Validation failed"

	// Tow Constants
	PickupJitterRadiusKM  = 4.0 // spread for generated pickup coordinates
	AverageCitySpeedKMH   = 30.0
	ConflictRetryAttempts = 1 // one re-read after a lost conditional write

	// Client Constants
	BootstrapTimeout = 4500 * time.Millisecond
)
