// Package validation holds the pure request-validation helpers: capacity
// and time-range checks and the venue schedule-conflict checker. All
// functions are total and return structured results instead of errors so
// handlers can surface the strings directly.
package validation

import "fmt"

// CapacityResult carries a blocking error and/or a non-blocking warning.
// Both empty means the requested headcount is fine.
type CapacityResult struct {
	Error   string `json:"error"`
	Warning string `json:"warning"`
}

// ValidateCapacity checks a requested headcount against a venue or
// vehicle capacity. A nil capacity means the capacity is unknown and
// nothing is validated. The warning fires once the request reaches 80%
// of capacity (ceiling) without exceeding it.
func ValidateCapacity(capacity *int, requested int, unit string) CapacityResult {
	if capacity == nil {
		return CapacityResult{}
	}

	if requested < 0 {
		return CapacityResult{Error: fmt.Sprintf("Number of %s must be non-negative", unit)}
	}
	if requested > *capacity {
		return CapacityResult{Error: fmt.Sprintf("Number of %s exceeds capacity of %d", unit, *capacity)}
	}

	// ceil(0.8 * capacity) without going through floats
	threshold := (4**capacity + 4) / 5
	if requested >= threshold {
		return CapacityResult{Warning: fmt.Sprintf("Number of %s is approaching the capacity limit of %d", unit, *capacity)}
	}

	return CapacityResult{}
}

// ValidatePax checks venue attendance against the venue capacity.
func ValidatePax(capacity *int, pax int) CapacityResult {
	return ValidateCapacity(capacity, pax, "pax")
}

// ValidatePassengers checks a trip headcount against the vehicle capacity.
func ValidatePassengers(capacity *int, passengers int) CapacityResult {
	return ValidateCapacity(capacity, passengers, "passengers")
}
