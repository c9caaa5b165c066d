package model

import "math"

// ceilTolerance absorbs floating point noise before rounding up, so 31.0000000001
// boards stays 31.
const ceilTolerance = 1e-9

// WasteFactor converts a waste percentage into a multiplier (10 -> 1.1).
// Negative percentages are treated as zero.
func WasteFactor(wastePercent float64) float64 {
	if wastePercent < 0 {
		wastePercent = 0
	}
	return 1.0 + (wastePercent / 100.0)
}

// CeilUnits rounds a quantity up to whole units. Values within a small
// tolerance of an integer are not bumped to the next unit.
func CeilUnits(q float64) float64 {
	if q <= 0 || math.IsNaN(q) {
		return 0
	}
	return math.Ceil(q - ceilTolerance)
}

// PurchaseQuantity applies the waste allowance to a raw quantity and rounds
// up to whole units of packSize (1 for loose items).
func PurchaseQuantity(raw, wastePercent, packSize float64) float64 {
	if packSize <= 0 {
		packSize = 1
	}
	return CeilUnits(raw * WasteFactor(wastePercent) / packSize)
}

// BagsForVolume returns the number of bags of bagKg needed for a dry volume
// of a material of the given density.
func BagsForVolume(volumeM3, density, bagKg float64) float64 {
	if bagKg <= 0 {
		return 0
	}
	return CeilUnits(volumeM3 * density / bagKg)
}

// Round2 rounds to two decimal places for display values such as areas.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
