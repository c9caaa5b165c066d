package model

import (
	"math"
	"testing"
)

func TestWasteFactor(t *testing.T) {
	if f := WasteFactor(10); math.Abs(f-1.1) > 1e-12 {
		t.Errorf("expected 1.1, got %f", f)
	}
	if f := WasteFactor(0); f != 1.0 {
		t.Errorf("expected 1.0 for zero waste, got %f", f)
	}
	if f := WasteFactor(-5); f != 1.0 {
		t.Errorf("expected negative waste to clamp to 1.0, got %f", f)
	}
}

func TestCeilUnitsToleratesNoise(t *testing.T) {
	if got := CeilUnits(31.0000000000001); got != 31 {
		t.Errorf("expected 31, got %f", got)
	}
	if got := CeilUnits(30.2); got != 31 {
		t.Errorf("expected 31, got %f", got)
	}
	if got := CeilUnits(0); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := CeilUnits(-3); got != 0 {
		t.Errorf("expected negative quantities to round to 0, got %f", got)
	}
}

func TestCeilUnitsIdempotent(t *testing.T) {
	for _, q := range []float64{0.1, 1, 7.5, 19.8, 34.1, 250.0001} {
		once := CeilUnits(q)
		if twice := CeilUnits(once); twice != once {
			t.Errorf("rounding %f twice gave %f then %f", q, once, twice)
		}
	}
}

func TestPurchaseQuantityBoards(t *testing.T) {
	// 31 boards with 10% waste = 34.1 -> 35
	if got := PurchaseQuantity(31, 10, 1); got != 35 {
		t.Errorf("expected 35 boards, got %f", got)
	}
}

func TestPurchaseQuantityPacks(t *testing.T) {
	// 450 screws, no waste, boxes of 200 -> 3 boxes
	if got := PurchaseQuantity(450, 0, 200); got != 3 {
		t.Errorf("expected 3 boxes, got %f", got)
	}
	if got := PurchaseQuantity(400, 0, 200); got != 2 {
		t.Errorf("expected exactly 2 boxes, got %f", got)
	}
}

func TestPurchaseQuantityMonotonicInWaste(t *testing.T) {
	prev := 0.0
	for waste := 0.0; waste <= 50; waste += 2.5 {
		q := PurchaseQuantity(19.3, waste, 1)
		if q < prev {
			t.Fatalf("quantity decreased from %f to %f at waste %f", prev, q, waste)
		}
		prev = q
	}
}

func TestBagsForVolume(t *testing.T) {
	// 0.009 m³ cement * 1440 kg/m³ = 12.96 kg -> 1 bag
	if got := BagsForVolume(0.009, 1440, 25); got != 1 {
		t.Errorf("expected 1 bag, got %f", got)
	}
	// 0.036 m³ sand * 1600 = 57.6 kg -> 3 bags
	if got := BagsForVolume(0.036, 1600, 25); got != 3 {
		t.Errorf("expected 3 bags, got %f", got)
	}
	if got := BagsForVolume(1, 1600, 0); got != 0 {
		t.Errorf("expected 0 bags when bag size is unknown, got %f", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(math.Pi * 4); got != 12.57 {
		t.Errorf("expected 12.57, got %f", got)
	}
}
