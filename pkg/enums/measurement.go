package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MeasurementKind identifies the physical dimension a measurement captures.
type MeasurementKind string

const (
	MeasurementKindWidth  MeasurementKind = "width"
	MeasurementKindHeight MeasurementKind = "height"
	MeasurementKindDepth  MeasurementKind = "depth"
	MeasurementKindWeight MeasurementKind = "weight"
)

var validMeasurementKinds = []MeasurementKind{
	MeasurementKindWidth,
	MeasurementKindHeight,
	MeasurementKindDepth,
	MeasurementKindWeight,
}

// String implements fmt.Stringer.
func (k MeasurementKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known MeasurementKind.
func (k MeasurementKind) IsValid() bool {
	for _, candidate := range validMeasurementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMeasurementKind converts raw input into a MeasurementKind.
func ParseMeasurementKind(value string) (MeasurementKind, error) {
	for _, candidate := range validMeasurementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid measurement kind %q", value)
}

// MeasurementUnit is the unit a measurement value was entered in. Distance
// units standardize to meters, weight units to grams.
type MeasurementUnit string

const (
	MeasurementUnitMillimeter MeasurementUnit = "mm"
	MeasurementUnitCentimeter MeasurementUnit = "cm"
	MeasurementUnitMeter      MeasurementUnit = "m"
	MeasurementUnitKilometer  MeasurementUnit = "km"
	MeasurementUnitGram       MeasurementUnit = "g"
	MeasurementUnitKilogram   MeasurementUnit = "kg"
	MeasurementUnitTonne      MeasurementUnit = "t"
)

var measurementUnitFactors = map[MeasurementUnit]decimal.Decimal{
	MeasurementUnitMillimeter: decimal.RequireFromString("0.001"),
	MeasurementUnitCentimeter: decimal.RequireFromString("0.01"),
	MeasurementUnitMeter:      decimal.NewFromInt(1),
	MeasurementUnitKilometer:  decimal.NewFromInt(1000),
	MeasurementUnitGram:       decimal.NewFromInt(1),
	MeasurementUnitKilogram:   decimal.NewFromInt(1000),
	MeasurementUnitTonne:      decimal.NewFromInt(1000000),
}

// String implements fmt.Stringer.
func (u MeasurementUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known MeasurementUnit.
func (u MeasurementUnit) IsValid() bool {
	_, ok := measurementUnitFactors[u]
	return ok
}

// IsDistance reports whether the unit measures distance.
func (u MeasurementUnit) IsDistance() bool {
	switch u {
	case MeasurementUnitMillimeter, MeasurementUnitCentimeter, MeasurementUnitMeter, MeasurementUnitKilometer:
		return true
	}
	return false
}

// StandardFactor returns the multiplier converting a value in this unit to
// the standard unit (meters for distance, grams for weight).
func (u MeasurementUnit) StandardFactor() decimal.Decimal {
	if factor, ok := measurementUnitFactors[u]; ok {
		return factor
	}
	return decimal.NewFromInt(1)
}

// ParseMeasurementUnit converts raw input into a MeasurementUnit.
func ParseMeasurementUnit(value string) (MeasurementUnit, error) {
	unit := MeasurementUnit(value)
	if !unit.IsValid() {
		return "", fmt.Errorf("invalid measurement unit %q", value)
	}
	return unit, nil
}
