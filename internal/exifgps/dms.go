package exifgps

import (
	"math"

	"geoverify-api/internal/models"
)

// secondsDenominator is the precision DecimalToDMS stores seconds with.
const secondsDenominator = 10000

// RationalToFloat evaluates r, treating a zero denominator as 0.
func RationalToFloat(r models.Rational) float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

// DMSToDecimal converts a degrees/minutes/seconds triplet to decimal degrees.
// The result is negative when ref is "S" or "W".
func DMSToDecimal(dms [3]models.Rational, ref string) float64 {
	degrees := RationalToFloat(dms[0])
	minutes := RationalToFloat(dms[1])
	seconds := RationalToFloat(dms[2])

	decimal := degrees + minutes/60 + seconds/3600
	if ref == "S" || ref == "W" {
		decimal = -decimal
	}
	return decimal
}

// DecimalToDMS encodes a decimal angle as a triplet and a hemisphere reference,
// positive for values >= 0 and negative otherwise.
func DecimalToDMS(decimal float64, positive, negative string) ([3]models.Rational, string) {
	ref := positive
	if decimal < 0 {
		ref = negative
	}

	abs := math.Abs(decimal)
	degrees := math.Floor(abs)
	minutesFloat := (abs - degrees) * 60
	minutes := math.Floor(minutesFloat)
	seconds := (minutesFloat - minutes) * 60

	return [3]models.Rational{
		{Numerator: int64(degrees), Denominator: 1},
		{Numerator: int64(minutes), Denominator: 1},
		{Numerator: int64(math.Round(seconds * secondsDenominator)), Denominator: secondsDenominator},
	}, ref
}
