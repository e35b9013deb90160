package pricing

// Size is the physical footprint of one print, in centimetres.
type Size struct {
	WidthCm  float64
	LengthCm float64
}

// DefaultDimensions maps the print size classes sold in the shop to their
// measurements. Keys are matched case-insensitively after trimming.
func DefaultDimensions() map[string]Size {
	return map[string]Size{
		"A6": {WidthCm: 10.5, LengthCm: 14.8},
		"A5": {WidthCm: 14.8, LengthCm: 21.0},
		"A4": {WidthCm: 21.0, LengthCm: 29.7},
		"A3": {WidthCm: 29.7, LengthCm: 42.0},
		"A2": {WidthCm: 42.0, LengthCm: 59.4},
	}
}
