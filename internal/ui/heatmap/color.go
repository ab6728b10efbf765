package heatmap

import "fmt"

// ylOrRd is the yellow-orange-red ramp, light to dark. Low values stay
// pale, bright spots read as hot.
var ylOrRd = [][3]uint8{
	{0xff, 0xff, 0xcc},
	{0xff, 0xed, 0xa0},
	{0xfe, 0xd9, 0x76},
	{0xfe, 0xb2, 0x4c},
	{0xfd, 0x8d, 0x3c},
	{0xfc, 0x4e, 0x2a},
	{0xe3, 0x1a, 0x1c},
	{0xbd, 0x00, 0x26},
	{0x80, 0x00, 0x26},
}

// colorAt interpolates the ramp at t in [0,1] and returns a hex color.
func colorAt(t float64) string {
	if t <= 0 {
		return hex(ylOrRd[0])
	}
	if t >= 1 {
		return hex(ylOrRd[len(ylOrRd)-1])
	}

	pos := t * float64(len(ylOrRd)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	a, b := ylOrRd[lo], ylOrRd[lo+1]

	return hex([3]uint8{
		lerp(a[0], b[0], frac),
		lerp(a[1], b[1], frac),
		lerp(a[2], b[2], frac),
	})
}

// normalize maps v into [0,1] over the min..max extent. A flat field
// maps to the middle of the ramp.
func normalize(v, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	t := (v - min) / (max - min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

func hex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
