package imaging

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RegionColor maps a component id to a display color. It is a pure function
// of (id, seed): the same pair always yields the same color, and different
// seeds reshuffle the palette.
//
// Colors are drawn in HSV with saturation and value kept away from the
// extremes so neighboring regions stay distinguishable on screen.
func RegionColor(id int, seed int64) colorful.Color {
	h := mix64(uint64(id) ^ mix64(uint64(seed)))
	hue := float64(h%3600) / 10
	sat := 0.45 + float64((h>>16)%45)/100
	val := 0.60 + float64((h>>32)%35)/100
	return colorful.Hsv(hue, sat, val).Clamped()
}

// RegionNRGBA is RegionColor as an opaque color.NRGBA.
func RegionNRGBA(id int, seed int64) color.NRGBA {
	r, g, b := RegionColor(id, seed).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
