package lasercavity

import (
	"fmt"
	"math"
)

// Colormap maps [0,1] onto a false-color scale by linear interpolation
// between color stops (0..255 per channel).
type Colormap struct {
	Name  string
	Stops [][3]Real
}

var colormaps = map[string]Colormap{
	"rainbow": {Name: "rainbow", Stops: [][3]Real{
		{0, 0, 128},
		{0, 0, 255},
		{0, 255, 255},
		{0, 255, 0},
		{255, 255, 0},
		{255, 0, 0},
		{128, 0, 0},
	}},
	"ire": {Name: "ire", Stops: [][3]Real{
		{0, 0, 128},     // blue
		{192, 0, 192},   // purple
		{96, 96, 96},    // dark grey
		{0, 255, 0},     // green
		{255, 255, 255}, // white
		{255, 0, 255},   // purple
		{192, 192, 192}, // light grey
		{220, 220, 0},   // mid-yellow
		{128, 0, 0},     // red
	}},
}

// ColormapByName returns a named colormap; "" is rainbow.
func ColormapByName(name string) (Colormap, error) {
	if name == "" {
		name = "rainbow"
	}
	c, ok := colormaps[name]
	if !ok {
		return Colormap{}, fmt.Errorf("unknown colormap %q", name)
	}
	return c, nil
}

// Color returns the RGB color of t in [0,1], each channel in [0,1].
func (c Colormap) Color(t Real) (r, g, b Real) {
	n := len(c.Stops) - 1
	x := clamp(t, 0, 1) * Real(n)
	k := int(math.Floor(x))
	if k >= n {
		k = n - 1
	}
	f := x - Real(k)
	lo, hi := c.Stops[k], c.Stops[k+1]
	mix := func(ch int) Real { return ((1-f)*lo[ch] + f*hi[ch]) / 255 }
	return mix(0), mix(1), mix(2)
}

var (
	unstableColor = [3]Real{0.25, 0.25, 0.25}
	failedColor   = [3]Real{0, 0, 0}
)

// cellColor colors one stability value: stable cells by the colormap
// (with gamma), unstable ones dark grey and failed ones black.
func cellColor(v Real, cmap Colormap, gamma Real) [3]Real {
	switch {
	case math.IsNaN(v):
		return failedColor
	case v > 1:
		return unstableColor
	}
	if gamma != 1 {
		v = math.Pow(v, 1.0/gamma)
	}
	r, g, b := cmap.Color(v)
	return [3]Real{r, g, b}
}
