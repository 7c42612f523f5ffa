package lasercavity

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
)

// SaveStabilityGIF writes a GIF with one frame per Z slice of the map.
// delay is in 100ths of a second (e.g., 5 => 20 fps).
func SaveStabilityGIF(m *StabilityMap, path string, cmap Colormap, delay int, gamma Real) error {
	Nx, Ny, Nz := m.Nx, m.Ny, m.Nz

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, Nz),
		Delay:     make([]int, 0, Nz),
		LoopCount: 0,
	}
	rgba := image.NewNRGBA(image.Rect(0, 0, Nx, Ny))

	toByte := func(n Real) uint8 {
		return uint8(math.Round(clamp(n, 0, 1) * 255))
	}

	for k := 0; k < Nz; k++ {
		if k%imax(1, Nz/100) == 0 { // ~1% steps
			percent := Real(k+1) * 100 / Real(Nz)
			fmt.Printf("[GIF] %.2f%%\n", percent)
		}

		// fill RGBA (flip Y so up is up)
		for j := 0; j < Ny; j++ {
			y := Ny - 1 - j
			rowOff := y * rgba.Stride
			for i := 0; i < Nx; i++ {
				c := cellColor(m.At(i, j, k), cmap, gamma)
				p := rowOff + i*4
				rgba.Pix[p+0] = toByte(c[0])
				rgba.Pix[p+1] = toByte(c[1])
				rgba.Pix[p+2] = toByte(c[2])
				rgba.Pix[p+3] = 255
			}
		}

		// Quantize to paletted for GIF
		pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})

		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, out)
}
