package lasercavity

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// SaveStabilityPNGSequence16 writes one 16-bit PNG per Z slice of the map
// (k = 0..Nz-1), X across and Y up.
func SaveStabilityPNGSequence16(m *StabilityMap, prefix string, cmap Colormap, gamma Real) error {
	Nx, Ny, Nz := m.Nx, m.Ny, m.Nz

	toU16 := func(n Real) uint16 {
		x := math.Round(n * 65535.0)
		if x < 0 {
			return 0
		}
		if x > 65535 {
			return 65535
		}
		return uint16(x)
	}

	// Zero-padding width based on number of slices.
	width := 1
	if Nz > 1 {
		width = int(math.Log10(Real(Nz-1))) + 1
	}

	// Progress print step (~1%).
	step := 1
	if Nz >= 100 {
		step = Nz / 100
	}

	for k := 0; k < Nz; k++ {
		if k%step == 0 {
			percent := Real(k+1) * 100 / Real(Nz)
			fmt.Printf("[PNG]  %.2f%%\n", percent)
		}

		img := image.NewNRGBA64(image.Rect(0, 0, Nx, Ny))
		const pxBytes = 8 // 4 channels * 2 bytes/channel
		for j := 0; j < Ny; j++ {
			y := Ny - 1 - j
			rowOff := y * img.Stride
			for i := 0; i < Nx; i++ {
				c := cellColor(m.At(i, j, k), cmap, gamma)
				r, g, b := toU16(c[0]), toU16(c[1]), toU16(c[2])
				a := uint16(0xFFFF)

				p := rowOff + i*pxBytes
				// NRGBA64 stores big-endian uint16 per channel: R,G, B, A.
				img.Pix[p+0] = uint8(r >> 8)
				img.Pix[p+1] = uint8(r)
				img.Pix[p+2] = uint8(g >> 8)
				img.Pix[p+3] = uint8(g)
				img.Pix[p+4] = uint8(b >> 8)
				img.Pix[p+5] = uint8(b)
				img.Pix[p+6] = uint8(a >> 8)
				img.Pix[p+7] = uint8(a)
			}
		}

		full := fmt.Sprintf("%s_%0*d.png", prefix, width, k)
		f, err := os.Create(full)
		if err != nil {
			return err
		}

		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}
