package theme

import (
	"bytes"
	"image"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// paletteBits is the per-channel precision used when bucketing pixels.
// 4 bits gives 4096 buckets, enough to separate dominant colors without
// splitting flat regions across neighbors.
const paletteBits = 4

// sampleStride skips pixels while counting; dominant colors survive
// subsampling and large backgrounds decode fast.
const sampleStride = 4

// ExtractPalette decodes an image and returns its n most frequent
// colors, most frequent first. Pixels are bucketed at reduced precision
// and each bucket reports the average of its members, so the palette
// tracks the actual image colors rather than bucket centers. Decode
// errors return the error; images with fewer distinct colors return a
// shorter palette.
func ExtractPalette(data []byte, n int) ([]RGB, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count   int
		r, g, b uint64
	}
	buckets := map[uint32]*bucket{}
	bounds := img.Bounds()
	shift := 8 - paletteBits
	for y := bounds.Min.Y; y < bounds.Max.Y; y += sampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += sampleStride {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			key := uint32(r8>>shift)<<(2*paletteBits) |
				uint32(g8>>shift)<<paletteBits |
				uint32(b8>>shift)
			bk := buckets[key]
			if bk == nil {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += uint64(r8)
			bk.g += uint64(g8)
			bk.b += uint64(b8)
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		ordered = append(ordered, bk)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].count > ordered[j].count
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	palette := make([]RGB, len(ordered))
	for i, bk := range ordered {
		c := uint64(bk.count)
		palette[i] = RGB{
			R: uint8(bk.r / c),
			G: uint8(bk.g / c),
			B: uint8(bk.b / c),
		}
	}
	return palette, nil
}
