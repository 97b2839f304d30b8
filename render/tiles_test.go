package render

import (
	"image"
	"testing"
)

func TestSplitRectCoversEveryPixelOnce(t *testing.T) {
	tests := []struct {
		name         string
		rect         image.Rectangle
		tileW, tileH int
	}{
		{"even split", image.Rect(0, 0, 128, 128), 64, 64},
		{"remainder on both edges", image.Rect(0, 0, 100, 70), 64, 64},
		{"tile larger than image", image.Rect(0, 0, 10, 10), 64, 64},
		{"single pixel tiles", image.Rect(0, 0, 5, 4), 1, 1},
		{"offset origin", image.Rect(32, 16, 96, 80), 20, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := splitRect(tt.rect, tt.tileW, tt.tileH)

			seen := make(map[image.Point]int)
			for _, tile := range tiles {
				if !tile.In(tt.rect) {
					t.Errorf("tile %v outside %v", tile, tt.rect)
				}
				for y := tile.Min.Y; y < tile.Max.Y; y++ {
					for x := tile.Min.X; x < tile.Max.X; x++ {
						seen[image.Pt(x, y)]++
					}
				}
			}

			want := tt.rect.Dx() * tt.rect.Dy()
			if len(seen) != want {
				t.Errorf("covered %d pixels, want %d", len(seen), want)
			}
			for p, n := range seen {
				if n != 1 {
					t.Fatalf("pixel %v covered %d times", p, n)
				}
			}
		})
	}
}

func TestSplitRectRejectsBadTileSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("splitRect accepted a zero tile size")
		}
	}()
	splitRect(image.Rect(0, 0, 10, 10), 0, 10)
}
