package emulator

import (
	"context"
	"image"
	"image/color"
	"strconv"

	"github.com/dshills/inkstorm/internal/render"
)

var blackGray = color.Gray{Y: 0x00}

// digits is a 3x5 bitmap font, one glyph per decimal digit.
var digits = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// PageRenderer is a stand-in document backend: each page is a bordered
// white sheet with its one-based number drawn large in the middle. It
// gives the emulator something to page through without a real book.
type PageRenderer struct{}

// Render implements render.Renderer.
func (PageRenderer) Render(_ context.Context, page int, vp render.Viewport) (image.Image, error) {
	img := render.Blank(image.Rect(0, 0, vp.Bounds.Width(), vp.Bounds.Height()))
	b := img.Bounds()

	margin := b.Dx() / 20
	drawBorder(img, margin)

	// Scale the glyphs to roughly a third of the page height.
	cell := b.Dy() / 3 / 5
	if cell < 1 {
		cell = 1
	}
	text := strconv.Itoa(page + 1)
	width := len(text)*4*cell - cell
	x := b.Min.X + (b.Dx()-width)/2
	y := b.Min.Y + (b.Dy()-5*cell)/2
	for _, r := range text {
		drawDigit(img, int(r-'0'), x, y, cell)
		x += 4 * cell
	}
	return img, nil
}

func drawBorder(img *image.Gray, margin int) {
	b := img.Bounds()
	for x := b.Min.X + margin; x < b.Max.X-margin; x++ {
		img.SetGray(x, b.Min.Y+margin, blackGray)
		img.SetGray(x, b.Max.Y-margin-1, blackGray)
	}
	for y := b.Min.Y + margin; y < b.Max.Y-margin; y++ {
		img.SetGray(b.Min.X+margin, y, blackGray)
		img.SetGray(b.Max.X-margin-1, y, blackGray)
	}
}

func drawDigit(img *image.Gray, d, x, y, cell int) {
	if d < 0 || d > 9 {
		return
	}
	for row, bits := range digits[d] {
		for col := 0; col < 3; col++ {
			if bits&(1<<(2-col)) == 0 {
				continue
			}
			for dy := 0; dy < cell; dy++ {
				for dx := 0; dx < cell; dx++ {
					img.SetGray(x+col*cell+dx, y+row*cell+dy, blackGray)
				}
			}
		}
	}
}
