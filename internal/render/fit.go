package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FitRect computes the largest rectangle with src's aspect ratio that
// fits inside dst, centered.
func FitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return image.Rectangle{}
	}

	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}

	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Fit scales src onto a white canvas of the given bounds, preserving
// aspect ratio and centering. Grayscale output matches what the panel
// can show.
func Fit(src image.Image, bounds image.Rectangle) *image.Gray {
	dst := image.NewGray(bounds)
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}

	target := FitRect(src.Bounds(), bounds)
	if target.Empty() {
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, target, src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Blank returns a white page of the given bounds.
func Blank(bounds image.Rectangle) *image.Gray {
	dst := image.NewGray(bounds)
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Invert flips a grayscale image in place, for night reading.
func Invert(img *image.Gray) {
	for i, p := range img.Pix {
		img.Pix[i] = 0xff - p
	}
}
