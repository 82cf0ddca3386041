// renderer/texture.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/mmp/spritebench/log"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LoadTexture decodes the image in the given file, flips it vertically so
// that its first row is at v=0 in texture space, and creates a device
// texture from it.
func LoadTexture(dev Device, filename string, lg *log.Logger) (Texture, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Texture{}, fmt.Errorf("texture %s: %w", filename, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Texture{}, fmt.Errorf("texture %s: %w", filename, err)
	}

	tex, err := dev.CreateTextureFromImage(FlipVertical(img))
	if err != nil {
		return Texture{}, fmt.Errorf("texture %s: %w", filename, err)
	}

	lg.Info("Loaded texture", "file", filename, "format", format, "width", tex.Width,
		"height", tex.Height, "id", tex.ID)
	return tex, nil
}

// DummyTexture creates a 1x1 opaque white texture.
func DummyTexture(dev Device) (Texture, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	tex, err := dev.CreateTextureFromImage(img)
	if err != nil {
		return Texture{}, fmt.Errorf("dummy texture: %w", err)
	}
	return tex, nil
}

// FlipVertical returns an RGBA copy of the image with its rows in
// reverse order and its origin at (0,0).
func FlipVertical(img image.Image) *image.RGBA {
	rgba := toRGBA(img)
	if rgba == img {
		// Don't modify the caller's image.
		rgba = image.NewRGBA(rgba.Rect)
		copy(rgba.Pix, img.(*image.RGBA).Pix)
	}

	ny, stride := rgba.Rect.Dy(), rgba.Stride
	row := make([]byte, stride)
	for y := 0; y < ny/2; y++ {
		top := rgba.Pix[y*stride : (y+1)*stride]
		bottom := rgba.Pix[(ny-1-y)*stride : (ny-y)*stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return rgba
}

// toRGBA returns the image as a tightly packed *image.RGBA with its
// origin at (0,0), converting it if necessary.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	return rgba
}
