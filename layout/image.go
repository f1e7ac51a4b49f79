package layout

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultDPI is the pixel density assumed when an image carries none.
const DefaultDPI = 72.0

// Inches converts a length in inches to points.
func Inches(v float64) Abs {
	return Abs(v * 72.0)
}

// Image is a decoded raster image: its raw bytes plus the pixel
// dimensions and density layout sizes against.
type Image struct {
	// Data is the encoded image file.
	Data []byte
	// Format is the decoded format name ("png", "jpeg", ...).
	Format string
	// Width and Height are the pixel dimensions.
	Width, Height int
	// DPI is the pixel density; nil means DefaultDPI.
	DPI *float64
}

// DecodeImage recovers an image's pixel dimensions and format from its
// raw bytes without decoding the pixel data itself.
func DecodeImage(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unknown image format: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no extent")
	}
	return &Image{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// NaturalSize is the image's size in points at its density.
func (img *Image) NaturalSize() Size {
	dpi := DefaultDPI
	if img.DPI != nil && *img.DPI > 0 {
		dpi = *img.DPI
	}
	return Size{
		Width:  Inches(float64(img.Width) / dpi),
		Height: Inches(float64(img.Height) / dpi),
	}
}

// ImageFit selects how an image adapts to its target area.
type ImageFit int

const (
	// ImageFitContain scales the image to fit inside the area, keeping
	// its aspect ratio.
	ImageFitContain ImageFit = iota
	// ImageFitCover scales the image to cover the area, keeping its
	// aspect ratio; overflow is clipped by the consumer.
	ImageFitCover
	// ImageFitStretch distorts the image to exactly the area.
	ImageFitStretch
)

// ImageElem is an image placed into flow layout.
type ImageElem struct {
	// Image is the decoded image.
	Image *Image
	// Fit determines how the image fills its target area.
	Fit ImageFit
}

// LayoutImage sizes an image into a region: the natural size at the
// image's density, bounded by the available space, adjusted by the fit
// mode.
func LayoutImage(elem *ImageElem, region Region) (*Frame, error) {
	img := elem.Image
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("image has no extent")
	}
	ratio := float64(img.Width) / float64(img.Height)

	// The target area: forced dimensions win, otherwise the natural size
	// bounded by the region.
	natural := img.NaturalSize()
	target := Size{
		Width:  natural.Width.Min(region.Size.Width),
		Height: natural.Height.Min(region.Size.Height),
	}
	if region.Expand.X {
		target.Width = region.Size.Width
	}
	if region.Expand.Y {
		target.Height = region.Size.Height
	}

	// The fitted size inside (or over) the target.
	var fitted Size
	switch elem.Fit {
	case ImageFitStretch:
		fitted = target
	case ImageFitCover:
		fitted = Size{Width: target.Width, Height: Abs(float64(target.Width) / ratio)}
		if fitted.Height < target.Height {
			fitted = Size{Width: Abs(float64(target.Height) * ratio), Height: target.Height}
		}
	default: // contain
		fitted = Size{Width: target.Width, Height: Abs(float64(target.Width) / ratio)}
		if fitted.Height > target.Height {
			fitted = Size{Width: Abs(float64(target.Height) * ratio), Height: target.Height}
		}
	}

	frame := NewFrame(target)
	offset := Point{
		X: (target.Width - fitted.Width) / 2,
		Y: (target.Height - fitted.Height) / 2,
	}
	frame.Push(offset, ImageItem{Size: fitted})
	return frame, nil
}
