package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrImageTooLarge    = errors.New("image too large")
)

// MaxPixels caps the declared dimensions of an input image. Headers are checked
// before any pixel data is decoded.
const MaxPixels = 40_000_000

type Format string

const (
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JPEG, WebP:
		return Format(s), nil
	}
	return "", fmt.Errorf("media: unknown format %q", s)
}

func (f Format) Ext() string {
	return string(f)
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Profile is the output geometry and encoder quality for one kind of image.
type Profile struct {
	Width   int
	Height  int
	Quality int
}

var (
	ProfilePhoto = Profile{Width: 300, Height: 300, Quality: 80}
	ListingPhoto = Profile{Width: 1440, Height: 960, Quality: 90}
)

// Process decodes src, crops it around the centre to the profile's aspect ratio,
// scales it to the profile size and encodes it as f.
func Process(src io.Reader, p Profile, f Format) ([]byte, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("media: read: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, cover(img.Bounds(), p.Width, p.Height), draw.Src, nil)

	var buf bytes.Buffer
	switch f {
	case WebP:
		err = webp.Encode(&buf, dst, &webp.Options{Quality: float32(p.Quality)})
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.Quality})
	}
	if err != nil {
		return nil, fmt.Errorf("media: encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// cover returns the largest centred region of b with the aspect ratio w:h.
func cover(b image.Rectangle, w, h int) image.Rectangle {
	sw, sh := b.Dx(), b.Dy()
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := b.Min.X + (sw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := sw * h / w
	y0 := b.Min.Y + (sh-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}
