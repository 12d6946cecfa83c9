// Package imaging normalizes uploaded item photos: format sniffing,
// downscaling and re-encoding before the bytes hit the database.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// maxEdge is the maximum width or height for stored photos. Item photos are
// thumbnails on the inventory page, anything bigger is wasted blob space.
const maxEdge = 800

// jpegQuality is the compression quality for re-encoded photos.
const jpegQuality = 80

// Normalize validates a photo by sniffing its bytes, downscales it to fit
// maxEdge and re-encodes it as JPEG. It returns the encoded bytes and the
// output MIME type. Only JPEG and PNG input is accepted.
func Normalize(data []byte) ([]byte, string, error) {
	switch mime := http.DetectContentType(data); mime {
	case "image/jpeg", "image/png":
	default:
		return nil, "", fmt.Errorf("unsupported photo format %s, want JPEG or PNG", mime)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding photo: %w", err)
	}

	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w > maxEdge || h > maxEdge {
		img = scaleToFit(img, maxEdge)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding photo: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// scaleToFit resizes img so its longest edge equals maxDim, preserving the
// aspect ratio.
func scaleToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
