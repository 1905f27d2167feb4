package services

import (
	"bytes"
	"log"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxDimension = 1600
	DefaultJPEGQuality  = 0.8
)

// CompressOptions control downscaling and re-encoding of captured images
type CompressOptions struct {
	MaxDimension int     // longer side after scaling, 0 means default
	Quality      float64 // JPEG quality in (0, 1], 0 means default
}

// CompressImage bounds the stored size of a newly captured image: it scales
// the image so the longer side fits MaxDimension and re-encodes it, PNG
// staying lossless PNG and everything else becoming JPEG at the given
// quality. An image that already fits and is already JPEG or PNG is returned
// byte-identical, so the no-op path never loses quality.
//
// Compression is a best-effort optimization and must never block saving: any
// decode or encode failure returns the original bytes and mime unchanged.
func CompressImage(data []byte, mimeType string, opts CompressOptions) ([]byte, string) {
	maxDim := opts.MaxDimension
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	quality := opts.Quality
	if quality <= 0 || quality > 1 {
		quality = DefaultJPEGQuality
	}

	srcMime := strings.ToLower(mimeType)
	if srcMime == "" {
		srcMime = "image/jpeg"
	}
	isPNG := strings.Contains(srcMime, "png")
	isJPEG := strings.Contains(srcMime, "jpeg") || strings.Contains(srcMime, "jpg")

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("CompressImage: decode failed, keeping original: %v", err)
		return data, mimeType
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longer := width
	if height > longer {
		longer = height
	}

	scale := 1.0
	if longer > maxDim {
		scale = float64(maxDim) / float64(longer)
	}

	// Already small enough and already a good format: no recompress.
	if scale == 1.0 && (isJPEG || isPNG) {
		return data, mimeType
	}

	targetW := int(float64(width)*scale + 0.5)
	targetH := int(float64(height)*scale + 0.5)
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	resized := imaging.Resize(img, targetW, targetH, imaging.Lanczos)

	var buf bytes.Buffer
	if isPNG {
		err = imaging.Encode(&buf, resized, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(int(quality*100)))
	}
	if err != nil {
		log.Printf("CompressImage: encode failed, keeping original: %v", err)
		return data, mimeType
	}

	if isPNG {
		return buf.Bytes(), "image/png"
	}
	return buf.Bytes(), "image/jpeg"
}
