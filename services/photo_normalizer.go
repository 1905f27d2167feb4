package services

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"time"

	"mini_kpi_app_go/models"

	"github.com/go-resty/resty/v2"
)

// ImageData is the terminal embeddable form of a photo: raw bytes plus a
// format tag the report builders understand.
type ImageData struct {
	Bytes []byte
	Ext   string // "png" or "jpeg"
}

const blobURIPrefix = "/blobs/"

// Blobs and Normalizer are the process-wide photo pipeline instances
var (
	Blobs      *BlobRegistry
	Normalizer *PhotoNormalizer
)

// InitializePhotoPipeline sets up the shared blob registry and normalizer
func InitializePhotoPipeline() {
	Blobs = NewBlobRegistry()
	Normalizer = NewPhotoNormalizer(Blobs)
}

// PhotoNormalizer turns the heterogeneous stored photo representations into
// the two shapes the rest of the system needs: a displayable source URI and
// an embeddable byte buffer. Resolution follows a fixed priority: permanent
// base64 first, then in-row binary, then transient or legacy references.
type PhotoNormalizer struct {
	registry *BlobRegistry
	client   *resty.Client
}

func NewPhotoNormalizer(registry *BlobRegistry) *PhotoNormalizer {
	return &PhotoNormalizer{
		registry: registry,
		client:   resty.New().SetTimeout(10 * time.Second),
	}
}

// DisplaySource resolves a photo to a URI the UI can put in an img tag.
// Transient references minted here belong to the given scope and die with
// it. An empty return means "show a placeholder".
func (n *PhotoNormalizer) DisplaySource(scope string, p *models.Photo) string {
	if p == nil {
		return ""
	}

	if p.Data != "" {
		if strings.HasPrefix(p.Data, "data:") {
			return p.Data
		}
		return "data:image/jpeg;base64," + p.Data
	}

	if len(p.Blob) > 0 {
		return n.registry.Add(scope, p.Blob, p.MimeType)
	}

	// Possibly stale after a restart; the caller accepts that.
	if p.BlobURL != "" {
		return p.BlobURL
	}
	if p.URL != "" {
		return p.URL
	}

	return ""
}

// ImageBuffer resolves a photo to raw bytes plus a png/jpeg tag for
// embedding. Any failure along the way (malformed data URI, dead reference,
// fetch error) yields nil: the photo is skipped in the output and the rest
// of the report proceeds.
func (n *PhotoNormalizer) ImageBuffer(p *models.Photo) *ImageData {
	if p == nil {
		return nil
	}

	if p.Data != "" {
		return decodeBase64Payload(p.Data)
	}

	if len(p.Blob) > 0 {
		return &ImageData{Bytes: p.Blob, Ext: guessExt(p.FileName, p.MimeType)}
	}

	src := p.BlobURL
	if src == "" {
		src = p.URL
	}
	if src == "" {
		return nil
	}

	data, mimeType, ok := n.fetch(src)
	if !ok {
		return nil
	}
	ext := guessExt(p.FileName, p.MimeType)
	if ext != "png" && strings.Contains(mimeType, "png") {
		ext = "png"
	}
	return &ImageData{Bytes: data, Ext: ext}
}

// DataURL resolves a photo to a self-contained data URI for inlining into
// the printable report. Empty string means unresolvable.
func (n *PhotoNormalizer) DataURL(p *models.Photo) string {
	if p == nil {
		return ""
	}

	if p.Data != "" {
		if strings.HasPrefix(p.Data, "data:") {
			return p.Data
		}
		return "data:image/jpeg;base64," + p.Data
	}

	if len(p.Blob) > 0 {
		mimeType := p.MimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(p.Blob)
	}

	src := p.BlobURL
	if src == "" {
		src = p.URL
	}
	if src == "" {
		return ""
	}
	data, mimeType, ok := n.fetch(src)
	if !ok {
		return ""
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// fetch reads bytes behind a transient or legacy reference. Registry URIs
// are served from memory, anything else goes over HTTP.
func (n *PhotoNormalizer) fetch(src string) ([]byte, string, bool) {
	if strings.HasPrefix(src, blobURIPrefix) {
		data, mimeType, ok := n.registry.Get(strings.TrimPrefix(src, blobURIPrefix))
		return data, mimeType, ok
	}

	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return nil, "", false
	}

	resp, err := n.client.R().Get(src)
	if err != nil || resp.IsError() {
		return nil, "", false
	}
	return resp.Body(), resp.Header().Get("Content-Type"), true
}

// decodeBase64Payload decodes either a full data URI or a bare base64 string
// (assumed JPEG). Returns nil on malformed input.
func decodeBase64Payload(payload string) *ImageData {
	ext := "jpeg"
	b64 := payload

	if strings.HasPrefix(payload, "data:") {
		head, rest, found := strings.Cut(payload, ",")
		if !found {
			return nil
		}
		if strings.Contains(head, "image/png") {
			ext = "png"
		}
		b64 = rest
	}

	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil
	}
	return &ImageData{Bytes: decoded, Ext: ext}
}

// guessExt picks png only when the file name or mime type explicitly says
// so; jpeg is the default for everything else.
func guessExt(fileName, mimeType string) string {
	if strings.EqualFold(filepath.Ext(fileName), ".png") || mimeType == "image/png" {
		return "png"
	}
	return "jpeg"
}
