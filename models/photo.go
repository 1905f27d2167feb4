package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo is one image attached to an activity. A photo accumulates several
// equivalent representations over its life; exactly which are populated
// depends on how and when it was captured or edited:
//
//   - Data: base64 payload or full data URI. The permanent form, the only
//     one that survives across sessions.
//   - Blob: raw bytes held in the row. Valid, but sessions should prefer Data.
//   - BlobURL: transient reference served from the in-process blob registry,
//     dead after restart or scope release.
//   - URL: legacy plain URL from older records, possibly dead.
//
// Resolution order for display and embedding lives in services, not here.
type Photo struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ActivityID string `gorm:"index;not null" json:"activity_id"`
	Position   int    `gorm:"not null;default:0" json:"position"`

	Data     string `gorm:"type:text" json:"data,omitempty"`
	Blob     []byte `gorm:"type:blob" json:"-"`
	BlobURL  string `gorm:"-" json:"blob_url,omitempty"`
	URL      string `json:"url,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Photo model
func (Photo) TableName() string {
	return "photos"
}

// IsPNG guesses whether the photo should be treated as PNG. Anything that
// does not explicitly declare PNG by mime type or file extension is JPEG.
func (p *Photo) IsPNG() bool {
	if strings.EqualFold(p.MimeType, "image/png") {
		return true
	}
	return strings.EqualFold(filepath.Ext(p.FileName), ".png")
}
