package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact type constants. The values are kept in the field team's language
// because existing databases and exports already contain them.
const (
	ContactTypeInPerson  = "fizicki"
	ContactTypePhone     = "telefon"
	ContactTypeEmail     = "email"
	ContactTypeMessaging = "viber"
	ContactTypeOther     = "drugo"
)

// MaxPhotosPerActivity caps attachments at entry time, not at persistence time.
const MaxPhotosPerActivity = 10

// Activity is one logged customer interaction.
//
// Date is stored as a plain "YYYY-MM-DD" string and indexed: day and period
// queries rely on lexicographic ordering of that column, so the format must
// never vary in length or separator.
type Activity struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date            string `gorm:"index;not null" json:"date"`
	Customer        string `gorm:"not null" json:"customer"`
	Location        string `json:"location,omitempty"`
	ContactType     string `gorm:"index;not null" json:"contact_type"`
	Subject         string `gorm:"type:text" json:"subject,omitempty"`
	Conclusion      string `gorm:"type:text" json:"conclusion,omitempty"`
	NextStep        string `gorm:"type:text" json:"next_step,omitempty"`
	Note            string `gorm:"type:text" json:"note,omitempty"`
	CompetitionNote string `gorm:"type:text" json:"competition_note,omitempty"`
	CRMUpdated      bool   `json:"crm_updated"`

	Photos []Photo `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`

	// Unknown fields preserved round-trip for older records. Kept out of the
	// typed schema and interpreted only at the editing boundary.
	Extra ExtraFields `gorm:"type:text" json:"extra,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Activity model
func (Activity) TableName() string {
	return "activities"
}

// IsValidContactType checks the contact type against the fixed enumeration
func IsValidContactType(ct string) bool {
	switch ct {
	case ContactTypeInPerson, ContactTypePhone, ContactTypeEmail, ContactTypeMessaging, ContactTypeOther:
		return true
	}
	return false
}

// IsInPersonContact reports whether the contact type indicates a physical
// customer visit. Matches loosely so legacy free-form values still count.
func (a *Activity) IsInPersonContact() bool {
	ct := strings.ToLower(a.ContactType)
	return strings.Contains(ct, "fiz") || strings.Contains(ct, "posjet")
}

// PhotoCount returns the number of attached photos
func (a *Activity) PhotoCount() int {
	return len(a.Photos)
}

// HasCompetitionNote reports whether the competition note carries content
func (a *Activity) HasCompetitionNote() bool {
	return strings.TrimSpace(a.CompetitionNote) != ""
}

// CombinedText joins the free-text fields scanned by the keyword metrics
func (a *Activity) CombinedText() string {
	return a.Subject + " " + a.Note + " " + a.Conclusion
}
