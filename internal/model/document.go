package model

import "time"

// DefaultSessionCount is the number of meetings planned when a document does not say otherwise.
const DefaultSessionCount = 12

// Document represents an RPP (lesson-plan) record.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID            int64     `json:"id"`
	Subject       string    `json:"subject"`
	TeacherName   string    `json:"teacherName"`
	Phase         string    `json:"phase"`
	Semester      string    `json:"semester"`
	AcademicYear  string    `json:"academicYear"`
	Assessment    string    `json:"assessment"`
	SessionCount  int       `json:"sessionCount"`
	AttachmentURL *string   `json:"attachmentUrl"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Attachment returns the attachment URL or "" when unset.
func (d *Document) Attachment() string {
	if d.AttachmentURL == nil {
		return ""
	}
	return *d.AttachmentURL
}

// DocumentPatch carries a partial update. Nil pointers and empty strings leave the stored value untouched;
// AttachmentURL distinguishes an absent field from an explicit null or empty value.
type DocumentPatch struct {
	Subject       *string        `json:"subject"`
	TeacherName   *string        `json:"teacherName"`
	Phase         *string        `json:"phase"`
	Semester      *string        `json:"semester"`
	AcademicYear  *string        `json:"academicYear"`
	Assessment    *string        `json:"assessment"`
	SessionCount  *int           `json:"sessionCount"`
	AttachmentURL OptionalString `json:"attachmentUrl"`
}
