package entity

import "time"

// SupportingDocument is an attachment owned by a claim. Rows are removed
// together with their claim; the stored file is the attachment store's concern.
type SupportingDocument struct {
	ID         int64     `json:"id"`
	ClaimID    int64     `json:"claim_id"`
	FileName   string    `json:"file_name"`
	StoredPath string    `json:"stored_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}
