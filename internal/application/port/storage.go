package port

import "context"

// AttachmentStore persists supporting-document content. The core references
// stored files by the path the store hands back and never inspects them.
type AttachmentStore interface {
	// Save writes content under a unique name derived from fileName and
	// returns the stored path.
	Save(ctx context.Context, fileName string, content []byte) (string, error)

	// Load reads back the content of a previously stored attachment.
	Load(ctx context.Context, storedPath string) ([]byte, error)

	Delete(ctx context.Context, storedPath string) error
}
