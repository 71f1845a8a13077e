package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmabena/claimflow/internal/application/port"
)

// LocalAttachmentStore implements port.AttachmentStore on the local
// filesystem. Each upload lands under the base directory with a uuid prefix so
// two documents with the same original name never collide.
type LocalAttachmentStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalAttachmentStore creates a new LocalAttachmentStore
func NewLocalAttachmentStore(baseDir string, logger *zap.Logger) (*LocalAttachmentStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalAttachmentStore{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save writes content under a uuid-prefixed name and returns the stored path
func (s *LocalAttachmentStore) Save(ctx context.Context, fileName string, content []byte) (string, error) {
	storedName := uuid.NewString() + "_" + sanitizeFileName(fileName)
	fullPath := filepath.Join(s.baseDir, storedName)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write attachment",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("write attachment: %w", err)
	}

	s.logger.Debug("Attachment saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return storedName, nil
}

// Load reads back a stored attachment's content
func (s *LocalAttachmentStore) Load(ctx context.Context, storedPath string) ([]byte, error) {
	fullPath := filepath.Join(s.baseDir, storedPath)

	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read attachment",
				zap.String("path", fullPath),
				zap.Error(err))
		}
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	return content, nil
}

// Delete removes a stored attachment. A missing file is not an error.
func (s *LocalAttachmentStore) Delete(ctx context.Context, storedPath string) error {
	fullPath := filepath.Join(s.baseDir, storedPath)

	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete attachment",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("delete attachment: %w", err)
	}

	return nil
}

// validatePath rejects paths that escape the base directory
func (s *LocalAttachmentStore) validatePath(fullPath string) error {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) {
		return fmt.Errorf("path escapes storage directory: %s", fullPath)
	}
	return nil
}

// sanitizeFileName strips directory components and whitespace from an
// uploaded file name
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(os.PathSeparator) {
		name = "attachment"
	}
	return name
}

// Verify interface compliance
var _ port.AttachmentStore = (*LocalAttachmentStore)(nil)
