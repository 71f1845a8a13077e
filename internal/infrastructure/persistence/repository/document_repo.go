package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/infrastructure/persistence/sqlite"
)

// DocumentRepository implements port.DocumentRepository over sqlite
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a supporting document against a claim
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.SupportingDocument) error {
	query := `
		INSERT INTO supporting_documents (claim_id, file_name, stored_path, uploaded_at)
		VALUES (?, ?, ?, ?)
	`

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		doc.ClaimID,
		doc.FileName,
		doc.StoredPath,
		doc.UploadedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create document",
			zap.Int64("claim_id", doc.ClaimID),
			zap.Error(err))
		return fmt.Errorf("create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves one document by id
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*entity.SupportingDocument, error) {
	query := `
		SELECT id, claim_id, file_name, stored_path, uploaded_at
		FROM supporting_documents
		WHERE id = ?
	`

	var doc entity.SupportingDocument
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.ClaimID,
		&doc.FileName,
		&doc.StoredPath,
		&doc.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get document", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// GetByClaimID retrieves a claim's documents in upload order
func (r *DocumentRepository) GetByClaimID(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
	query := `
		SELECT id, claim_id, file_name, stored_path, uploaded_at
		FROM supporting_documents
		WHERE claim_id = ?
		ORDER BY uploaded_at ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get documents", zap.Int64("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("get documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.SupportingDocument
	for rows.Next() {
		var doc entity.SupportingDocument
		if err := rows.Scan(&doc.ID, &doc.ClaimID, &doc.FileName, &doc.StoredPath, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// Delete removes one document row
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM supporting_documents WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete document", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

// DeleteByClaimID removes all document rows for a claim
func (r *DocumentRepository) DeleteByClaimID(ctx context.Context, claimID int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM supporting_documents WHERE claim_id = ?`, claimID)
	if err != nil {
		r.logger.Error("Failed to delete documents", zap.Int64("claim_id", claimID), zap.Error(err))
		return fmt.Errorf("delete documents: %w", err)
	}

	return nil
}

// getExecutor returns the transaction carried by the context, or the database
func (r *DocumentRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
