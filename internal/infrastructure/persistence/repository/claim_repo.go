package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/domain/workflow"
	"github.com/tmabena/claimflow/internal/infrastructure/persistence/sqlite"
)

// ClaimRepository implements port.ClaimRepository over sqlite
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

const claimColumns = `id, owner_id, lecturer_name, hours_worked, hourly_rate,
	total_amount, notes, status, submitted_at, version, created_at, updated_at`

// Create inserts a new claim
func (r *ClaimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	query := `
		INSERT INTO claims (
			owner_id, lecturer_name, hours_worked, hourly_rate, total_amount,
			notes, status, submitted_at, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		claim.OwnerID,
		claim.LecturerName,
		claim.HoursWorked,
		claim.HourlyRate,
		claim.TotalAmount,
		claim.Notes,
		claim.Status.String(),
		claim.SubmittedAt,
		claim.Version,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create claim",
			zap.String("owner_id", claim.OwnerID),
			zap.Error(err))
		return fmt.Errorf("create claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	claim.ID = id
	return nil
}

// GetByID retrieves a claim with its documents
func (r *ClaimRepository) GetByID(ctx context.Context, id int64) (*entity.Claim, error) {
	query := fmt.Sprintf(`SELECT %s FROM claims WHERE id = ?`, claimColumns)

	claim, err := r.scanClaim(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("claim %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get claim", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get claim: %w", err)
	}

	docs, err := r.documentsForClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	claim.Documents = docs

	return claim, nil
}

// Update rewrites the mutable claim fields. Owner and id stay untouched. The
// status guard keeps an edit racing a transition from rewriting a claim that
// review has already picked up: zero rows then re-reads to tell a missing
// claim apart from one that left the editable states.
func (r *ClaimRepository) Update(ctx context.Context, claim *entity.Claim) error {
	query := `
		UPDATE claims
		SET lecturer_name = ?, hours_worked = ?, hourly_rate = ?,
			total_amount = ?, notes = ?, submitted_at = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)
	`

	claim.UpdatedAt = time.Now().UTC()

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		claim.LecturerName,
		claim.HoursWorked,
		claim.HourlyRate,
		claim.TotalAmount,
		claim.Notes,
		claim.SubmittedAt,
		claim.UpdatedAt,
		claim.ID,
		workflow.StateSubmitted.String(),
		workflow.StateSentBack.String(),
	)
	if err != nil {
		r.logger.Error("Failed to update claim", zap.Int64("id", claim.ID), zap.Error(err))
		return fmt.Errorf("update claim: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var status string
		err := r.getExecutor(ctx).QueryRowContext(ctx,
			`SELECT status FROM claims WHERE id = ?`, claim.ID).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("claim %d: %w", claim.ID, entity.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("recheck claim: %w", err)
		}
		return fmt.Errorf("claim %d is %s: %w", claim.ID, status, entity.ErrConflict)
	}

	return nil
}

// UpdateStatus performs the conditional status write that serializes
// transitions per claim. The row only changes if it is still in the expected
// state, so of two concurrent transitions exactly one sees updated=true.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id int64, from, to workflow.State) (bool, error) {
	query := `
		UPDATE claims
		SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		to.String(), time.Now().UTC(), id, from.String())
	if err != nil {
		r.logger.Error("Failed to update claim status",
			zap.Int64("id", id),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err))
		return false, fmt.Errorf("update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// List retrieves claims matching the filter, newest submissions first
func (r *ClaimRepository) List(ctx context.Context, filter entity.ClaimFilter) ([]*entity.Claim, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status.String())
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, s.String())
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.Search != "" {
		conditions = append(conditions, "(lecturer_name LIKE ? OR notes LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := fmt.Sprintf(`SELECT %s FROM claims`, claimColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY submitted_at DESC, id DESC"

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list claims", zap.Error(err))
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		claim, err := r.scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}

	return claims, nil
}

// SumHoursForMonth totals the owner's hours in a calendar month, excluding one claim
func (r *ClaimRepository) SumHoursForMonth(ctx context.Context, ownerID string, year int, month time.Month, excludeID int64) (float64, error) {
	query := `
		SELECT COALESCE(SUM(hours_worked), 0)
		FROM claims
		WHERE owner_id = ?
			AND id != ?
			AND CAST(strftime('%Y', submitted_at) AS INTEGER) = ?
			AND CAST(strftime('%m', submitted_at) AS INTEGER) = ?
	`

	var total float64
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, ownerID, excludeID, year, int(month)).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum monthly hours",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return 0, fmt.Errorf("sum monthly hours: %w", err)
	}

	return total, nil
}

// CountDuplicates counts the owner's other claims in the month with identical hours and rate
func (r *ClaimRepository) CountDuplicates(ctx context.Context, ownerID string, hours, rate float64, year int, month time.Month, excludeID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM claims
		WHERE owner_id = ?
			AND id != ?
			AND hours_worked = ?
			AND hourly_rate = ?
			AND CAST(strftime('%Y', submitted_at) AS INTEGER) = ?
			AND CAST(strftime('%m', submitted_at) AS INTEGER) = ?
	`

	var count int
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, ownerID, excludeID, hours, rate, year, int(month)).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count duplicate claims",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return 0, fmt.Errorf("count duplicates: %w", err)
	}

	return count, nil
}

// Delete removes a claim. Document rows cascade through the foreign key.
func (r *ClaimRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete claim", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete claim: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("claim %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *ClaimRepository) scanClaim(row scanner) (*entity.Claim, error) {
	var (
		claim  entity.Claim
		status string
		notes  sql.NullString
	)

	err := row.Scan(
		&claim.ID,
		&claim.OwnerID,
		&claim.LecturerName,
		&claim.HoursWorked,
		&claim.HourlyRate,
		&claim.TotalAmount,
		&notes,
		&status,
		&claim.SubmittedAt,
		&claim.Version,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	claim.Status = workflow.State(status)
	if notes.Valid {
		claim.Notes = notes.String
	}

	return &claim, nil
}

func (r *ClaimRepository) documentsForClaim(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
	query := `
		SELECT id, claim_id, file_name, stored_path, uploaded_at
		FROM supporting_documents
		WHERE claim_id = ?
		ORDER BY uploaded_at ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, claimID)
	if err != nil {
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

// getExecutor returns the transaction carried by the context, or the database
func (r *ClaimRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.ClaimRepository = (*ClaimRepository)(nil)
