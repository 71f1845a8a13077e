package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/infrastructure/persistence/sqlite"
)

// LecturerRepository implements port.LecturerRepository over sqlite
type LecturerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLecturerRepository creates a new lecturer repository
func NewLecturerRepository(db *sql.DB, logger *zap.Logger) port.LecturerRepository {
	return &LecturerRepository{
		db:     db,
		logger: logger,
	}
}

const lecturerColumns = `id, full_name, id_number, email, default_hourly_rate, bank_name, bank_account_number`

// Create inserts a new lecturer record
func (r *LecturerRepository) Create(ctx context.Context, lecturer *entity.Lecturer) error {
	query := `
		INSERT INTO lecturers (full_name, id_number, email, default_hourly_rate, bank_name, bank_account_number)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		lecturer.FullName,
		lecturer.IDNumber,
		lecturer.Email,
		lecturer.DefaultHourlyRate,
		lecturer.BankName,
		lecturer.BankAccountNumber,
	)
	if err != nil {
		r.logger.Error("Failed to create lecturer",
			zap.String("email", lecturer.Email),
			zap.Error(err))
		return fmt.Errorf("create lecturer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	lecturer.ID = id
	return nil
}

// Update rewrites a lecturer record
func (r *LecturerRepository) Update(ctx context.Context, lecturer *entity.Lecturer) error {
	query := `
		UPDATE lecturers
		SET full_name = ?, id_number = ?, email = ?, default_hourly_rate = ?,
			bank_name = ?, bank_account_number = ?
		WHERE id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		lecturer.FullName,
		lecturer.IDNumber,
		lecturer.Email,
		lecturer.DefaultHourlyRate,
		lecturer.BankName,
		lecturer.BankAccountNumber,
		lecturer.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update lecturer", zap.Int64("id", lecturer.ID), zap.Error(err))
		return fmt.Errorf("update lecturer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("lecturer %d: %w", lecturer.ID, entity.ErrNotFound)
	}

	return nil
}

// GetByEmail retrieves a lecturer by email
func (r *LecturerRepository) GetByEmail(ctx context.Context, email string) (*entity.Lecturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecturers WHERE email = ?`, lecturerColumns)
	return r.scanLecturer(r.getExecutor(ctx).QueryRowContext(ctx, query, email), email)
}

// GetByID retrieves a lecturer by id
func (r *LecturerRepository) GetByID(ctx context.Context, id int64) (*entity.Lecturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecturers WHERE id = ?`, lecturerColumns)
	return r.scanLecturer(r.getExecutor(ctx).QueryRowContext(ctx, query, id), id)
}

// List retrieves every lecturer, ordered by name
func (r *LecturerRepository) List(ctx context.Context) ([]*entity.Lecturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecturers ORDER BY full_name ASC, id ASC`, lecturerColumns)

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list lecturers", zap.Error(err))
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	defer rows.Close()

	var lecturers []*entity.Lecturer
	for rows.Next() {
		var lecturer entity.Lecturer
		err := rows.Scan(
			&lecturer.ID,
			&lecturer.FullName,
			&lecturer.IDNumber,
			&lecturer.Email,
			&lecturer.DefaultHourlyRate,
			&lecturer.BankName,
			&lecturer.BankAccountNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lecturer: %w", err)
		}
		lecturers = append(lecturers, &lecturer)
	}

	return lecturers, rows.Err()
}

// Delete removes a lecturer record
func (r *LecturerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM lecturers WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete lecturer", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete lecturer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("lecturer %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

func (r *LecturerRepository) scanLecturer(row *sql.Row, key interface{}) (*entity.Lecturer, error) {
	var lecturer entity.Lecturer
	err := row.Scan(
		&lecturer.ID,
		&lecturer.FullName,
		&lecturer.IDNumber,
		&lecturer.Email,
		&lecturer.DefaultHourlyRate,
		&lecturer.BankName,
		&lecturer.BankAccountNumber,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lecturer %v: %w", key, entity.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get lecturer", zap.Any("key", key), zap.Error(err))
		return nil, fmt.Errorf("get lecturer: %w", err)
	}

	return &lecturer, nil
}

// getExecutor returns the transaction carried by the context, or the database
func (r *LecturerRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.LecturerRepository = (*LecturerRepository)(nil)
