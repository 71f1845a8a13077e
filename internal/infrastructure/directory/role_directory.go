// Package directory resolves workflow role membership from the user tables.
package directory

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/workflow"
	"github.com/tmabena/claimflow/internal/infrastructure/persistence/sqlite"
)

// SQLRoleDirectory implements port.RoleDirectory against the users and
// user_roles tables. Every call hits the store: membership can change between
// workflow steps, so nothing is cached.
type SQLRoleDirectory struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLRoleDirectory creates a new role directory
func NewSQLRoleDirectory(db *sql.DB, logger *zap.Logger) *SQLRoleDirectory {
	return &SQLRoleDirectory{
		db:     db,
		logger: logger,
	}
}

// UsersInRole returns the ids of every user currently holding the role
func (d *SQLRoleDirectory) UsersInRole(ctx context.Context, role workflow.Role) ([]string, error) {
	query := `
		SELECT u.id
		FROM users u
		INNER JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role = ?
		ORDER BY u.id
	`

	rows, err := d.getExecutor(ctx).QueryContext(ctx, query, role.String())
	if err != nil {
		d.logger.Error("Failed to query role members",
			zap.String("role", role.String()),
			zap.Error(err))
		return nil, fmt.Errorf("query role members: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan role member: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, rows.Err()
}

// getExecutor returns the transaction carried by the context, or the database
func (d *SQLRoleDirectory) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return d.db
}

// Verify interface compliance
var _ port.RoleDirectory = (*SQLRoleDirectory)(nil)
