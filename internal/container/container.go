// Package container wires the application dependencies in order: database,
// repositories, collaborators, services. Teardown runs in reverse.
package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/application/service"
	"github.com/tmabena/claimflow/internal/config"
	"github.com/tmabena/claimflow/internal/infrastructure/directory"
	"github.com/tmabena/claimflow/internal/infrastructure/persistence/repository"
	"github.com/tmabena/claimflow/internal/infrastructure/persistence/sqlite"
	"github.com/tmabena/claimflow/internal/infrastructure/storage"
	"github.com/tmabena/claimflow/pkg/database"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Claim        port.ClaimRepository
	Notification port.NotificationRepository
	Document     port.DocumentRepository
	Lecturer     port.LecturerRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Claim        service.ClaimService
	Verification service.VerificationService
	Notification service.NotificationService
	Lecturer     service.LecturerService
}

// Container holds the wired application graph.
type Container struct {
	db           *database.DB
	txManager    *sqlite.DB
	Repositories *RepositoryBundle
	Directory    port.RoleDirectory
	Attachments  port.AttachmentStore
	Services     *ServiceBundle
	logger       *zap.Logger
}

// New builds the application graph from configuration. The database must
// already be migrated.
func New(cfg *config.Config, db *database.DB, logger *zap.Logger) (*Container, error) {
	txManager := sqlite.NewDB(db.DB, logger)

	repos := &RepositoryBundle{
		Claim:        repository.NewClaimRepository(db.DB, logger),
		Notification: repository.NewNotificationRepository(db.DB, logger),
		Document:     repository.NewDocumentRepository(db.DB, logger),
		Lecturer:     repository.NewLecturerRepository(db.DB, logger),
	}

	roleDirectory := directory.NewSQLRoleDirectory(db.DB, logger)

	attachments, err := storage.NewLocalAttachmentStore(cfg.Storage.UploadDir, logger)
	if err != nil {
		return nil, fmt.Errorf("init attachment store: %w", err)
	}

	serviceLogger := &zapLoggerAdapter{logger: logger}

	notifications := service.NewNotificationService(repos.Notification, roleDirectory, serviceLogger)
	verification := service.NewVerificationService(repos.Claim, service.VerificationConfig{
		MaxHourlyRate:   cfg.Verification.MaxHourlyRate,
		MaxMonthlyHours: cfg.Verification.MaxMonthlyHours,
	}, serviceLogger)
	claims := service.NewClaimService(
		repos.Claim,
		repos.Document,
		repos.Lecturer,
		notifications,
		verification,
		attachments,
		txManager,
		serviceLogger,
	)
	lecturers := service.NewLecturerService(repos.Lecturer, serviceLogger)

	return &Container{
		db:           db,
		txManager:    txManager,
		Repositories: repos,
		Directory:    roleDirectory,
		Attachments:  attachments,
		Services: &ServiceBundle{
			Claim:        claims,
			Verification: verification,
			Notification: notifications,
			Lecturer:     lecturers,
		},
		logger: logger,
	}, nil
}

// Close releases held resources.
func (c *Container) Close() error {
	return c.db.Close()
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
