package service

import (
	"context"
	"time"

	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/domain/workflow"
)

// Mock repositories
type mockClaimRepo struct {
	createFunc          func(ctx context.Context, claim *entity.Claim) error
	getByIDFunc         func(ctx context.Context, id int64) (*entity.Claim, error)
	updateFunc          func(ctx context.Context, claim *entity.Claim) error
	updateStatusFunc    func(ctx context.Context, id int64, from, to workflow.State) (bool, error)
	listFunc            func(ctx context.Context, filter entity.ClaimFilter) ([]*entity.Claim, error)
	sumHoursFunc        func(ctx context.Context, ownerID string, year int, month time.Month, excludeID int64) (float64, error)
	countDuplicatesFunc func(ctx context.Context, ownerID string, hours, rate float64, year int, month time.Month, excludeID int64) (int, error)
	deleteFunc          func(ctx context.Context, id int64) error
}

func (m *mockClaimRepo) Create(ctx context.Context, claim *entity.Claim) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, claim)
	}
	claim.ID = 1
	return nil
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id int64) (*entity.Claim, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Claim{ID: id, OwnerID: "lect-1", Status: workflow.StateSubmitted}, nil
}

func (m *mockClaimRepo) Update(ctx context.Context, claim *entity.Claim) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, claim)
	}
	return nil
}

func (m *mockClaimRepo) UpdateStatus(ctx context.Context, id int64, from, to workflow.State) (bool, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return true, nil
}

func (m *mockClaimRepo) List(ctx context.Context, filter entity.ClaimFilter) ([]*entity.Claim, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*entity.Claim{}, nil
}

func (m *mockClaimRepo) SumHoursForMonth(ctx context.Context, ownerID string, year int, month time.Month, excludeID int64) (float64, error) {
	if m.sumHoursFunc != nil {
		return m.sumHoursFunc(ctx, ownerID, year, month, excludeID)
	}
	return 0, nil
}

func (m *mockClaimRepo) CountDuplicates(ctx context.Context, ownerID string, hours, rate float64, year int, month time.Month, excludeID int64) (int, error) {
	if m.countDuplicatesFunc != nil {
		return m.countDuplicatesFunc(ctx, ownerID, hours, rate, year, month, excludeID)
	}
	return 0, nil
}

func (m *mockClaimRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockNotificationRepo struct {
	createFunc     func(ctx context.Context, notification *entity.Notification) error
	getByIDFunc    func(ctx context.Context, id int64) (*entity.Notification, error)
	listUnreadFunc func(ctx context.Context, userID string) ([]*entity.Notification, error)
	markReadFunc   func(ctx context.Context, id int64) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, notification)
	}
	notification.ID = 1
	return nil
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Notification{ID: id}, nil
}

func (m *mockNotificationRepo) ListUnread(ctx context.Context, userID string) ([]*entity.Notification, error) {
	if m.listUnreadFunc != nil {
		return m.listUnreadFunc(ctx, userID)
	}
	return []*entity.Notification{}, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id int64) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil
}

type mockDocumentRepo struct {
	createFunc          func(ctx context.Context, doc *entity.SupportingDocument) error
	getByIDFunc         func(ctx context.Context, id int64) (*entity.SupportingDocument, error)
	getByClaimIDFunc    func(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error)
	deleteFunc          func(ctx context.Context, id int64) error
	deleteByClaimIDFunc func(ctx context.Context, claimID int64) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.SupportingDocument) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	doc.ID = 1
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id int64) (*entity.SupportingDocument, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.SupportingDocument{ID: id, ClaimID: 1, FileName: "timesheet.pdf", StoredPath: "uploads/timesheet.pdf"}, nil
}

func (m *mockDocumentRepo) GetByClaimID(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
	if m.getByClaimIDFunc != nil {
		return m.getByClaimIDFunc(ctx, claimID)
	}
	return []*entity.SupportingDocument{}, nil
}

func (m *mockDocumentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDocumentRepo) DeleteByClaimID(ctx context.Context, claimID int64) error {
	if m.deleteByClaimIDFunc != nil {
		return m.deleteByClaimIDFunc(ctx, claimID)
	}
	return nil
}

type mockLecturerRepo struct {
	createFunc     func(ctx context.Context, lecturer *entity.Lecturer) error
	updateFunc     func(ctx context.Context, lecturer *entity.Lecturer) error
	getByEmailFunc func(ctx context.Context, email string) (*entity.Lecturer, error)
	getByIDFunc    func(ctx context.Context, id int64) (*entity.Lecturer, error)
	listFunc       func(ctx context.Context) ([]*entity.Lecturer, error)
	deleteFunc     func(ctx context.Context, id int64) error
}

func (m *mockLecturerRepo) Create(ctx context.Context, lecturer *entity.Lecturer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, lecturer)
	}
	lecturer.ID = 1
	return nil
}

func (m *mockLecturerRepo) Update(ctx context.Context, lecturer *entity.Lecturer) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, lecturer)
	}
	return nil
}

func (m *mockLecturerRepo) GetByEmail(ctx context.Context, email string) (*entity.Lecturer, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, entity.ErrNotFound
}

func (m *mockLecturerRepo) GetByID(ctx context.Context, id int64) (*entity.Lecturer, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, entity.ErrNotFound
}

func (m *mockLecturerRepo) List(ctx context.Context) ([]*entity.Lecturer, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.Lecturer{}, nil
}

func (m *mockLecturerRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockRoleDirectory struct {
	usersInRoleFunc func(ctx context.Context, role workflow.Role) ([]string, error)
}

func (m *mockRoleDirectory) UsersInRole(ctx context.Context, role workflow.Role) ([]string, error) {
	if m.usersInRoleFunc != nil {
		return m.usersInRoleFunc(ctx, role)
	}
	return []string{}, nil
}

type mockAttachmentStore struct {
	saveFunc   func(ctx context.Context, fileName string, content []byte) (string, error)
	loadFunc   func(ctx context.Context, storedPath string) ([]byte, error)
	deleteFunc func(ctx context.Context, storedPath string) error
}

func (m *mockAttachmentStore) Save(ctx context.Context, fileName string, content []byte) (string, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, fileName, content)
	}
	return "uploads/" + fileName, nil
}

func (m *mockAttachmentStore) Load(ctx context.Context, storedPath string) ([]byte, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, storedPath)
	}
	return []byte("stored content"), nil
}

func (m *mockAttachmentStore) Delete(ctx context.Context, storedPath string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, storedPath)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// newTestClaimService wires a claim service over the given mocks, filling in
// pass-through defaults for anything nil.
func newTestClaimService(
	claimRepo *mockClaimRepo,
	documentRepo *mockDocumentRepo,
	lecturerRepo *mockLecturerRepo,
	notificationRepo *mockNotificationRepo,
	roleDirectory *mockRoleDirectory,
	attachments *mockAttachmentStore,
) ClaimService {
	if claimRepo == nil {
		claimRepo = &mockClaimRepo{}
	}
	if documentRepo == nil {
		documentRepo = &mockDocumentRepo{}
	}
	if lecturerRepo == nil {
		lecturerRepo = &mockLecturerRepo{}
	}
	if notificationRepo == nil {
		notificationRepo = &mockNotificationRepo{}
	}
	if roleDirectory == nil {
		roleDirectory = &mockRoleDirectory{}
	}
	if attachments == nil {
		attachments = &mockAttachmentStore{}
	}

	logger := &mockLogger{}
	notifications := NewNotificationService(notificationRepo, roleDirectory, logger)
	verification := NewVerificationService(claimRepo, DefaultVerificationConfig(), logger)

	return NewClaimService(
		claimRepo,
		documentRepo,
		lecturerRepo,
		notifications,
		verification,
		attachments,
		&mockTxManager{},
		logger,
	)
}
