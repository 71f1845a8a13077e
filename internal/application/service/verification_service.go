package service

import (
	"context"
	"fmt"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
)

// VerificationConfig holds the externally configured business-rule limits.
// MaxHourlyRate is a ceiling stricter than the per-claim input bound.
type VerificationConfig struct {
	MaxHourlyRate   float64
	MaxMonthlyHours float64
}

// DefaultVerificationConfig returns the standard limits
func DefaultVerificationConfig() VerificationConfig {
	return VerificationConfig{
		MaxHourlyRate:   500,
		MaxMonthlyHours: entity.MaxHoursPerMonth,
	}
}

// VerificationService computes the advisory business-rule checks for a claim.
// It is read-only: queries plus comparison, no writes, computed fresh on every
// call.
type VerificationService interface {
	Verify(ctx context.Context, claim *entity.Claim) (*entity.VerificationResult, error)
	VerifyByID(ctx context.Context, claimID int64) (*entity.VerificationResult, error)
}

type verificationServiceImpl struct {
	claimRepo port.ClaimRepository
	config    VerificationConfig
	logger    Logger
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(claimRepo port.ClaimRepository, config VerificationConfig, logger Logger) VerificationService {
	if config.MaxHourlyRate <= 0 {
		config.MaxHourlyRate = DefaultVerificationConfig().MaxHourlyRate
	}
	if config.MaxMonthlyHours <= 0 {
		config.MaxMonthlyHours = DefaultVerificationConfig().MaxMonthlyHours
	}
	return &verificationServiceImpl{
		claimRepo: claimRepo,
		config:    config,
		logger:    logger,
	}
}

// Verify runs the three checks against the claim and the store. The monthly
// sum and the duplicate scan both exclude the claim under test by id, so
// re-verification after an edit sees only the other claims.
func (s *verificationServiceImpl) Verify(ctx context.Context, claim *entity.Claim) (*entity.VerificationResult, error) {
	year, month := claim.SubmissionMonth()

	otherHours, err := s.claimRepo.SumHoursForMonth(ctx, claim.OwnerID, year, month, claim.ID)
	if err != nil {
		return nil, fmt.Errorf("sum monthly hours: %w", err)
	}

	duplicates, err := s.claimRepo.CountDuplicates(ctx, claim.OwnerID, claim.HoursWorked, claim.HourlyRate, year, month, claim.ID)
	if err != nil {
		return nil, fmt.Errorf("count duplicates: %w", err)
	}

	return &entity.VerificationResult{
		HourlyRateValid: claim.HourlyRate <= s.config.MaxHourlyRate,
		TotalHoursValid: otherHours+claim.HoursWorked <= s.config.MaxMonthlyHours,
		DuplicateClaim:  duplicates > 0,
	}, nil
}

// VerifyByID loads the claim and verifies it
func (s *verificationServiceImpl) VerifyByID(ctx context.Context, claimID int64) (*entity.VerificationResult, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return s.Verify(ctx, claim)
}
