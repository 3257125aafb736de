// Package partner implements hotel partner verification and onboarding.
//
// Admins move partners through a closed set of states:
//
//	pending  --approve--> verified --suspend--> suspended
//	pending  --reject---> rejected
//
// Every transition is a conditional update on the stored status, so two
// admins deciding the same application concurrently cannot both succeed.
package partner

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/metrics"
	"checkinn/internal/models"
	"checkinn/internal/repositories"

	"go.uber.org/zap"
)

type Service interface {
	Approve(ctx context.Context, adminID, partnerID uint) (*models.User, error)
	Reject(ctx context.Context, adminID, partnerID uint, reason string) (*models.User, error)
	Suspend(ctx context.Context, adminID, partnerID uint) (*models.User, error)

	ListApplications(ctx context.Context, q ApplicationQuery) (*ApplicationList, error)
	GetApplication(ctx context.Context, partnerID uint) (*models.User, error)
	ApplicationStatus(ctx context.Context, email string) (*ApplicationStatus, error)

	Profile(ctx context.Context, partnerID uint) (*models.User, error)
	UpdateBusinessInfo(ctx context.Context, partnerID uint, in BusinessInfoInput) (*models.User, error)
	UpdateBankInfo(ctx context.Context, partnerID uint, in BankInfoInput) (*models.User, error)
	UpdateDocuments(ctx context.Context, partnerID uint, in DocumentsInput) (*models.User, error)
}

// Notifier is told about completed decisions.
type Notifier interface {
	PartnerApproved(user *models.User)
	PartnerRejected(user *models.User, reason string)
	PartnerSuspended(user *models.User)
}

type service struct {
	users    repositories.UserRepository
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(users repositories.UserRepository, notifier Notifier, m *metrics.Metrics, logger *zap.Logger) Service {
	return &service{
		users:    users,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) Approve(ctx context.Context, adminID, partnerID uint) (*models.User, error) {
	fields := map[string]interface{}{
		repositories.ColPartnerReason: nil,
	}
	partner, err := s.transition(ctx, adminID, partnerID, models.PartnerApprove, fields)
	if err != nil {
		return nil, err
	}
	s.notifier.PartnerApproved(partner)
	return partner, nil
}

func (s *service) Reject(ctx context.Context, adminID, partnerID uint, reason string) (*models.User, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errReasonRequired
	}
	fields := map[string]interface{}{
		repositories.ColPartnerReason: reason,
	}
	partner, err := s.transition(ctx, adminID, partnerID, models.PartnerReject, fields)
	if err != nil {
		return nil, err
	}
	s.notifier.PartnerRejected(partner, reason)
	return partner, nil
}

func (s *service) Suspend(ctx context.Context, adminID, partnerID uint) (*models.User, error) {
	partner, err := s.transition(ctx, adminID, partnerID, models.PartnerSuspend, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	s.notifier.PartnerSuspended(partner)
	return partner, nil
}

// transition applies action to the partner. The precondition is checked on
// the loaded record for a precise error, then enforced again by the
// conditional update.
func (s *service) transition(ctx context.Context, adminID, partnerID uint, action models.PartnerAction, fields map[string]interface{}) (*models.User, error) {
	log := s.logger.With(
		zap.String("action", string(action)),
		zap.Uint("partner_id", partnerID),
		zap.Uint("admin_id", adminID),
	)

	partner, err := s.loadPartner(ctx, partnerID)
	if err != nil {
		s.metrics.RecordPartnerDecision(string(action), "not_found")
		return nil, err
	}

	current := partner.PartnerInfo.VerificationStatus
	if _, ok := current.Next(action); !ok {
		s.metrics.RecordPartnerDecision(string(action), "conflict")
		log.Info("partner transition refused", zap.String("status", string(current)))
		return nil, transitionConflict(action, current)
	}

	fields[repositories.ColPartnerReviewedAt] = s.now()
	fields[repositories.ColPartnerReviewedBy] = adminID

	changed, err := s.users.TransitionPartnerStatus(ctx, partnerID, action.Source(), action.Target(), fields)
	if err != nil {
		s.metrics.RecordPartnerDecision(string(action), "error")
		return nil, apperrors.Internal("Failed to update partner status", err)
	}
	if !changed {
		// Another request moved the partner first.
		s.metrics.RecordPartnerDecision(string(action), "conflict")
		latest, err := s.loadPartner(ctx, partnerID)
		if err != nil {
			return nil, err
		}
		log.Info("partner transition lost race", zap.String("status", string(latest.PartnerInfo.VerificationStatus)))
		return nil, transitionConflict(action, latest.PartnerInfo.VerificationStatus)
	}

	s.metrics.RecordPartnerDecision(string(action), "success")
	log.Info("partner status changed",
		zap.String("from", string(action.Source())),
		zap.String("to", string(action.Target())))

	updated, err := s.loadPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) loadPartner(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errPartnerNotFound
		}
		return nil, apperrors.Internal("Failed to load partner", err)
	}
	if !user.IsPartner() {
		return nil, errPartnerNotFound
	}
	return user, nil
}

func (s *service) ListApplications(ctx context.Context, q ApplicationQuery) (*ApplicationList, error) {
	filter := repositories.PartnerFilter{
		Search: q.Search,
		Offset: q.Offset,
		Limit:  q.Limit,
	}
	if q.Status != "" && q.Status != "all" {
		status, ok := models.ParsePartnerStatus(q.Status)
		if !ok {
			return nil, errInvalidStatusFilter
		}
		filter.Status = status
	}

	partners, total, err := s.users.ListPartners(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch partner applications", err)
	}

	counts, err := s.users.CountPartnersByStatus(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch partner applications", err)
	}

	return &ApplicationList{
		Partners: partners,
		Stats:    statsFrom(counts),
		Total:    total,
	}, nil
}

func statsFrom(counts map[models.PartnerStatus]int64) Stats {
	var st Stats
	for status, n := range counts {
		st.Total += n
		switch status {
		case models.PartnerPending:
			st.Pending = n
		case models.PartnerVerified:
			st.Verified = n
		case models.PartnerRejected:
			st.Rejected = n
		case models.PartnerSuspended:
			st.Suspended = n
		default:
			// counted in Total only
		}
	}
	return st
}

func (s *service) GetApplication(ctx context.Context, partnerID uint) (*models.User, error) {
	return s.loadPartner(ctx, partnerID)
}

// ApplicationStatus is public; unknown emails and non-partner accounts are
// indistinguishable to the caller.
func (s *service) ApplicationStatus(ctx context.Context, email string) (*ApplicationStatus, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errApplicationNotFound
		}
		return nil, apperrors.Internal("Failed to fetch application status", err)
	}
	if !user.IsPartner() {
		return nil, errApplicationNotFound
	}

	info := user.PartnerInfo
	return &ApplicationStatus{
		Email:              user.Email,
		VerificationStatus: info.VerificationStatus,
		RejectionReason:    info.RejectionReason,
		Progress:           info.Progress(),
	}, nil
}

func (s *service) Profile(ctx context.Context, partnerID uint) (*models.User, error) {
	return s.loadPartner(ctx, partnerID)
}

func (s *service) UpdateBusinessInfo(ctx context.Context, partnerID uint, in BusinessInfoInput) (*models.User, error) {
	return s.updateOnboarding(ctx, partnerID, "business_info", map[string]interface{}{
		repositories.ColPartnerBusinessName:    strings.TrimSpace(in.BusinessName),
		repositories.ColPartnerBusinessType:    strings.TrimSpace(in.BusinessType),
		repositories.ColPartnerTaxID:           strings.TrimSpace(in.TaxID),
		repositories.ColPartnerBusinessAddress: strings.TrimSpace(in.BusinessAddress),
	})
}

func (s *service) UpdateBankInfo(ctx context.Context, partnerID uint, in BankInfoInput) (*models.User, error) {
	return s.updateOnboarding(ctx, partnerID, "bank_info", map[string]interface{}{
		repositories.ColPartnerBankName:      strings.TrimSpace(in.BankName),
		repositories.ColPartnerAccountName:   strings.TrimSpace(in.AccountName),
		repositories.ColPartnerAccountNumber: strings.TrimSpace(in.AccountNumber),
	})
}

func (s *service) UpdateDocuments(ctx context.Context, partnerID uint, in DocumentsInput) (*models.User, error) {
	return s.updateOnboarding(ctx, partnerID, "documents", map[string]interface{}{
		repositories.ColPartnerDocuments: models.StringList(in.Documents),
	})
}

// updateOnboarding writes onboarding columns only; the verification status
// is never part of fields.
func (s *service) updateOnboarding(ctx context.Context, partnerID uint, step string, fields map[string]interface{}) (*models.User, error) {
	if _, err := s.loadPartner(ctx, partnerID); err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, partnerID, fields); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errPartnerNotFound
		}
		return nil, apperrors.Internal("Failed to update partner profile", err)
	}
	s.logger.Info("partner onboarding updated", zap.Uint("partner_id", partnerID), zap.String("step", step))
	return s.loadPartner(ctx, partnerID)
}
