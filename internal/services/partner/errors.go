package partner

import (
	"fmt"

	apperrors "checkinn/internal/errors"
	"checkinn/internal/models"
)

var (
	errPartnerNotFound     = apperrors.NotFound("PARTNER_NOT_FOUND", "Partner not found")
	errApplicationNotFound = apperrors.NotFound("APPLICATION_NOT_FOUND", "Application not found")
	errReasonRequired      = apperrors.Validation("REJECTION_REASON_REQUIRED", "Rejection reason is required")
	errInvalidStatusFilter = apperrors.Validation("INVALID_VERIFICATION_STATUS", "Invalid verification status")
)

// transitionConflict describes why action cannot be applied to a partner in
// state current.
func transitionConflict(action models.PartnerAction, current models.PartnerStatus) error {
	msg := conflictMessage(action, current)
	return apperrors.Conflict("PARTNER_STATE_CONFLICT", string(current), msg)
}

func conflictMessage(action models.PartnerAction, current models.PartnerStatus) string {
	switch action {
	case models.PartnerApprove:
		switch current {
		case models.PartnerVerified:
			return "Partner is already verified"
		case models.PartnerRejected:
			return "Partner application was rejected, cannot approve"
		case models.PartnerSuspended:
			return "Partner is suspended, cannot approve"
		}
	case models.PartnerReject:
		switch current {
		case models.PartnerRejected:
			return "Partner is already rejected"
		case models.PartnerVerified:
			return "Partner is already verified, cannot reject"
		case models.PartnerSuspended:
			return "Partner is suspended, cannot reject"
		}
	case models.PartnerSuspend:
		switch current {
		case models.PartnerSuspended:
			return "Partner is already suspended"
		case models.PartnerPending, models.PartnerRejected:
			return fmt.Sprintf("Partner is %s, only verified partners can be suspended", current)
		}
	}

	if !current.Valid() {
		return "Partner verification status is invalid, please contact support"
	}
	return fmt.Sprintf("Partner is %s, cannot %s", current, action)
}
