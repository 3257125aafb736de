package middleware

import (
	"fmt"

	"checkinn/internal/models"
	"checkinn/internal/utils"
	"checkinn/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// Verification gate messages.
const (
	MsgPartnerPending   = "Your partner account is awaiting admin review"
	MsgPartnerRejected  = "Your partner application was rejected: %s"
	MsgNoReason         = "No reason provided"
	MsgPartnerSuspended = "Your partner account has been suspended, please contact support"
	MsgPartnerUnknown   = "Partner verification status not found, please contact support"
)

// CheckPartnerVerified lets a hotel partner through only when verified and
// lets every other role through unchanged. It runs after AuthMiddleware and
// uses the user record loaded for this request, so a decision takes effect on
// the partner's next request.
func CheckPartnerVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetCurrentUser(c)
		if err != nil {
			return response.Unauthorized(c, "Authentication required")
		}
		if !user.IsPartner() {
			return c.Next()
		}

		info := user.PartnerInfo
		switch info.VerificationStatus {
		case models.PartnerVerified:
			return c.Next()
		case models.PartnerPending:
			return response.Forbidden(c, MsgPartnerPending)
		case models.PartnerRejected:
			reason := MsgNoReason
			if info.RejectionReason != nil && *info.RejectionReason != "" {
				reason = *info.RejectionReason
			}
			return response.Forbidden(c, fmt.Sprintf(MsgPartnerRejected, reason))
		case models.PartnerSuspended:
			return response.Forbidden(c, MsgPartnerSuspended)
		default:
			return response.Forbidden(c, MsgPartnerUnknown)
		}
	}
}
