package repositories

import (
	"context"
	"errors"

	"checkinn/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// Column names of the embedded partner info.
const (
	ColPartnerStatus          = "partner_verification_status"
	ColPartnerReason          = "partner_rejection_reason"
	ColPartnerReviewedAt      = "partner_reviewed_at"
	ColPartnerReviewedBy      = "partner_reviewed_by"
	ColPartnerSubmittedAt     = "partner_submitted_at"
	ColPartnerBusinessName    = "partner_business_name"
	ColPartnerBusinessType    = "partner_business_type"
	ColPartnerTaxID           = "partner_tax_id"
	ColPartnerBusinessAddress = "partner_business_address"
	ColPartnerBankName        = "partner_bank_bank_name"
	ColPartnerAccountName     = "partner_bank_account_name"
	ColPartnerAccountNumber   = "partner_bank_account_number"
	ColPartnerDocuments       = "partner_documents"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role   models.Role
	Status models.UserStatus
	Search string
	Offset int
	Limit  int
}

// PartnerFilter narrows partner application listings.
type PartnerFilter struct {
	Status models.PartnerStatus
	Search string
	Offset int
	Limit  int
}

// UserCache is the read-through cache used for lookups by id. InvalidateUser
// advances the user's generation and CacheUser only writes while the
// generation it is given is still current.
type UserCache interface {
	UserGeneration(ctx context.Context, id uint) (int64, error)
	CacheUser(ctx context.Context, user *models.User, generation int64) error
	GetUser(ctx context.Context, id uint) (*models.User, bool, error)
	InvalidateUser(ctx context.Context, id uint) error
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address, case-insensitively
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users with pagination
	List(ctx context.Context, filter UserFilter) ([]*models.User, int64, error)

	// ListPartners retrieves hotel partners with pagination
	ListPartners(ctx context.Context, filter PartnerFilter) ([]*models.User, int64, error)

	// CountPartnersByStatus counts all partners grouped by verification status
	CountPartnersByStatus(ctx context.Context) (map[models.PartnerStatus]int64, error)

	// CountByRole counts all users grouped by role
	CountByRole(ctx context.Context) (map[models.Role]int64, error)

	// UpdateFields applies a partial update keyed by column name
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error

	// TransitionPartnerStatus moves a partner from one status to another only if
	// the stored status still equals from. It reports whether a row changed.
	TransitionPartnerStatus(ctx context.Context, id uint, from, to models.PartnerStatus, fields map[string]interface{}) (bool, error)

	// Delete soft-deletes a user
	Delete(ctx context.Context, id uint) error

	// IncrementTokenVersion revokes every token issued to the user
	IncrementTokenVersion(ctx context.Context, id uint) error
}
