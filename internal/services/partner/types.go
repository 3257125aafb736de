package partner

import "checkinn/internal/models"

// ApplicationQuery filters the admin application list.
type ApplicationQuery struct {
	Status string
	Search string
	Offset int
	Limit  int
}

// Stats counts partners per verification status.
type Stats struct {
	Pending   int64 `json:"pending"`
	Verified  int64 `json:"verified"`
	Rejected  int64 `json:"rejected"`
	Suspended int64 `json:"suspended"`
	Total     int64 `json:"total"`
}

type ApplicationList struct {
	Partners []*models.User
	Stats    Stats
	Total    int64
}

// ApplicationStatus is the public view of an application, looked up by email.
type ApplicationStatus struct {
	Email              string                    `json:"email"`
	VerificationStatus models.PartnerStatus      `json:"verificationStatus"`
	RejectionReason    *string                   `json:"rejectionReason"`
	Progress           models.OnboardingProgress `json:"progress"`
}

type RejectInput struct {
	RejectionReason string `json:"rejectionReason"`
}

type BusinessInfoInput struct {
	BusinessName    string `json:"businessName" validate:"required,max=200"`
	BusinessType    string `json:"businessType" validate:"required,max=100"`
	TaxID           string `json:"taxId" validate:"required,max=50"`
	BusinessAddress string `json:"businessAddress" validate:"required,max=500"`
}

type BankInfoInput struct {
	BankName      string `json:"bankName" validate:"required,max=100"`
	AccountName   string `json:"accountName" validate:"required,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,max=50"`
}

type DocumentsInput struct {
	Documents []string `json:"documents" validate:"required,min=1,max=20,dive,url"`
}
