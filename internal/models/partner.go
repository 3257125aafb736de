package models

import (
	"strings"
	"time"
)

// PartnerStatus is the admin-review state of a hotel partner.
type PartnerStatus string

const (
	PartnerPending   PartnerStatus = "pending"
	PartnerVerified  PartnerStatus = "verified"
	PartnerRejected  PartnerStatus = "rejected"
	PartnerSuspended PartnerStatus = "suspended"
)

// PartnerStatuses lists every valid status in display order.
var PartnerStatuses = []PartnerStatus{PartnerPending, PartnerVerified, PartnerRejected, PartnerSuspended}

// ParsePartnerStatus accepts only the four known statuses.
func ParsePartnerStatus(s string) (PartnerStatus, bool) {
	switch PartnerStatus(s) {
	case PartnerPending, PartnerVerified, PartnerRejected, PartnerSuspended:
		return PartnerStatus(s), true
	default:
		return "", false
	}
}

func (s PartnerStatus) Valid() bool {
	_, ok := ParsePartnerStatus(string(s))
	return ok
}

// PartnerAction is an admin decision on a partner application.
type PartnerAction string

const (
	PartnerApprove PartnerAction = "approve"
	PartnerReject  PartnerAction = "reject"
	PartnerSuspend PartnerAction = "suspend"
)

// partnerTransitions is the complete set of legal admin transitions.
var partnerTransitions = map[PartnerAction]struct{ from, to PartnerStatus }{
	PartnerApprove: {PartnerPending, PartnerVerified},
	PartnerReject:  {PartnerPending, PartnerRejected},
	PartnerSuspend: {PartnerVerified, PartnerSuspended},
}

// Source returns the only status the action may be applied to.
func (a PartnerAction) Source() PartnerStatus {
	return partnerTransitions[a].from
}

// Target returns the status the action produces.
func (a PartnerAction) Target() PartnerStatus {
	return partnerTransitions[a].to
}

// Next returns the status reached by applying a to s, or false when the
// transition is not allowed.
func (s PartnerStatus) Next(a PartnerAction) (PartnerStatus, bool) {
	t, ok := partnerTransitions[a]
	if !ok || t.from != s {
		return s, false
	}
	return t.to, true
}

type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

// PartnerInfo is embedded in User for accounts with the HotelPartner role.
type PartnerInfo struct {
	VerificationStatus PartnerStatus `gorm:"type:varchar(20);index" json:"verificationStatus"`
	RejectionReason    *string       `gorm:"type:text" json:"rejectionReason,omitempty"`
	BusinessName       string        `json:"businessName"`
	BusinessType       string        `json:"businessType"`
	TaxID              string        `json:"taxId"`
	BusinessAddress    string        `json:"businessAddress"`
	BankAccount        BankAccount   `gorm:"embedded;embeddedPrefix:bank_" json:"bankAccount"`
	Documents          StringList    `gorm:"type:jsonb" json:"documents"`
	SubmittedAt        *time.Time    `json:"submittedAt,omitempty"`
	ReviewedAt         *time.Time    `json:"reviewedAt,omitempty"`
	ReviewedBy         *uint         `json:"reviewedBy,omitempty"`
}

// OnboardingProgress reports which onboarding steps are complete.
type OnboardingProgress struct {
	BusinessInfo bool `json:"businessInfo"`
	BankAccount  bool `json:"bankAccount"`
	Documents    bool `json:"documents"`
}

func (p PartnerInfo) Progress() OnboardingProgress {
	return OnboardingProgress{
		BusinessInfo: notBlank(p.BusinessName, p.BusinessType, p.TaxID, p.BusinessAddress),
		BankAccount:  notBlank(p.BankAccount.BankName, p.BankAccount.AccountName, p.BankAccount.AccountNumber),
		Documents:    len(p.Documents) > 0,
	}
}

func notBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
