package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths checked outside struct tags
	MaxNameLength  = 100
	MaxPhoneLength = 30
)
