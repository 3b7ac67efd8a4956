package domain

import "context"

type Principal struct {
	UserID   string
	Role     Role
	FullName string
}

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

// EligibilityInput is the flattened context a SignerPolicy decides on. The
// relational lookups (group curatorship) happen before evaluation so the
// policy itself stays side-effect free.
type EligibilityInput struct {
	Role         string `json:"role"`
	SlotName     string `json:"slot_name"`
	CuratesGroup bool   `json:"curates_group"`
}

type SignerPolicy interface {
	Eligible(ctx context.Context, input EligibilityInput) (bool, error)
}
