package allocation

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatePartner indicates that the partner is already attached to the billboard.
	ErrDuplicatePartner = errors.New("partner already attached")

	// ErrNoPartners indicates a distribution without any partner shares.
	ErrNoPartners = errors.New("partnership has no partners")

	// ErrUnbalancedRegime indicates that a regime's percentages do not add up to 100.
	ErrUnbalancedRegime = errors.New("regime percentages do not sum to 100")
)

// DuplicatePartnerError is returned by AddPartner when the partner id is already present.
// It matches ErrDuplicatePartner with errors.Is.
type DuplicatePartnerError struct {
	PartnerID string
}

func (e *DuplicatePartnerError) Error() string {
	return fmt.Sprintf("partner %s is already attached", e.PartnerID)
}

// Is reports whether target is ErrDuplicatePartner.
func (e *DuplicatePartnerError) Is(target error) bool {
	return target == ErrDuplicatePartner
}

// UnbalancedRegimeError carries the rounded sum that failed validation so it can be shown to the user.
// It matches ErrUnbalancedRegime with errors.Is.
type UnbalancedRegimeError struct {
	Regime Regime
	Sum    float64
}

func (e *UnbalancedRegimeError) Error() string {
	return fmt.Sprintf("%s regime sums to %v%%, expected 100%%", e.Regime, e.Sum)
}

// Is reports whether target is ErrUnbalancedRegime.
func (e *UnbalancedRegimeError) Is(target error) bool {
	return target == ErrUnbalancedRegime
}
