package ledger

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/generics/set"
)

var (
	// ErrDoubleSpendRegistered is returned when an Output is added to the overlay even though the same key is still
	// unspent. This indicates a bug in the caller rather than an invalid transaction.
	ErrDoubleSpendRegistered = errors.New("output registered as unspent twice")

	// ErrBalanceUnderflow is returned when a debit would make a stakeholder balance negative.
	ErrBalanceUnderflow = errors.New("stakeholder balance underflow")

	// ErrCyclicDependency is returned when a batch of transactions cannot be linearized because its dependency graph
	// contains a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency between transactions")

	// ErrTransactionInvalid is returned when a batch application is aborted because one of its transactions failed
	// verification.
	ErrTransactionInvalid = errors.New("transaction invalid")
)

// region Violation ////////////////////////////////////////////////////////////////////////////////////////////////////

// Violation identifies a single verification property that a Transaction failed to satisfy.
type Violation uint8

const (
	// ViolationEmptyInputs marks a Transaction without any inputs.
	ViolationEmptyInputs Violation = iota

	// ViolationEmptyOutputs marks a Transaction without any outputs.
	ViolationEmptyOutputs

	// ViolationNonPositiveOutput marks a Transaction that creates an output holding zero coins.
	ViolationNonPositiveOutput

	// ViolationUnresolvedInput marks a Transaction that spends an unknown or already spent output.
	ViolationUnresolvedInput

	// ViolationBadSignature marks a Transaction with an input whose signature does not authorize the spend.
	ViolationBadSignature

	// ViolationInsufficientValue marks a Transaction whose outputs hold more coins than its inputs provide.
	ViolationInsufficientValue

	// ViolationDuplicateInputs marks a Transaction that consumes the same output more than once.
	ViolationDuplicateInputs

	// ViolationTooManyInputs marks a Transaction that consumes more outputs than the configured cap.
	ViolationTooManyInputs
)

// String returns a human-readable version of the Violation.
func (v Violation) String() string {
	switch v {
	case ViolationEmptyInputs:
		return "Violation(EmptyInputs)"
	case ViolationEmptyOutputs:
		return "Violation(EmptyOutputs)"
	case ViolationNonPositiveOutput:
		return "Violation(NonPositiveOutput)"
	case ViolationUnresolvedInput:
		return "Violation(UnresolvedInput)"
	case ViolationBadSignature:
		return "Violation(BadSignature)"
	case ViolationInsufficientValue:
		return "Violation(InsufficientValue)"
	case ViolationDuplicateInputs:
		return "Violation(DuplicateInputs)"
	case ViolationTooManyInputs:
		return "Violation(TooManyInputs)"
	default:
		return "Violation(Unknown)"
	}
}

// Violations represents the set of verification properties that a Transaction violated.
type Violations = *set.AdvancedSet[Violation]

// NewViolations returns a new Violation collection with the given elements.
func NewViolations(violations ...Violation) Violations {
	return set.NewAdvancedSet[Violation](violations...)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region VerificationError ////////////////////////////////////////////////////////////////////////////////////////////

// VerificationError reports every property that a Transaction violated. Verification accumulates failures instead of
// short-circuiting, so a single pass distinguishes a structurally broken transaction from one with a bad signature or
// insufficient funds.
type VerificationError struct {
	violations Violations
	reasons    []error
}

// newVerificationError returns an empty VerificationError that failures can be reported to.
func newVerificationError() *VerificationError {
	return &VerificationError{
		violations: NewViolations(),
	}
}

// report adds a violated property together with the error that describes the concrete failure.
func (e *VerificationError) report(violation Violation, reason error) {
	e.violations.Add(violation)
	e.reasons = append(e.reasons, reason)
}

// Violations returns the set of violated properties.
func (e *VerificationError) Violations() Violations {
	return e.violations
}

// Has returns true if the given property was violated.
func (e *VerificationError) Has(violation Violation) bool {
	return e.violations.Has(violation)
}

// IsExactly returns true if exactly the given properties (and no others) were violated.
func (e *VerificationError) IsExactly(violations ...Violation) bool {
	return e.violations.Equal(NewViolations(violations...))
}

// failed returns true if at least one failure was reported.
func (e *VerificationError) failed() bool {
	return !e.violations.IsEmpty()
}

// Error returns a human-readable version of the VerificationError.
func (e *VerificationError) Error() string {
	reasons := make([]string, len(e.reasons))
	for i, reason := range e.reasons {
		reasons[i] = reason.Error()
	}

	return "transaction verification failed: " + strings.Join(reasons, "; ")
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
