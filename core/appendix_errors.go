package core

import "errors"

// Sentinel error kinds for the appendix subsystem (spec §7). Concrete
// failures wrap one of these with fmt.Errorf("%w: ...", ...) so callers can
// branch with errors.Is while the message still carries the specific reason.
var (
	// ErrNotValid marks a permanent failure: the appendix is syntactically
	// wrong, exceeds a hard limit, fails canonicalization, or violates a
	// structural invariant. The enclosing transaction must be rejected.
	ErrNotValid = errors.New("appendix: not valid")

	// ErrNotCurrentlyValid marks a transient failure: the appendix is
	// well-formed but temporarily inconsistent with chain state. Callers
	// may retry after chain progress.
	ErrNotCurrentlyValid = errors.New("appendix: not currently valid")

	// ErrNotYetEncrypted is returned when an unsealed draft's WriteBinary,
	// Size, or Apply is invoked before Seal. It is a programmer error, not
	// a consensus condition.
	ErrNotYetEncrypted = errors.New("appendix: draft has not been sealed yet")
)

// IsNotValid reports whether err wraps ErrNotValid.
func IsNotValid(err error) bool { return errors.Is(err, ErrNotValid) }

// IsNotCurrentlyValid reports whether err wraps ErrNotCurrentlyValid.
func IsNotCurrentlyValid(err error) bool { return errors.Is(err, ErrNotCurrentlyValid) }
