package voicing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned by [ParsePolicy] for unrecognised names.
var ErrUnknownPolicy = errors.New("voicing: unknown policy")

// Policy selects the rule a [Classifier] applies.
type Policy int

const (
	// PolicyCorrelation rejects frames with weak periodicity or a high
	// zero-crossing rate. It is the default.
	PolicyCorrelation Policy = iota
	// PolicyEnergy rejects frames with a high zero-crossing rate or low
	// energy.
	PolicyEnergy

	policyCount
)

var policyNames = [policyCount]string{"correlation", "energy"}

// String returns the canonical lower-case policy name.
func (p Policy) String() string {
	if p.Valid() {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", p)
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p >= 0 && p < policyCount
}

// ParsePolicy maps a case-insensitive policy name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for p, n := range policyNames {
		if n == want {
			return Policy(p), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Decision is the outcome of classifying one frame.
type Decision int

const (
	Unvoiced Decision = iota
	Voiced
)

func (d Decision) String() string {
	switch d {
	case Unvoiced:
		return "unvoiced"
	case Voiced:
		return "voiced"
	default:
		return fmt.Sprintf("Decision(%d)", d)
	}
}
