package pitch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMethod is returned for method names or values outside the
	// supported set.
	ErrUnknownMethod = errors.New("pitch: unknown method")
	// ErrEmptyLagRange is returned when the sample rate leaves no candidate
	// lag for a lag-search estimator.
	ErrEmptyLagRange = errors.New("pitch: empty lag search range")
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("pitch: invalid sample rate")
)

// Method identifies an estimation algorithm.
type Method int

const (
	MethodAutocorrelation Method = iota
	MethodAMDF
	MethodCepstrum

	methodCount
)

var methodNames = [methodCount]string{"autocorrelation", "amdf", "cepstrum"}

var methodAliases = map[string]Method{
	"mdf": MethodAMDF,
}

// String returns the canonical method name, as written to algorithm markers.
func (m Method) String() string {
	if m.Valid() {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", m)
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m >= 0 && m < methodCount
}

// Methods returns all supported methods in declaration order.
func Methods() []Method {
	out := make([]Method, 0, methodCount)
	for m := Method(0); m < methodCount; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMethod maps a case-insensitive name to a Method. "mdf" is accepted as
// an alias of "amdf".
func ParseMethod(name string) (Method, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, n := range methodNames {
		if n == want {
			return Method(i), nil
		}
	}
	if m, ok := methodAliases[want]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}
