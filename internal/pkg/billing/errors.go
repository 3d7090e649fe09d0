package billing

import (
	"errors"
	"fmt"
)

// GatewayError wraps a failed call against the payment provider. It is never
// silently swallowed; callers that need a null-object fallback must opt in
// explicitly via errors.As.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("billing gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func gatewayErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{Op: op, Err: err}
}

// IsGatewayError reports whether err originated from a remote provider call.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

// AccountLinkError signals that gateway-provided external ids could not be
// resolved against local records. It surfaces to callers as a bad-request
// class failure and never results in a partial write.
type AccountLinkError struct {
	Missing string // "user", "plan" or "subscription"
	Ref     string
}

func (e *AccountLinkError) Error() string {
	return fmt.Sprintf("billing: cannot resolve local %s from external id %q", e.Missing, e.Ref)
}

// IsAccountLinkError reports whether err is an account linkage failure.
func IsAccountLinkError(err error) bool {
	var ae *AccountLinkError
	return errors.As(err, &ae)
}
