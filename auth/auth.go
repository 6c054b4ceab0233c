// Package auth provides the authorization oracle the payment engine
// consults before acting on anyone's behalf. The oracle answers one
// question: did this identity authorize the current call? How the answer is
// produced — wallet signatures verified at a gateway, a fixed grant set in
// tests — is the implementation's concern.
package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when the named identity did not authorize
// the current call.
var ErrNotAuthorized = errors.New("auth: identity did not authorize this call")

// Authorizer is the authorization oracle.
type Authorizer interface {
	// RequireAuthorized returns nil if identity authorized the current
	// call, and an error wrapping ErrNotAuthorized otherwise.
	RequireAuthorized(ctx context.Context, identity string) error
}

// Grants is a fixed set of identities that have authorized the call.
type Grants map[string]struct{}

// Allow builds a Grants set from a list of identities.
func Allow(identities ...string) Grants {
	g := make(Grants, len(identities))
	for _, id := range identities {
		g[id] = struct{}{}
	}
	return g
}

// RequireAuthorized checks membership in the grant set.
func (g Grants) RequireAuthorized(_ context.Context, identity string) error {
	if _, ok := g[identity]; !ok {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, identity)
	}
	return nil
}

type allowAll struct{}

func (allowAll) RequireAuthorized(context.Context, string) error { return nil }

// AllowAll authorizes every identity. Demo use only.
func AllowAll() Authorizer {
	return allowAll{}
}

type signerKey struct{}

// WithSigners records the identities that signed the current call on the
// context. Servers call this once per request at the trust boundary.
func WithSigners(ctx context.Context, identities ...string) context.Context {
	return context.WithValue(ctx, signerKey{}, Allow(identities...))
}

// Signers returns the identities recorded with WithSigners, if any.
func Signers(ctx context.Context) []string {
	g, ok := ctx.Value(signerKey{}).(Grants)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g))
	for id := range g {
		out = append(out, id)
	}
	return out
}

type contextAuthorizer struct{}

func (contextAuthorizer) RequireAuthorized(ctx context.Context, identity string) error {
	g, ok := ctx.Value(signerKey{}).(Grants)
	if !ok {
		return fmt.Errorf("%w: no signers on context", ErrNotAuthorized)
	}
	return g.RequireAuthorized(ctx, identity)
}

// FromContext returns an Authorizer that checks the signer set recorded on
// each call's context via WithSigners.
func FromContext() Authorizer {
	return contextAuthorizer{}
}
