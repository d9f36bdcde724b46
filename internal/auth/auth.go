package auth

import "context"

// Verification is the outcome of checking a credential with the external
// identity provider.
type Verification struct {
	Success  bool
	Identity string
	Error    string
}

// CredentialVerifier abstracts the external identity provider. Token
// issuance and validation live outside this service entirely.
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, token string) (Verification, error)
}

// PassthroughVerifier accepts the presented token as the caller's identity.
// Used when no identity provider is configured; mirrors the upstream
// behavior of reading the user id straight from the Authorization header.
type PassthroughVerifier struct{}

func (PassthroughVerifier) VerifyCredential(_ context.Context, token string) (Verification, error) {
	if token == "" {
		return Verification{Success: false, Error: "no credential provided"}, nil
	}
	return Verification{Success: true, Identity: token}, nil
}
