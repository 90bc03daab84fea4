package ports

// TokenIssuer mints session tokens for a verified subject.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// TokenVerifier resolves a session token to its subject. It fails with
// domain.ErrTokenMissing, domain.ErrTokenInvalid or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenService is implemented by the signed-token provider.
type TokenService interface {
	TokenIssuer
	TokenVerifier
}
