package auth

import "github.com/golang-jwt/jwt/v5"

// ClaimExtractor pulls a candidate identity out of an external token's
// claims. An empty result means the claim is absent.
type ClaimExtractor func(claims jwt.MapClaims) string

// StringClaim reads name as a string claim.
func StringClaim(name string) ClaimExtractor {
	return func(claims jwt.MapClaims) string {
		v, _ := claims[name].(string)
		return v
	}
}

// DefaultIdentityClaims is the Entra ID fallback order.
var DefaultIdentityClaims = []ClaimExtractor{
	StringClaim("preferred_username"),
	StringClaim("email"),
	StringClaim("upn"),
	StringClaim("sub"),
}

// ResolveIdentity returns the first non-empty value produced by extractors.
func ResolveIdentity(claims jwt.MapClaims, extractors []ClaimExtractor) (string, bool) {
	for _, extract := range extractors {
		if v := extract(claims); v != "" {
			return v, true
		}
	}
	return "", false
}
