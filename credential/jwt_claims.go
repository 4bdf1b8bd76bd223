package credential

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The VC-JWT mapping (W3C VC specification §6.3.1): registered JWT claims
// mirror credential fields, the credential itself travels in the vc claim,
// and everything unrecognized passes through untouched.

// ToJwtClaims maps the credential to its JWT claim set. Registered claims
// are re-derived from the credential's fields so the two representations can
// never disagree on output.
func (c *Credential) ToJwtClaims(customClaims map[string]interface{}) (map[string]interface{}, error) {
	if c.Issuer == "" {
		return nil, fmt.Errorf("credential has no issuer")
	}

	claims := make(map[string]interface{}, len(customClaims)+7)
	for k, v := range customClaims {
		switch k {
		case "iss", "sub", "exp", "nbf", "iat", "jti", "vc":
			return nil, fmt.Errorf("custom claim %q collides with a registered VC-JWT claim", k)
		}
		claims[k] = v
	}

	claims["vc"] = c.ToMap()
	claims["iss"] = c.Issuer
	if len(c.Subject) > 0 && c.Subject[0].ID != "" {
		claims["sub"] = c.Subject[0].ID
	}
	if c.ID != "" {
		claims["jti"] = c.ID
	}
	if !c.ValidFrom.IsZero() {
		claims["nbf"] = jwt.NewNumericDate(c.ValidFrom)
		claims["iat"] = jwt.NewNumericDate(c.ValidFrom)
	}
	if !c.ValidUntil.IsZero() {
		claims["exp"] = jwt.NewNumericDate(c.ValidUntil)
	}
	return claims, nil
}

// FromJwtClaims decodes a VC-JWT payload into the credential it carries plus
// the custom claims that rode alongside. A registered claim that contradicts
// the embedded credential property is an error, never silently resolved:
// both values are attacker controlled in a malicious token.
func FromJwtClaims(payload []byte) (*Credential, map[string]interface{}, error) {
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal JWT claims: %w", err)
	}

	vcRaw, ok := claims["vc"].(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("vc claim is missing or not an object")
	}

	cred, err := FromMap(vcRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid vc claim: %w", err)
	}

	if err := applyRegisteredClaims(claims, cred); err != nil {
		return nil, nil, err
	}

	custom := make(map[string]interface{})
	for k, v := range claims {
		switch k {
		case "iss", "sub", "exp", "nbf", "iat", "jti", "vc":
		default:
			custom[k] = v
		}
	}
	return cred, custom, nil
}

func applyRegisteredClaims(claims jwt.MapClaims, cred *Credential) error {
	iss, err := claims.GetIssuer()
	if err != nil {
		return fmt.Errorf("invalid iss claim: %w", err)
	}
	if iss != "" {
		if cred.Issuer != "" && cred.Issuer != iss {
			return fmt.Errorf("iss claim %q conflicts with credential issuer %q", iss, cred.Issuer)
		}
		cred.Issuer = iss
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return fmt.Errorf("invalid sub claim: %w", err)
	}
	if sub != "" {
		if len(cred.Subject) == 0 {
			cred.Subject = []Subject{{ID: sub, CustomFields: map[string]interface{}{}}}
		} else if cred.Subject[0].ID != "" && cred.Subject[0].ID != sub {
			return fmt.Errorf("sub claim %q conflicts with credential subject %q", sub, cred.Subject[0].ID)
		} else {
			cred.Subject[0].ID = sub
		}
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if cred.ID != "" && cred.ID != jti {
			return fmt.Errorf("jti claim %q conflicts with credential id %q", jti, cred.ID)
		}
		cred.ID = jti
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		if err := applyDateClaim("exp", exp.Time, &cred.ValidUntil); err != nil {
			return err
		}
	}

	nbf, err := claims.GetNotBefore()
	if err != nil {
		return fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf == nil {
		nbf, err = claims.GetIssuedAt()
		if err != nil {
			return fmt.Errorf("invalid iat claim: %w", err)
		}
	}
	if nbf != nil {
		if err := applyDateClaim("nbf", nbf.Time, &cred.ValidFrom); err != nil {
			return err
		}
	}

	return nil
}

// applyDateClaim reconciles a numeric date claim with the matching credential
// field at second precision, since JWT dates cannot carry more.
func applyDateClaim(name string, claimed time.Time, field *time.Time) error {
	if !field.IsZero() && field.Unix() != claimed.Unix() {
		return fmt.Errorf("%s claim %d conflicts with credential value %d",
			name, claimed.Unix(), field.Unix())
	}
	*field = claimed
	return nil
}
