package credential

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ToJwtClaims maps the presentation to its JWT claim set: the presentation
// in the vp claim, the holder as iss, the id as jti.
func (p *Presentation) ToJwtClaims(customClaims map[string]interface{}) (map[string]interface{}, error) {
	if p.Holder == "" {
		return nil, fmt.Errorf("presentation has no holder")
	}

	claims := make(map[string]interface{}, len(customClaims)+3)
	for k, v := range customClaims {
		switch k {
		case "iss", "jti", "vp":
			return nil, fmt.Errorf("custom claim %q collides with a registered VP-JWT claim", k)
		}
		claims[k] = v
	}

	claims["vp"] = p.ToMap()
	claims["iss"] = p.Holder
	if p.ID != "" {
		claims["jti"] = p.ID
	}
	return claims, nil
}

// PresentationFromJwtClaims decodes a VP-JWT payload into the presentation
// it carries plus the custom claims (aud, nonce and anything else) that rode
// alongside. Conflicting registered claims are an error, as for credentials.
func PresentationFromJwtClaims(payload []byte) (*Presentation, map[string]interface{}, error) {
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal JWT claims: %w", err)
	}

	vpRaw, ok := claims["vp"].(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("vp claim is missing or not an object")
	}

	pres, err := PresentationFromMap(vpRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid vp claim: %w", err)
	}

	iss, err := claims.GetIssuer()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid iss claim: %w", err)
	}
	if iss != "" {
		if pres.Holder != "" && pres.Holder != iss {
			return nil, nil, fmt.Errorf("iss claim %q conflicts with presentation holder %q", iss, pres.Holder)
		}
		pres.Holder = iss
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if pres.ID != "" && pres.ID != jti {
			return nil, nil, fmt.Errorf("jti claim %q conflicts with presentation id %q", jti, pres.ID)
		}
		pres.ID = jti
	}

	custom := make(map[string]interface{})
	for k, v := range claims {
		switch k {
		case "iss", "jti", "vp":
		default:
			custom[k] = v
		}
	}
	return pres, custom, nil
}
