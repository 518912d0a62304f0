package domain

// SigningKey is a public JWK descriptor as published by the issuer.
type SigningKey struct {
	KeyID     string `json:"kid"`
	KeyType   string `json:"kty"`
	Use       string `json:"use,omitempty"`
	Algorithm string `json:"alg,omitempty"`
	Modulus   string `json:"n,omitempty"`
	Exponent  string `json:"e,omitempty"`
}

type KeySet struct {
	Keys []SigningKey `json:"keys"`
}

// Lookup returns the first key whose kid matches.
func (s KeySet) Lookup(kid string) (SigningKey, bool) {
	if kid == "" {
		return SigningKey{}, false
	}
	for _, key := range s.Keys {
		if key.KeyID == kid {
			return key, true
		}
	}
	return SigningKey{}, false
}

// Duplicates lists key ids that appear more than once, in first-seen order.
func (s KeySet) Duplicates() []string {
	seen := make(map[string]int, len(s.Keys))
	var dups []string
	for _, key := range s.Keys {
		seen[key.KeyID]++
		if seen[key.KeyID] == 2 {
			dups = append(dups, key.KeyID)
		}
	}
	return dups
}
