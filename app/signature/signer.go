package signature

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// HashField is the reserved parameter name carrying the signature.
const HashField = "hash"

var (
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrMissingStoreKey   = errors.New("store key is not configured")
)

// Signer signs and verifies payment parameters with one policy and one store
// key. The store key never leaves the signer.
type Signer struct {
	policy   Policy
	storeKey string
	fields   []string
}

// NewPositionalSigner signs the given fields, in order, with PolicyPositional.
func NewPositionalSigner(storeKey string, fields ...string) *Signer {
	ordered := make([]string, len(fields))
	copy(ordered, fields)
	return &Signer{policy: PolicyPositional, storeKey: storeKey, fields: ordered}
}

// NewHashV3Signer signs every parameter except hash and encoding.
func NewHashV3Signer(storeKey string) *Signer {
	return &Signer{policy: PolicyHashV3, storeKey: storeKey}
}

func (s *Signer) Policy() Policy {
	return s.policy
}

// Canonical returns the exact string that is digested for params.
func (s *Signer) Canonical(params Params) string {
	switch s.policy {
	case PolicyPositional:
		return canonicalPositional(params, s.fields, s.storeKey)
	default:
		return canonicalHashV3(params, s.storeKey)
	}
}

func (s *Signer) Sign(params Params) (string, error) {
	if strings.TrimSpace(s.storeKey) == "" {
		return "", ErrMissingStoreKey
	}

	digest := sha512.Sum512([]byte(s.Canonical(params)))
	if s.policy == PolicyHashV3 {
		// The bank documents Hashv3 as hex digest, hex-decoded, then base64.
		raw, err := hex.DecodeString(hex.EncodeToString(digest[:]))
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(raw), nil
	}
	return base64.StdEncoding.EncodeToString(digest[:]), nil
}

// Attach returns a copy of params with the signature set under HashField.
func (s *Signer) Attach(params Params) (Params, error) {
	sig, err := s.Sign(params)
	if err != nil {
		return nil, err
	}
	signed := params.Clone()
	signed.Set(HashField, sig)
	return signed, nil
}

// Verify recomputes the signature of params and compares it with signature.
// The comparison is exact: no trimming, no case folding.
func (s *Signer) Verify(params Params, signature string) error {
	if signature == "" {
		return ErrSignatureMismatch
	}
	expected, err := s.Sign(params)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}
