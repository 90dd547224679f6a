package bamboo

import (
	"bytes"
	"crypto/ed25519"
	"errors"
)

// SignatureSize is the width in bytes of a raw Ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// ErrSignatureLength is returned when a byte slice claiming to be a
// signature is not exactly SignatureSize bytes long.
var ErrSignatureLength = errors.New("bamboo: signature: wrong length")

// Signature is a detached 64-byte Ed25519 signature. It carries no
// length prefix on the wire: whatever bytes remain after the rest of
// an entry's fields are the signature, in full.
type Signature struct {
	Value []byte
}

// Equal reports whether two signatures have the same byte value.
func (s Signature) Equal(o Signature) bool {
	return bytes.Equal(s.Value, o.Value)
}

// decodeSignature takes ownership of the remaining bytes of an encoded
// entry and interprets them as a signature, or reports that there
// weren't any (an unsigned entry, e.g. one produced for signing).
func decodeSignature(b []byte) (*Signature, error) {
	switch len(b) {
	case 0:
		return nil, nil
	case SignatureSize:
		return &Signature{Value: b}, nil
	default:
		return nil, ErrSignatureLength
	}
}
