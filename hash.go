package bamboo

import (
	"bytes"
	"errors"
	"fmt"

	"lukechampine.com/blake3"
)

// DigestSize is the width in bytes of a Bamboo digest, regardless of
// which algorithm produced it.
const DigestSize = 32

// DigestAlgorithm identifies the hash function a tagged digest was
// produced with. The core only ever emits AlgorithmBlake3, but the
// wire tag leaves room for a future swap without touching the rest of
// the format.
type DigestAlgorithm byte

// AlgorithmBlake3 tags a digest produced by digestOf (BLAKE3, 32-byte
// output).
const AlgorithmBlake3 DigestAlgorithm = 0x00

var (
	// ErrUnsupportedAlgorithm is returned when a tagged digest names an
	// algorithm this build does not recognize.
	ErrUnsupportedAlgorithm = errors.New("bamboo: hash: unsupported digest algorithm")
	// ErrDigestLength is returned when a tagged digest's length field
	// does not equal DigestSize.
	ErrDigestLength = errors.New("bamboo: hash: digest has wrong length")
)

// Digest is a tagged 32-byte hash value. Value may borrow from a
// caller-owned buffer; callers that need the digest to outlive that
// buffer should copy it or use OwnedDigest.
type Digest struct {
	Algorithm DigestAlgorithm
	Value     []byte
}

// Equal reports whether two digests have the same algorithm and byte
// value.
func (d Digest) Equal(o Digest) bool {
	return d.Algorithm == o.Algorithm && bytes.Equal(d.Value, o.Value)
}

// String renders the digest as "alg:hex", useful in error messages and
// test failures.
func (d Digest) String() string {
	return fmt.Sprintf("%02x:%x", byte(d.Algorithm), d.Value)
}

// digestOf hashes data with the core's fixed hash function and returns
// a tagged, owned digest.
func digestOf(data []byte) OwnedDigest {
	sum := blake3.Sum256(data)
	return OwnedDigest{Algorithm: AlgorithmBlake3, Value: sum}
}

// encodeDigest appends the tagged wire form of d to dst:
// <algorithm:1><varint length><value:length>.
func encodeDigest(dst []byte, d Digest) ([]byte, error) {
	if len(d.Value) != DigestSize {
		return nil, ErrDigestLength
	}
	dst = append(dst, byte(d.Algorithm))
	dst = AppendVarint(dst, uint64(len(d.Value)))
	dst = append(dst, d.Value...)
	return dst, nil
}

// decodeDigest parses a tagged digest from the front of b.
func decodeDigest(b []byte) (Digest, []byte, error) {
	if len(b) < 1 {
		return Digest{}, nil, ErrVarintTruncated
	}
	alg := DigestAlgorithm(b[0])
	if alg != AlgorithmBlake3 {
		return Digest{}, nil, ErrUnsupportedAlgorithm
	}
	length, rest, err := DecodeVarint(b[1:])
	if err != nil {
		return Digest{}, nil, err
	}
	if length != DigestSize {
		return Digest{}, nil, ErrDigestLength
	}
	if len(rest) < DigestSize {
		return Digest{}, nil, ErrVarintTruncated
	}
	return Digest{Algorithm: alg, Value: rest[:DigestSize]}, rest[DigestSize:], nil
}

// digestWireLen returns the number of bytes encodeDigest would write
// for a digest of DigestSize, used when sizing output buffers.
const digestWireLen = 1 + 1 + DigestSize // tag + single-byte varint(32) + value
