package bamboo

import "errors"

// ErrEncodeBufferTooSmall is returned when Encode's destination buffer
// cannot hold the entry's encoded bytes.
var ErrEncodeBufferTooSmall = errors.New("bamboo: encode: destination buffer too small")

// EncodedLen returns the number of bytes Encode will write for e. It
// does not validate e; call Validate first if that matters to the
// caller.
func (e Entry) EncodedLen() int {
	n := 1 + len(e.Author) + VarintLen(e.LogID) + VarintLen(e.SeqNum)
	if e.SeqNum > 1 {
		n += digestWireLen
		if IsLipmaaRequired(e.SeqNum) {
			n += digestWireLen
		}
	}
	n += VarintLen(e.PayloadSize) + digestWireLen
	if e.Sig != nil {
		n += SignatureSize
	}
	return n
}

// Encode writes e's canonical wire form into dst and returns the
// number of bytes written. len(dst) must be at least e.EncodedLen();
// a buffer of MaxEntrySize always suffices. Fields are
// written in the fixed order: is_end_of_feed, author, log_id, seq_num,
// [backlink, [lipmaa_link]], payload_size, payload_hash, [signature].
func (e Entry) Encode(dst []byte) (int, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	need := e.EncodedLen()
	if len(dst) < need {
		return 0, ErrEncodeBufferTooSmall
	}

	out := dst[:0]
	var err error

	if e.IsEndOfFeed {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, e.Author...)
	out = AppendVarint(out, e.LogID)
	out = AppendVarint(out, e.SeqNum)

	if e.SeqNum > 1 {
		out, err = encodeDigest(out, *e.Backlink)
		if err != nil {
			return 0, err
		}
		if IsLipmaaRequired(e.SeqNum) {
			out, err = encodeDigest(out, *e.LipmaaLink)
			if err != nil {
				return 0, err
			}
		}
	}

	out = AppendVarint(out, e.PayloadSize)
	out, err = encodeDigest(out, e.PayloadHash)
	if err != nil {
		return 0, err
	}

	if e.Sig != nil {
		if len(e.Sig.Value) != SignatureSize {
			return 0, ErrSignatureLength
		}
		out = append(out, e.Sig.Value...)
	}

	return len(out), nil
}

// EncodeForSigning writes e's canonical wire form with the signature
// field always omitted, regardless of whether e.Sig is set. This is
// the exact byte string Publish signs and Verify checks a signature
// against.
func (e Entry) EncodeForSigning(dst []byte) (int, error) {
	unsigned := e
	unsigned.Sig = nil
	return unsigned.Encode(dst)
}
