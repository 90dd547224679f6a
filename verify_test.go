package bamboo

import (
	"crypto/ed25519"
	"errors"
	"testing"
)

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	kp := testKeypair()
	_, encoded, err := Publish(kp, 1, []byte("hello bamboo!"), false, nil, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := Verify(encoded, []byte("hello bamboo?"), nil, nil); !errors.Is(err, ErrPayloadHashMismatch) {
		t.Fatalf("Verify with tampered payload = %v, want ErrPayloadHashMismatch", err)
	}
}

func TestVerifyRejectsWrongPayloadLength(t *testing.T) {
	// Hash matches the real payload but payload_size lies about its
	// length: the hash check passes, and the length check must still
	// catch it (hash is checked before length, not instead of it).
	kp := testKeypair()
	payload := []byte("hello bamboo!")
	e := Entry{
		Author:      kp.Public,
		LogID:       1,
		SeqNum:      1,
		PayloadSize: uint64(len(payload)) + 1,
		PayloadHash: digestOf(payload).Ref(),
	}
	var signBuf [MaxEntrySize]byte
	n, err := e.EncodeForSigning(signBuf[:])
	if err != nil {
		t.Fatalf("EncodeForSigning: %v", err)
	}
	e.Sig = &Signature{Value: ed25519.Sign(kp.Private, signBuf[:n])}
	buf := make([]byte, e.EncodedLen())
	if _, err := e.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	err = Verify(buf, payload, nil, nil)
	var mismatch *PayloadLengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Verify with wrong-length payload = %v, want *PayloadLengthMismatchError", err)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	kp := testKeypair()
	_, encoded, err := Publish(kp, 1, []byte("hello bamboo!"), false, nil, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	encoded[len(encoded)-1] ^= 0xFF
	if err := Verify(encoded, nil, nil, nil); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify with tampered signature = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyAcceptsMissingBacklinkEntry(t *testing.T) {
	// Absent backlink bytes for seq_num > 1 are a valid partial
	// replication case, not an error: Verify should fall back to
	// checking just the signature.
	kp := testKeypair()
	_, first, err := Publish(kp, 1, []byte("m1"), false, nil, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	_, second, err := Publish(kp, 1, []byte("m2"), false, first, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := Verify(second, nil, nil, nil); err != nil {
		t.Fatalf("Verify without backlink bytes = %v, want nil", err)
	}
}

func TestVerifyRejectsBacklinkHashMismatch(t *testing.T) {
	kp := testKeypair()
	_, first, err := Publish(kp, 1, []byte("m1"), false, nil, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	_, second, err := Publish(kp, 1, []byte("m2"), false, first, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// Same author, log and seq_num as first, different payload: every
	// metadata check passes and only the backlink hash differs.
	_, decoy, err := Publish(kp, 1, []byte("decoy"), false, nil, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := Verify(second, nil, decoy, nil); !errors.Is(err, ErrBacklinkHashMismatch) {
		t.Fatalf("Verify against an unrelated backlink entry = %v, want ErrBacklinkHashMismatch", err)
	}
}

func TestVerifyRejectsBacklinkAuthorMismatch(t *testing.T) {
	store := newMemEntryStore()
	kp := testKeypair()
	chain, err := publishChain(kp, 1, store, [][]byte{[]byte("m1")})
	if err != nil {
		t.Fatalf("publishChain: %v", err)
	}

	// Hand-construct a second entry correctly linking to chain[0] but
	// authored (and signed) by a different keypair; Publish itself
	// refuses to build this, so this exercises Verify's own check.
	other := testKeypair()
	d := digestOf(chain[0]).Ref()
	forged := Entry{
		Author:      other.Public,
		LogID:       1,
		SeqNum:      2,
		Backlink:    &d,
		PayloadSize: 2,
		PayloadHash: digestOf([]byte("m2")).Ref(),
	}
	var signBuf [MaxEntrySize]byte
	n, err := forged.EncodeForSigning(signBuf[:])
	if err != nil {
		t.Fatalf("EncodeForSigning: %v", err)
	}
	forged.Sig = &Signature{Value: ed25519.Sign(other.Private, signBuf[:n])}
	buf := make([]byte, forged.EncodedLen())
	if _, err := forged.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if err := Verify(buf, nil, chain[0], nil); !errors.Is(err, ErrBacklinkAuthorMismatch) {
		t.Fatalf("Verify forged entry with mismatched author = %v, want ErrBacklinkAuthorMismatch", err)
	}
}

func TestVerifyRequiresLipmaaEntry(t *testing.T) {
	store := newMemEntryStore()
	kp := testKeypair()
	payloads := make([][]byte, 8)
	for i := range payloads {
		payloads[i] = []byte("m")
	}
	chain, err := publishChain(kp, 1, store, payloads)
	if err != nil {
		t.Fatalf("publishChain: %v", err)
	}
	eighth := chain[7]
	if err := Verify(eighth, nil, chain[6], nil); !errors.Is(err, ErrVerifyMissingLipmaaEntry) {
		t.Fatalf("Verify seq 8 without lipmaa entry = %v, want ErrVerifyMissingLipmaaEntry", err)
	}
	if err := Verify(eighth, nil, chain[6], chain[3]); err != nil {
		t.Fatalf("Verify seq 8 with both links: %v", err)
	}
}

func TestVerifyRejectsPublishedAfterEndOfFeed(t *testing.T) {
	kp := testKeypair()
	_, ended, err := Publish(kp, 1, []byte("goodbye"), true, nil, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// Publish refuses to build a successor to an ended feed, so
	// hand-construct and sign one directly to exercise Verify's
	// independent check.
	d := digestOf(ended).Ref()
	next := Entry{
		Author:      kp.Public,
		LogID:       1,
		SeqNum:      2,
		Backlink:    &d,
		PayloadSize: 5,
		PayloadHash: digestOf([]byte("after")).Ref(),
	}
	var signBuf [MaxEntrySize]byte
	n, err := next.EncodeForSigning(signBuf[:])
	if err != nil {
		t.Fatalf("EncodeForSigning: %v", err)
	}
	next.Sig = &Signature{Value: ed25519.Sign(kp.Private, signBuf[:n])}
	buf := make([]byte, next.EncodedLen())
	if _, err := next.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Verify(buf, nil, ended, nil); !errors.Is(err, ErrVerifyPublishedAfterEndOfFeed) {
		t.Fatalf("Verify entry after end_of_feed = %v, want ErrVerifyPublishedAfterEndOfFeed", err)
	}
}
