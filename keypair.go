package bamboo

import (
	"crypto/ed25519"
	"io"
)

// Keypair holds the Ed25519 key material an author needs to publish
// entries: Public goes in every entry's author field, Private signs
// them.
type Keypair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeypair generates a fresh Ed25519 keypair, reading entropy
// from rand. Pass crypto/rand.Reader in production; tests can pass a
// deterministic reader to get reproducible keys.
func GenerateKeypair(rand io.Reader) (Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Public: pub, Private: priv}, nil
}
