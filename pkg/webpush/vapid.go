package webpush

import (
	"crypto/ecdh"
	"encoding/base64"
	"fmt"

	webpushgo "github.com/SherClockHolmes/webpush-go"
)

// authSecretSize is the length of a subscription's auth secret (RFC 8291).
const authSecretSize = 16

// VAPIDKeys is an application server key pair (RFC 8292). Both halves travel
// as unpadded base64url: the public key as an uncompressed P-256 point, the
// private key as the 32 byte scalar.
type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string
}

// GenerateVAPIDKeys creates a fresh key pair.
func GenerateVAPIDKeys() (VAPIDKeys, error) {
	priv, pub, err := webpushgo.GenerateVAPIDKeys()
	if err != nil {
		return VAPIDKeys{}, fmt.Errorf("failed to generate vapid key: %w", err)
	}
	return VAPIDKeys{PublicKey: pub, PrivateKey: priv}, nil
}

var b64 = base64.RawURLEncoding

// decodeB64 accepts padded or unpadded, url or std alphabets. Browsers and
// key generators disagree on which they emit.
func decodeB64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.StdEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("invalid base64 value")
}

// completeKeys checks the private key and derives the public half from it.
// A configured public key must match.
func completeKeys(keys VAPIDKeys) (VAPIDKeys, error) {
	d, err := decodeB64(keys.PrivateKey)
	if err != nil {
		return VAPIDKeys{}, fmt.Errorf("vapid private key: %w", err)
	}
	priv, err := ecdh.P256().NewPrivateKey(d)
	if err != nil {
		return VAPIDKeys{}, fmt.Errorf("vapid private key: %w", err)
	}
	pub := priv.PublicKey().Bytes()

	if keys.PublicKey != "" {
		configured, err := decodeB64(keys.PublicKey)
		if err != nil {
			return VAPIDKeys{}, fmt.Errorf("vapid public key: %w", err)
		}
		if string(configured) != string(pub) {
			return VAPIDKeys{}, fmt.Errorf("vapid public key does not match private key")
		}
	}

	return VAPIDKeys{PublicKey: b64.EncodeToString(pub), PrivateKey: b64.EncodeToString(d)}, nil
}

// ValidateSubscriptionKeys reports whether p256dh is a P-256 point and auth a
// 16 byte secret, the only key material a payload can be encrypted for.
func ValidateSubscriptionKeys(p256dh, auth string) error {
	point, err := decodeB64(p256dh)
	if err != nil {
		return fmt.Errorf("p256dh: %w", err)
	}
	if _, err := ecdh.P256().NewPublicKey(point); err != nil {
		return fmt.Errorf("p256dh is not a P-256 public key")
	}

	secret, err := decodeB64(auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if len(secret) != authSecretSize {
		return fmt.Errorf("auth must be %d bytes, got %d", authSecretSize, len(secret))
	}
	return nil
}
