package webpush

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/hkdf"
)

// Example from RFC 8291 Appendix A.
const (
	rfcPlaintext = "When I grow up, I want to be a watermelon"
	rfcUAPrivate = "q1dXpw3UpT5VOmu_cf_v6ih07Aems3njxI-JWgLcM94"
	rfcUAPublic  = "BCVxsr7N_eNgVRqvHtD0zTZsEc6-VV-JvLexhqUzORcxaOzi6-AYWXvTBHm4bjyPjs7Vd8pZGH6SRpkNtoIAiw4"
	rfcAuth      = "BTBZMqHH6r4Tts7J_aSIgg"
	rfcASPublic  = "BP4z9KsN6nGRTbVYI_c7VJSPQTBtkgcy27mlmlMoZIIgDll6e3vCYLocInmYWAmS6TlzAC8wEqKK6PBru3jl7A8"
	rfcBody      = "DGv6ra1nlYgDCS1FRnbzlwAAEABBBP4z9KsN6nGRTbVYI_c7VJSPQTBtkgcy27mlmlMoZIIgDll6e3vCYLocInmYWAmS6TlzAC8wEqKK6PBru3jl7A_yl95bQpu6cVPTpK4Mqgkf1CXztLVBSt2Ks3oZwbuwXPXLWyouBWLVWGNWQexSgSxsj_Qulcy4a-fN"
)

// userAgent is the browser side of a subscription: it holds the keys a push
// message is encrypted for and decrypts what the push service receives.
type userAgent struct {
	key  *ecdh.PrivateKey
	auth []byte
}

func newUserAgent(t *testing.T) *userAgent {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, authSecretSize)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return &userAgent{key: key, auth: auth}
}

func (ua *userAgent) subscription(endpoint string) *models.PushSubscription {
	return &models.PushSubscription{
		Endpoint: endpoint,
		Keys: models.PushSubscriptionKeys{
			P256dh: b64.EncodeToString(ua.key.PublicKey().Bytes()),
			Auth:   b64.EncodeToString(ua.auth),
		},
	}
}

// decrypt opens a single aes128gcm record and strips its padding.
func (ua *userAgent) decrypt(body []byte) ([]byte, error) {
	const headerPrefix = 16 + 4 + 1
	if len(body) < headerPrefix {
		return nil, fmt.Errorf("short body")
	}
	salt := body[:16]
	rs := binary.BigEndian.Uint32(body[16:20])
	idLen := int(body[20])
	if len(body) < headerPrefix+idLen {
		return nil, fmt.Errorf("short header")
	}
	asPublic := body[headerPrefix : headerPrefix+idLen]
	ciphertext := body[headerPrefix+idLen:]
	if uint32(len(body)) > rs {
		return nil, fmt.Errorf("record of %d bytes exceeds record size %d", len(body), rs)
	}

	asKey, err := ecdh.P256().NewPublicKey(asPublic)
	if err != nil {
		return nil, err
	}
	shared, err := ua.key.ECDH(asKey)
	if err != nil {
		return nil, err
	}

	keyInfo := append([]byte("WebPush: info\x00"), ua.key.PublicKey().Bytes()...)
	keyInfo = append(keyInfo, asPublic...)
	ikm := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, ua.auth, keyInfo), ikm); err != nil {
		return nil, err
	}
	cek := make([]byte, 16)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, []byte("Content-Encoding: aes128gcm\x00")), cek); err != nil {
		return nil, err
	}
	nonce := make([]byte, 12)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, []byte("Content-Encoding: nonce\x00")), nonce); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}

	plain = bytes.TrimRight(plain, "\x00")
	if len(plain) == 0 || plain[len(plain)-1] != 0x02 {
		return nil, fmt.Errorf("missing record delimiter")
	}
	return plain[:len(plain)-1], nil
}

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := decodeB64(s)
	require.NoError(t, err)
	return b
}

func TestUserAgentDecryptsRFC8291Example(t *testing.T) {
	key, err := ecdh.P256().NewPrivateKey(mustDecode(t, rfcUAPrivate))
	require.NoError(t, err)
	require.Equal(t, mustDecode(t, rfcUAPublic), key.PublicKey().Bytes())

	ua := &userAgent{key: key, auth: mustDecode(t, rfcAuth)}
	body := mustDecode(t, rfcBody)
	assert.Equal(t, mustDecode(t, rfcASPublic), body[21:86])

	plain, err := ua.decrypt(body)
	require.NoError(t, err)
	assert.Equal(t, rfcPlaintext, string(plain))

	body[len(body)-1] ^= 0xff
	_, err = ua.decrypt(body)
	assert.Error(t, err)
}

func newTestClient(t *testing.T, hc *http.Client) *Client {
	t.Helper()
	keys, err := GenerateVAPIDKeys()
	require.NoError(t, err)
	c, err := NewClient(Options{Keys: keys, Subject: "mailto:ops@example.com", Client: hc})
	require.NoError(t, err)
	return c
}

func vapidPublicKey(t *testing.T, c *Client) *ecdsa.PublicKey {
	t.Helper()
	pub := mustDecode(t, c.PublicKey())
	require.Len(t, pub, 65)
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(pub[1:33]),
		Y:     new(big.Int).SetBytes(pub[33:65]),
	}
}

func TestSendEncryptsAndSigns(t *testing.T) {
	ua := newUserAgent(t)

	var (
		gotBody    []byte
		gotHeaders http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.Client())
	err := c.Send(context.Background(), ua.subscription(srv.URL+"/push/abc"), []byte(`{"title":"Level up"}`))
	require.NoError(t, err)

	assert.Equal(t, "aes128gcm", gotHeaders.Get("Content-Encoding"))
	assert.Equal(t, "86400", gotHeaders.Get("TTL"))
	assert.Equal(t, "normal", gotHeaders.Get("Urgency"))

	plain, err := ua.decrypt(gotBody)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Level up"}`, string(plain))

	auth := gotHeaders.Get("Authorization")
	require.True(t, strings.HasPrefix(auth, "vapid t="))
	parts := strings.SplitN(strings.TrimPrefix(auth, "vapid t="), ", k=", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, c.PublicKey(), parts[1])

	token, err := jwt.Parse(parts[0], func(tok *jwt.Token) (interface{}, error) {
		return vapidPublicKey(t, c), nil
	}, jwt.WithValidMethods([]string{"ES256"}))
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, srv.URL, claims["aud"])
	assert.Equal(t, "mailto:ops@example.com", claims["sub"])
}

func TestSendReportsStatus(t *testing.T) {
	for _, tc := range []struct {
		status int
		gone   bool
	}{
		{http.StatusGone, true},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
	} {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.Client())
			err := c.Send(context.Background(), newUserAgent(t).subscription(srv.URL), []byte("x"))

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.status, se.StatusCode)
			assert.Equal(t, tc.gone, IsGone(err))
		})
	}
}

func TestSendRejectsBadSubscription(t *testing.T) {
	c := newTestClient(t, nil)
	sub := &models.PushSubscription{Endpoint: "https://push.example.com/x", Keys: models.PushSubscriptionKeys{P256dh: "AAAA", Auth: "AAAA"}}

	err := c.Send(context.Background(), sub, []byte("x"))
	require.Error(t, err)
	assert.False(t, IsGone(err))
}

func TestNewClientValidatesKeys(t *testing.T) {
	keys, err := GenerateVAPIDKeys()
	require.NoError(t, err)
	other, err := GenerateVAPIDKeys()
	require.NoError(t, err)

	_, err = NewClient(Options{Keys: VAPIDKeys{PublicKey: other.PublicKey, PrivateKey: keys.PrivateKey}, Subject: "mailto:a@b.c"})
	assert.Error(t, err)

	_, err = NewClient(Options{Keys: keys})
	assert.Error(t, err)

	c, err := NewClient(Options{Keys: VAPIDKeys{PrivateKey: keys.PrivateKey}, Subject: "mailto:a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, keys.PublicKey, c.PublicKey())
}

func TestValidateSubscriptionKeys(t *testing.T) {
	assert.NoError(t, ValidateSubscriptionKeys(rfcUAPublic, rfcAuth))

	for name, keys := range map[string][2]string{
		"not base64":      {"%%%", rfcAuth},
		"not a point":     {"BKey", rfcAuth},
		"point off curve": {"B" + strings.Repeat("A", 86), rfcAuth},
		"short auth":      {rfcUAPublic, "c2VjcmV0"},
		"empty auth":      {rfcUAPublic, ""},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateSubscriptionKeys(keys[0], keys[1]))
		})
	}
}
