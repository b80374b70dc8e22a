// Package webpush delivers Web Push messages to browser subscriptions. Payload
// encryption and VAPID signing are done by webpush-go; this package adds key
// handling and maps push service answers onto errors the dispatcher acts on.
package webpush

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dias221467/solo-system/internal/models"
	webpushgo "github.com/SherClockHolmes/webpush-go"
)

const defaultTTL = 24 * time.Hour

// StatusError is a non-2xx answer from a push service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("push service responded %d", e.StatusCode)
	}
	return fmt.Sprintf("push service responded %d: %s", e.StatusCode, e.Body)
}

// Gone reports whether the push service says the subscription no longer
// exists and must not be used again.
func (e *StatusError) Gone() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

// IsGone reports whether err means the subscription is permanently invalid.
func IsGone(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Gone()
}

type Options struct {
	Keys    VAPIDKeys
	Subject string // "mailto:" or "https:" contact for the push service operator
	TTL     time.Duration
	Client  *http.Client
}

type Client struct {
	keys       VAPIDKeys
	subscriber string
	ttl        time.Duration
	http       *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if opts.Keys.PrivateKey == "" {
		return nil, fmt.Errorf("vapid private key is required")
	}
	if opts.Subject == "" {
		return nil, fmt.Errorf("vapid subject is required")
	}
	keys, err := completeKeys(opts.Keys)
	if err != nil {
		return nil, err
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		keys: keys,
		// webpush-go adds the mailto: scheme itself.
		subscriber: strings.TrimPrefix(opts.Subject, "mailto:"),
		ttl:        opts.TTL,
		http:       opts.Client,
	}, nil
}

// PublicKey returns the application server key browsers subscribe with.
func (c *Client) PublicKey() string {
	return c.keys.PublicKey
}

// Send encrypts payload for sub and posts it to the subscription endpoint.
func (c *Client) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) error {
	resp, err := webpushgo.SendNotificationWithContext(ctx, payload, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpushgo.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpushgo.Options{
		HTTPClient:      c.http,
		Subscriber:      c.subscriber,
		TTL:             int(c.ttl.Seconds()),
		Urgency:         webpushgo.UrgencyNormal,
		VAPIDPublicKey:  c.keys.PublicKey,
		VAPIDPrivateKey: c.keys.PrivateKey,
	})
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
}
