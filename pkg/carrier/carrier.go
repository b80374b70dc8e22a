// Package carrier sends text messages through Twilio's Programmable
// Messaging API (SMS and WhatsApp channels).
package carrier

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Error is a failure reported by the carrier with its numeric error code.
type Error struct {
	Code    int
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return e.Message
	}
	return fmt.Sprintf("carrier error %d: %s", e.Code, e.Message)
}

type Twilio struct {
	client *twilio.RestClient
}

func NewTwilio(accountSID, authToken string) *Twilio {
	return &Twilio{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

// Send creates a message and returns its SID. from and to must already carry
// the channel prefix when sending over WhatsApp.
func (t *Twilio) Send(ctx context.Context, from, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", translate(err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

func translate(err error) error {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return &Error{Code: restErr.Code, Status: restErr.Status, Message: restErr.Message}
	}
	return &Error{Message: err.Error()}
}
