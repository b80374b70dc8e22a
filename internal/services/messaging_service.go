package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dias221467/solo-system/internal/metrics"
	"github.com/Dias221467/solo-system/pkg/carrier"
	"github.com/Dias221467/solo-system/pkg/phone"
	"github.com/sirupsen/logrus"
)

// codeInvalidChannelSender is the carrier's "no channel found for the From
// address" error.
const codeInvalidChannelSender = 63007

// Carrier sends one text message and returns the carrier's message id.
type Carrier interface {
	Send(ctx context.Context, from, to, body string) (string, error)
}

type SendResult struct {
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated"`
	SID       string `json:"sid,omitempty"`
}

type MessagingConfig struct {
	From               string
	Transport          string // e.g. "whatsapp:"
	DefaultCountryCode string
}

// MessagingService forwards outbound text messages to the carrier.
type MessagingService struct {
	carrier Carrier
	cfg     MessagingConfig
}

// NewMessagingService creates the gateway. A nil carrier puts it in simulated
// mode: requests are validated and logged but never sent.
func NewMessagingService(c Carrier, cfg MessagingConfig) *MessagingService {
	return &MessagingService{carrier: c, cfg: cfg}
}

// SendTextMessage validates, normalizes and sends body to the given number.
func (s *MessagingService) SendTextMessage(ctx context.Context, to, body string) (*SendResult, error) {
	if strings.TrimSpace(to) == "" {
		return nil, &ValidationError{Field: "to", Message: "is required"}
	}
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Field: "body", Message: "is required"}
	}

	if s.carrier == nil {
		logrus.WithFields(logrus.Fields{
			"to":   to,
			"body": body,
		}).Info("Carrier not configured, simulating outbound message")
		metrics.OutboundMessages.WithLabelValues("simulated").Inc()
		return &SendResult{Success: true, Simulated: true}, nil
	}

	from := phone.Address(s.cfg.From, s.cfg.Transport, s.cfg.DefaultCountryCode)
	dest := phone.Address(to, s.cfg.Transport, s.cfg.DefaultCountryCode)
	if dest == "" {
		return nil, &ValidationError{Field: "to", Message: "must contain digits"}
	}

	sid, err := s.carrier.Send(ctx, from, dest, body)
	if err != nil {
		metrics.OutboundMessages.WithLabelValues("failed").Inc()
		logrus.WithError(err).WithField("to", dest).Error("Outbound message failed")
		return nil, carrierFailure(err, from)
	}

	metrics.OutboundMessages.WithLabelValues("sent").Inc()
	logrus.WithFields(logrus.Fields{"to": dest, "sid": sid}).Info("Outbound message sent")
	return &SendResult{Success: true, SID: sid}, nil
}

func carrierFailure(err error, from string) error {
	out := &CarrierError{Message: err.Error(), Err: err}

	var ce *carrier.Error
	if errors.As(err, &ce) {
		out.Code = ce.Code
		out.Message = ce.Message
		if ce.Code == codeInvalidChannelSender {
			out.Message = "The sender number " + from + " is not enabled for this channel. " +
				"Join the carrier sandbox or configure an approved sender number."
		}
	}
	return out
}
