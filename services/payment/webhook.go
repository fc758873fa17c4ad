package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"innkeep/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	HeaderSignature       = "X-Webhook-Signature"
	HeaderTimestamp       = "X-Webhook-Timestamp"
	HeaderStripeSignature = "Stripe-Signature"

	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature headers")
	ErrInvalidSignature = errors.New("webhook signature mismatch")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Event is a verified gateway notification reduced to what the ledger needs. An empty Status
// means the event type is not one we act on.
type Event struct {
	ID            string
	Type          string
	PaymentID     string
	GatewayRef    string
	Status        models.PaymentStatus
	FailureReason string
}

// Verifier authenticates a raw webhook delivery and decodes it.
type Verifier interface {
	Verify(header http.Header, payload []byte) (*Event, error)
}

// NewVerifier picks the verifier for WEBHOOK_MODE.
func NewVerifier(mode, secret string, tolerance time.Duration) (Verifier, error) {
	if secret == "" {
		return nil, errors.New("webhook secret is not configured")
	}
	switch strings.ToLower(mode) {
	case "", "hmac":
		return &HMACVerifier{Secret: []byte(secret), Tolerance: tolerance}, nil
	case "stripe":
		return &StripeVerifier{Secret: secret, Tolerance: tolerance}, nil
	default:
		return nil, fmt.Errorf("unknown webhook mode %q", mode)
	}
}

// HMACVerifier checks hex(HMAC-SHA256(secret, timestamp + "." + body)) carried in
// X-Webhook-Signature, with the unix timestamp in X-Webhook-Timestamp.
type HMACVerifier struct {
	Secret    []byte
	Tolerance time.Duration
	Now       func() time.Time
}

type hmacPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		PaymentID     string `json:"payment_id"`
		GatewayRef    string `json:"gateway_ref"`
		FailureReason string `json:"failure_reason"`
	} `json:"data"`
}

// Sign returns the signature header value for payload at timestamp ts.
func Sign(secret []byte, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *HMACVerifier) Verify(header http.Header, payload []byte) (*Event, error) {
	sig := strings.TrimSpace(header.Get(HeaderSignature))
	tsRaw := strings.TrimSpace(header.Get(HeaderTimestamp))
	if sig == "" || tsRaw == "" {
		return nil, ErrMissingSignature
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}

	given, err := hex.DecodeString(strings.TrimPrefix(sig, "sha256="))
	if err != nil {
		return nil, ErrInvalidSignature
	}
	expected, _ := hex.DecodeString(Sign(v.Secret, ts, payload))
	if !hmac.Equal(given, expected) {
		return nil, ErrInvalidSignature
	}

	if v.Tolerance > 0 {
		now := time.Now()
		if v.Now != nil {
			now = v.Now()
		}
		if d := now.Sub(time.Unix(ts, 0)); d > v.Tolerance || d < -v.Tolerance {
			return nil, ErrStaleTimestamp
		}
	}

	var p hmacPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.ID == "" || p.Type == "" {
		return nil, fmt.Errorf("%w: id and type are required", ErrMalformedPayload)
	}
	ev := &Event{
		ID:            p.ID,
		Type:          p.Type,
		PaymentID:     p.Data.PaymentID,
		GatewayRef:    p.Data.GatewayRef,
		FailureReason: p.Data.FailureReason,
	}
	switch p.Type {
	case EventPaymentCompleted:
		ev.Status = models.PaymentCompleted
	case EventPaymentFailed:
		ev.Status = models.PaymentFailed
	}
	if ev.Status != "" && ev.PaymentID == "" && ev.GatewayRef == "" {
		return nil, fmt.Errorf("%w: payment_id or gateway_ref is required", ErrMalformedPayload)
	}
	return ev, nil
}

// StripeVerifier checks the Stripe-Signature header with stripe-go's webhook package.
type StripeVerifier struct {
	Secret    string
	Tolerance time.Duration
}

func (v *StripeVerifier) Verify(header http.Header, payload []byte) (*Event, error) {
	sig := header.Get(HeaderStripeSignature)
	if sig == "" {
		return nil, ErrMissingSignature
	}
	se, err := webhook.ConstructEventWithOptions(payload, sig, v.Secret, webhook.ConstructEventOptions{
		Tolerance:                v.Tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrNotSigned):
			return nil, ErrMissingSignature
		case errors.Is(err, webhook.ErrTooOld):
			return nil, ErrStaleTimestamp
		case errors.Is(err, webhook.ErrNoValidSignature), errors.Is(err, webhook.ErrInvalidHeader):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}

	ev := &Event{ID: se.ID, Type: string(se.Type)}
	if se.Data == nil {
		return ev, nil
	}
	switch se.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionExpired, stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(se.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		ev.GatewayRef = sess.ID
		ev.PaymentID = sess.Metadata[MetadataPaymentID]
		if ev.PaymentID == "" {
			ev.PaymentID = sess.ClientReferenceID
		}
		switch se.Type {
		case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
			// Delayed methods complete the session before the money arrives.
			if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
				ev.Status = models.PaymentCompleted
			}
		default:
			ev.Status = models.PaymentFailed
			ev.FailureReason = "checkout session " + strings.TrimPrefix(string(se.Type), "checkout.session.")
		}
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(se.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		ev.GatewayRef = pi.ID
		ev.PaymentID = pi.Metadata[MetadataPaymentID]
		if se.Type == stripe.EventTypePaymentIntentSucceeded {
			ev.Status = models.PaymentCompleted
		} else {
			ev.Status = models.PaymentFailed
			if pi.LastPaymentError != nil {
				ev.FailureReason = pi.LastPaymentError.Msg
			}
		}
	}
	return ev, nil
}
