package payment

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"innkeep/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func signedHeader(secret string, ts int64, payload []byte) http.Header {
	h := http.Header{}
	h.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	h.Set(HeaderSignature, Sign([]byte(secret), ts, payload))
	return h
}

func TestHMACVerifier(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := &HMACVerifier{Secret: []byte(testSecret), Tolerance: 5 * time.Minute, Now: func() time.Time { return now }}
	payload := []byte(`{"id":"evt_1","type":"payment.completed","data":{"payment_id":"pay_1"}}`)

	t.Run("valid signature", func(t *testing.T) {
		ev, err := v.Verify(signedHeader(testSecret, now.Unix(), payload), payload)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, "pay_1", ev.PaymentID)
		assert.Equal(t, models.PaymentCompleted, ev.Status)
	})

	t.Run("sha256 prefix accepted", func(t *testing.T) {
		h := signedHeader(testSecret, now.Unix(), payload)
		h.Set(HeaderSignature, "sha256="+h.Get(HeaderSignature))
		_, err := v.Verify(h, payload)
		require.NoError(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(signedHeader("other", now.Unix(), payload), payload)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		h := signedHeader(testSecret, now.Unix(), payload)
		_, err := v.Verify(h, []byte(`{"id":"evt_1","type":"payment.completed","data":{"payment_id":"pay_2"}}`))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("timestamp is part of the signature", func(t *testing.T) {
		h := signedHeader(testSecret, now.Unix(), payload)
		h.Set(HeaderTimestamp, strconv.FormatInt(now.Unix()+1, 10))
		_, err := v.Verify(h, payload)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		h := signedHeader(testSecret, now.Unix(), payload)
		h.Del(HeaderSignature)
		_, err := v.Verify(h, payload)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		h := signedHeader(testSecret, now.Unix(), payload)
		h.Del(HeaderTimestamp)
		_, err := v.Verify(h, payload)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("not hex", func(t *testing.T) {
		h := signedHeader(testSecret, now.Unix(), payload)
		h.Set(HeaderSignature, "zz")
		_, err := v.Verify(h, payload)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("stale", func(t *testing.T) {
		ts := now.Add(-10 * time.Minute).Unix()
		_, err := v.Verify(signedHeader(testSecret, ts, payload), payload)
		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("unknown event type is passed through without status", func(t *testing.T) {
		body := []byte(`{"id":"evt_2","type":"payment.refunded","data":{}}`)
		ev, err := v.Verify(signedHeader(testSecret, now.Unix(), body), body)
		require.NoError(t, err)
		assert.Empty(t, ev.Status)
	})

	t.Run("actionable event without reference", func(t *testing.T) {
		body := []byte(`{"id":"evt_3","type":"payment.failed","data":{}}`)
		_, err := v.Verify(signedHeader(testSecret, now.Unix(), body), body)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}

func stripeHeader(secret string, payload []byte) http.Header {
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, secret)
	h := http.Header{}
	h.Set(HeaderStripeSignature, fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig)))
	return h
}

func TestStripeVerifier(t *testing.T) {
	v := &StripeVerifier{Secret: testSecret, Tolerance: 5 * time.Minute}

	t.Run("checkout completed", func(t *testing.T) {
		payload := []byte(`{"id":"evt_s1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","payment_status":"paid","metadata":{"payment_id":"pay_1"}}}}`)
		ev, err := v.Verify(stripeHeader(testSecret, payload), payload)
		require.NoError(t, err)
		assert.Equal(t, "evt_s1", ev.ID)
		assert.Equal(t, "cs_1", ev.GatewayRef)
		assert.Equal(t, "pay_1", ev.PaymentID)
		assert.Equal(t, models.PaymentCompleted, ev.Status)
	})

	t.Run("unpaid completion waits", func(t *testing.T) {
		payload := []byte(`{"id":"evt_s2","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_2","object":"checkout.session","payment_status":"unpaid","client_reference_id":"pay_2"}}}`)
		ev, err := v.Verify(stripeHeader(testSecret, payload), payload)
		require.NoError(t, err)
		assert.Equal(t, "pay_2", ev.PaymentID)
		assert.Empty(t, ev.Status)
	})

	t.Run("intent failed", func(t *testing.T) {
		payload := []byte(`{"id":"evt_s3","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_3","object":"payment_intent","metadata":{"payment_id":"pay_3"},"last_payment_error":{"message":"Your card was declined."}}}}`)
		ev, err := v.Verify(stripeHeader(testSecret, payload), payload)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, ev.Status)
		assert.Equal(t, "Your card was declined.", ev.FailureReason)
	})

	t.Run("bad signature", func(t *testing.T) {
		payload := []byte(`{"id":"evt_s4","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_4"}}}`)
		_, err := v.Verify(stripeHeader("whsec_other", payload), payload)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := v.Verify(http.Header{}, []byte(`{}`))
		assert.ErrorIs(t, err, ErrMissingSignature)
	})
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier("", "s", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &HMACVerifier{}, v)

	v, err = NewVerifier("stripe", "s", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &StripeVerifier{}, v)

	_, err = NewVerifier("hmac", "", time.Minute)
	assert.Error(t, err)
	_, err = NewVerifier("carrier-pigeon", "s", time.Minute)
	assert.Error(t, err)
}
