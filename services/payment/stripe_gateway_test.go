package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"innkeep/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStripe answers the handful of endpoints the gateway calls.
type fakeStripe struct {
	mu      sync.Mutex
	forms   map[string]url.Values
	decline bool
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.forms[r.Method+" "+r.URL.Path] = r.PostForm
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
		_, _ = w.Write([]byte(`{"id":"cs_test_abc","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_abc","status":"open","payment_status":"unpaid"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/checkout/sessions/cs_test_abc":
		_, _ = w.Write([]byte(`{"id":"cs_test_abc","object":"checkout.session","status":"complete","payment_status":"paid"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_methods":
		_, _ = w.Write([]byte(`{"id":"pm_test_1","object":"payment_method","type":"card"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
		if f.decline {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","decline_code":"insufficient_funds","message":"Your card has insufficient funds.","payment_intent":{"id":"pi_declined","object":"payment_intent"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"pi_test_1","object":"payment_intent","status":"succeeded","amount":12050,"currency":"usd"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/payment_intents/pi_test_1":
		_, _ = w.Write([]byte(`{"id":"pi_test_1","object":"payment_intent","status":"processing"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"unknown route"}}`))
	}
}

func (f *fakeStripe) form(key string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[key]
}

func newStripeTestGateway(t *testing.T) (*StripeGateway, *fakeStripe) {
	t.Helper()
	fake := &fakeStripe{forms: make(map[string]url.Values)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	gw := NewStripeGateway(StripeOptions{Key: "sk_test_123", BaseURL: srv.URL, Timeout: 5 * time.Second})
	return gw, fake
}

func TestStripeGatewayCreateCheckout(t *testing.T) {
	gw, fake := newStripeTestGateway(t)
	sess, err := gw.CreateCheckout(context.Background(), CheckoutRequest{
		Amount:      decimal.RequireFromString("120.50"),
		Currency:    "USD",
		Description: "Stay in Room 7",
		SuccessURL:  "https://innkeep.example.com/ok",
		CancelURL:   "https://innkeep.example.com/cancel",
		Metadata:    map[string]string{MetadataPaymentID: "pay_1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_abc", sess.URL)

	form := fake.form("POST /v1/checkout/sessions")
	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "12050", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "pay_1", form.Get("client_reference_id"))
	assert.Equal(t, "pay_1", form.Get("metadata[payment_id]"))
}

func TestStripeGatewayDirectPayment(t *testing.T) {
	gw, fake := newStripeTestGateway(t)
	req := DirectRequest{
		Amount:   decimal.RequireFromString("120.50"),
		Currency: "usd",
		Card:     Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"},
	}

	gp, err := gw.CreateDirectPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1", gp.ID)
	assert.Equal(t, models.PaymentCompleted, gp.Status)
	assert.Equal(t, "pm_test_1", fake.form("POST /v1/payment_intents").Get("payment_method"))
	assert.Equal(t, "true", fake.form("POST /v1/payment_intents").Get("confirm"))

	fake.decline = true
	_, err = gw.CreateDirectPayment(context.Background(), req)
	var declined *DeclinedError
	require.True(t, errors.As(err, &declined), "got %v", err)
	assert.Equal(t, "insufficient_funds", declined.Code)
	assert.Equal(t, "pi_declined", declined.Ref)
}

func TestStripeGatewayGetPayment(t *testing.T) {
	gw, _ := newStripeTestGateway(t)

	gp, err := gw.GetPayment(context.Background(), "cs_test_abc")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, gp.Status)

	gp, err = gw.GetPayment(context.Background(), "pi_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, gp.Status)
}

func TestStripeGatewayNotConfigured(t *testing.T) {
	gw := NewStripeGateway(StripeOptions{})
	_, err := gw.CreateCheckout(context.Background(), CheckoutRequest{})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	_, err = gw.GetPayment(context.Background(), "pi_1")
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}
