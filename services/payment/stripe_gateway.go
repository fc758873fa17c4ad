package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"innkeep/models"
	"innkeep/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway with stripe-go. Requests use a fixed timeout and are never
// retried.
type StripeGateway struct {
	api *client.API
}

type StripeOptions struct {
	Key     string
	BaseURL string
	Timeout time.Duration
}

func NewStripeGateway(opts StripeOptions) *StripeGateway {
	if opts.Key == "" {
		return &StripeGateway{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: opts.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     utils.GetLogger().Sugar(),
	}
	if opts.BaseURL != "" {
		cfg.URL = stripe.String(strings.TrimRight(opts.BaseURL, "/"))
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	uploads := stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg)
	return &StripeGateway{
		api: client.New(opts.Key, &stripe.Backends{API: backend, Connect: backend, Uploads: uploads}),
	}
}

func (g *StripeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if g.api == nil {
		return nil, ErrGatewayNotConfigured
	}
	currency := strings.ToLower(req.Currency)
	description := req.Description
	if description == "" {
		description = "Booking payment"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(utils.ToMinorUnits(req.Amount, currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(description),
				},
			},
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if id := req.Metadata[MetadataPaymentID]; id != "" {
		params.ClientReferenceID = stripe.String(id)
	}

	start := time.Now()
	sess, err := g.api.CheckoutSessions.New(params)
	observe("create_checkout", start, err)
	if err != nil {
		return nil, translate(err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) CreateDirectPayment(ctx context.Context, req DirectRequest) (*GatewayPayment, error) {
	if g.api == nil {
		return nil, ErrGatewayNotConfigured
	}
	pmParams := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(req.Card.Number),
			ExpMonth: stripe.Int64(int64(req.Card.ExpMonth)),
			ExpYear:  stripe.Int64(int64(req.Card.ExpYear)),
			CVC:      stripe.String(req.Card.CVC),
		},
	}
	if req.Card.Name != "" {
		pmParams.BillingDetails = &stripe.PaymentMethodBillingDetailsParams{Name: stripe.String(req.Card.Name)}
	}
	pmParams.Context = ctx

	start := time.Now()
	pm, err := g.api.PaymentMethods.New(pmParams)
	observe("create_payment_method", start, err)
	if err != nil {
		return nil, translate(err)
	}

	currency := strings.ToLower(req.Currency)
	piParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(utils.ToMinorUnits(req.Amount, currency)),
		Currency:           stripe.String(currency),
		PaymentMethod:      stripe.String(pm.ID),
		PaymentMethodTypes: stripe.StringSlice([]string{string(stripe.PaymentMethodTypeCard)}),
		Confirm:            stripe.Bool(true),
	}
	if req.Description != "" {
		piParams.Description = stripe.String(req.Description)
	}
	for k, v := range req.Metadata {
		piParams.AddMetadata(k, v)
	}
	piParams.Context = ctx

	start = time.Now()
	pi, err := g.api.PaymentIntents.New(piParams)
	observe("create_payment_intent", start, err)
	if err != nil {
		return nil, translate(err)
	}
	return fromIntent(pi), nil
}

// GetPayment accepts checkout session ids (cs_...) and payment intent ids.
func (g *StripeGateway) GetPayment(ctx context.Context, ref string) (*GatewayPayment, error) {
	if g.api == nil {
		return nil, ErrGatewayNotConfigured
	}
	start := time.Now()
	if strings.HasPrefix(ref, "cs_") {
		params := &stripe.CheckoutSessionParams{}
		params.Context = ctx
		sess, err := g.api.CheckoutSessions.Get(ref, params)
		observe("get_checkout", start, err)
		if err != nil {
			return nil, translate(err)
		}
		return fromSession(sess), nil
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(ref, params)
	observe("get_payment_intent", start, err)
	if err != nil {
		return nil, translate(err)
	}
	return fromIntent(pi), nil
}

func fromIntent(pi *stripe.PaymentIntent) *GatewayPayment {
	gp := &GatewayPayment{ID: pi.ID, Status: models.PaymentPending}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		gp.Status = models.PaymentCompleted
	case stripe.PaymentIntentStatusCanceled:
		gp.Status = models.PaymentFailed
		gp.FailureReason = "canceled"
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// A confirmed intent falls back here after a failed attempt.
		if pi.LastPaymentError != nil {
			gp.Status = models.PaymentFailed
			gp.FailureReason = pi.LastPaymentError.Msg
		}
	}
	return gp
}

func fromSession(sess *stripe.CheckoutSession) *GatewayPayment {
	gp := &GatewayPayment{ID: sess.ID, Status: models.PaymentPending}
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		gp.Status = models.PaymentCompleted
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		gp.Status = models.PaymentFailed
		gp.FailureReason = "checkout session expired"
	}
	return gp
}

// translate turns card and request errors into DeclinedError; everything else is left for the
// caller to report as an upstream failure.
func translate(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Type {
	case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
		d := &DeclinedError{Code: string(se.Code), Message: se.Msg}
		if se.DeclineCode != "" {
			d.Code = string(se.DeclineCode)
		}
		if se.PaymentIntent != nil {
			d.Ref = se.PaymentIntent.ID
		}
		return d
	}
	return err
}

func observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		utils.GetLogger().Warn("Gateway call failed", zap.String("operation", op), zap.Error(err))
	}
	utils.GatewayRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
