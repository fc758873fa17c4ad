package payment

import (
	"context"
	"errors"
	"net/http"

	"innkeep/database"
	paymentRepo "innkeep/database/repository/payment"
	"innkeep/utils"

	"go.uber.org/zap"
)

// HandleWebhook verifies a delivery and applies it at most once. Unknown payments are
// acknowledged so the gateway stops retrying them.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, header http.Header, payload []byte) (*WebhookResult, error) {
	logger := utils.GetLogger()
	if s.Verifier == nil {
		return nil, utils.NewUpstreamError("webhook verification is not configured", errors.New("nil verifier"))
	}
	ev, err := s.Verifier.Verify(header, payload)
	if err != nil {
		utils.WebhookEventsTotal.WithLabelValues("rejected").Inc()
		logger.Warn("Webhook rejected", zap.Error(err))
		return nil, webhookError(err)
	}

	res := &WebhookResult{EventID: ev.ID, Type: ev.Type, PaymentID: ev.PaymentID}
	if ev.Status == "" {
		utils.WebhookEventsTotal.WithLabelValues("ignored").Inc()
		logger.Debug("Webhook event ignored", zap.String("eventID", ev.ID), zap.String("type", ev.Type))
		res.Ignored = true
		return res, nil
	}

	claimed := false
	if s.Idempotency != nil {
		ok, err := s.Idempotency.Claim(ctx, ev.ID)
		switch {
		case err != nil:
			logger.Warn("Idempotency store unavailable, relying on database", zap.Error(err))
		case !ok:
			utils.WebhookEventsTotal.WithLabelValues("duplicate").Inc()
			logger.Info("Duplicate webhook event", zap.String("eventID", ev.ID))
			res.Duplicate = true
			return res, nil
		default:
			claimed = true
		}
	}

	tr, err := s.Payments.Apply(ctx, paymentRepo.Transition{
		PaymentID:     ev.PaymentID,
		GatewayRef:    ev.GatewayRef,
		EventID:       ev.ID,
		EventType:     ev.Type,
		Status:        ev.Status,
		FailureReason: ev.FailureReason,
	})
	if err != nil {
		if claimed {
			if rerr := s.Idempotency.Release(ctx, ev.ID); rerr != nil {
				logger.Warn("Failed to release idempotency key", zap.String("eventID", ev.ID), zap.Error(rerr))
			}
		}
		if database.IsNotFound(err) {
			utils.WebhookEventsTotal.WithLabelValues("unknown_payment").Inc()
			logger.Warn("Webhook for unknown payment",
				zap.String("eventID", ev.ID),
				zap.String("paymentID", ev.PaymentID),
				zap.String("gatewayRef", ev.GatewayRef))
			res.Ignored = true
			return res, nil
		}
		utils.WebhookEventsTotal.WithLabelValues("error").Inc()
		return nil, utils.NewUpstreamError("failed to apply webhook event", err)
	}

	res.PaymentID = tr.Payment.ID
	res.Status = tr.Payment.Status
	res.Applied = tr.Applied
	res.Duplicate = tr.Duplicate
	outcome := "applied"
	switch {
	case tr.Duplicate:
		outcome = "duplicate"
	case !tr.Applied:
		outcome = "stale"
	}
	utils.WebhookEventsTotal.WithLabelValues(outcome).Inc()
	logger.Info("Webhook processed",
		zap.String("eventID", ev.ID),
		zap.String("type", ev.Type),
		zap.String("paymentID", tr.Payment.ID),
		zap.String("status", string(tr.Payment.Status)),
		zap.String("outcome", outcome))
	return res, nil
}

func webhookError(err error) error {
	msg := "invalid webhook"
	switch {
	case errors.Is(err, ErrMissingSignature):
		msg = "missing webhook signature headers"
	case errors.Is(err, ErrInvalidSignature):
		msg = "invalid webhook signature"
	case errors.Is(err, ErrStaleTimestamp):
		msg = "webhook timestamp outside tolerance"
	case errors.Is(err, ErrMalformedPayload):
		msg = "malformed webhook payload"
	}
	return &utils.AppError{Kind: utils.KindWebhook, Message: msg, Err: err}
}
