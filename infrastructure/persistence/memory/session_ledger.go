// Package memory holds in-process ledger adapters. Anonymous sessions
// are metered here rather than in DynamoDB because they have no user
// item to charge against.
package memory

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"deepthinker-backend/application/ports"
	domainquota "deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
	"deepthinker-backend/pkg/quota"
)

// SessionLedger implements ports.QuotaLedger for anonymous sessions on
// top of the dollar-denominated credit ledger. Each generation is
// charged at the standing per-call estimate since the measured token
// counts are not known before the completion runs.
type SessionLedger struct {
	credits *quota.CreditLedger
	logger  *zap.Logger
}

// NewSessionLedger creates a new SessionLedger
func NewSessionLedger(credits *quota.CreditLedger, logger *zap.Logger) *SessionLedger {
	return &SessionLedger{
		credits: credits,
		logger:  logger,
	}
}

// perCallCost prices one generation at the flat token charge on both
// sides of the exchange
func perCallCost() float64 {
	return domainquota.Cost(domainquota.CostPerGeneration, domainquota.CostPerGeneration)
}

// tokensFor converts a dollar amount into the token-denominated figures
// the rest of the API reports
func tokensFor(dollars float64) int {
	calls := math.Floor(dollars / perCallCost())
	return int(calls) * domainquota.CostPerGeneration
}

// Consume charges one generation against the session's free credit
func (l *SessionLedger) Consume(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	if !l.credits.Charge(ctx, userID, perCallCost()) {
		return ports.QuotaStatus{}, pkgerrors.NewQuotaExhaustedError(0)
	}

	remaining := l.credits.Remaining(ctx, userID)

	l.logger.Debug("charged anonymous generation",
		zap.String("session", userID),
		zap.Float64("remainingCredit", remaining),
	)

	return ports.QuotaStatus{
		Usage:     tokensFor(quota.FreeCreditDollars - remaining),
		Remaining: tokensFor(remaining),
		LastReset: time.Time{},
	}, nil
}

// Status reads the session's credit without charging
func (l *SessionLedger) Status(ctx context.Context, userID string) (ports.QuotaStatus, error) {
	remaining := l.credits.Remaining(ctx, userID)

	return ports.QuotaStatus{
		Usage:     tokensFor(quota.FreeCreditDollars - remaining),
		Remaining: tokensFor(remaining),
		LastReset: time.Time{},
	}, nil
}
