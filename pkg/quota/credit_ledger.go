// Package quota provides in-memory credit accounting for anonymous
// sessions. Authenticated users are metered durably by the persistence
// layer; anonymous visitors get a small free credit tracked per session
// so the AI endpoints cannot be farmed without signing up.
package quota

import (
	"context"
	"sync"
	"time"
)

// FreeCreditDollars is the spending allowance granted to each anonymous session
const FreeCreditDollars = 1.0

// CreditLedger tracks dollar-denominated spend per anonymous session key
type CreditLedger struct {
	mu       sync.RWMutex
	accounts map[string]*creditAccount
	limit    float64
	maxIdle  time.Duration
}

type creditAccount struct {
	spent    float64
	lastSeen time.Time
}

// NewCreditLedger creates a ledger granting each new key the standard free credit
func NewCreditLedger() *CreditLedger {
	ledger := &CreditLedger{
		accounts: make(map[string]*creditAccount),
		limit:    FreeCreditDollars,
		maxIdle:  24 * time.Hour,
	}

	go ledger.cleanup()

	return ledger
}

// Remaining returns the unspent credit for a session key
func (l *CreditLedger) Remaining(ctx context.Context, key string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[key]
	if !ok {
		return l.limit
	}
	remaining := l.limit - acct.spent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanSpend reports whether the session still has credit available
func (l *CreditLedger) CanSpend(ctx context.Context, key string) bool {
	return l.Remaining(ctx, key) > 0
}

// Charge records a spend against the session. It returns false without
// recording when the session has no credit left.
func (l *CreditLedger) Charge(ctx context.Context, key string, amount float64) bool {
	if amount < 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[key]
	if !ok {
		acct = &creditAccount{}
		l.accounts[key] = acct
	}
	acct.lastSeen = time.Now()

	if acct.spent >= l.limit {
		return false
	}

	acct.spent += amount
	return true
}

// Reset clears the recorded spend for a session key
func (l *CreditLedger) Reset(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.accounts, key)
}

func (l *CreditLedger) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, acct := range l.accounts {
			if now.Sub(acct.lastSeen) > l.maxIdle {
				delete(l.accounts, key)
			}
		}
		l.mu.Unlock()
	}
}
