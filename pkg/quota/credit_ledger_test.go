package quota

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditLedger_NewSessionHasFullCredit(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	assert.Equal(t, FreeCreditDollars, ledger.Remaining(ctx, "session-1"))
	assert.True(t, ledger.CanSpend(ctx, "session-1"))
}

func TestCreditLedger_ChargeReducesRemaining(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	ok := ledger.Charge(ctx, "session-1", 0.25)
	assert.True(t, ok)
	assert.InDelta(t, 0.75, ledger.Remaining(ctx, "session-1"), 1e-9)
}

func TestCreditLedger_ExhaustedSessionCannotSpend(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	ok := ledger.Charge(ctx, "session-1", FreeCreditDollars)
	assert.True(t, ok)

	assert.False(t, ledger.CanSpend(ctx, "session-1"))
	assert.False(t, ledger.Charge(ctx, "session-1", 0.01))
	assert.Equal(t, 0.0, ledger.Remaining(ctx, "session-1"))
}

func TestCreditLedger_NegativeChargeRejected(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	assert.False(t, ledger.Charge(ctx, "session-1", -0.5))
	assert.Equal(t, FreeCreditDollars, ledger.Remaining(ctx, "session-1"))
}

func TestCreditLedger_SessionsAreIndependent(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	ledger.Charge(ctx, "session-1", FreeCreditDollars)

	assert.False(t, ledger.CanSpend(ctx, "session-1"))
	assert.True(t, ledger.CanSpend(ctx, "session-2"))
}

func TestCreditLedger_ResetRestoresCredit(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	ledger.Charge(ctx, "session-1", FreeCreditDollars)
	ledger.Reset(ctx, "session-1")

	assert.Equal(t, FreeCreditDollars, ledger.Remaining(ctx, "session-1"))
}

func TestCreditLedger_ConcurrentCharges(t *testing.T) {
	ledger := NewCreditLedger()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Charge(ctx, "shared", 0.01)
		}()
	}
	wg.Wait()

	assert.InDelta(t, 0.5, ledger.Remaining(ctx, "shared"), 1e-9)
}
