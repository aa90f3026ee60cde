package settlement_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/settlement"
)

func TestDeriveStatusFullPayment(t *testing.T) {
	status := settlement.DeriveStatus(1200, 1200, models.SchedulePending)
	assert.Equal(t, models.SchedulePaid, status)
}

func TestDeriveStatusOverpayment(t *testing.T) {
	status := settlement.DeriveStatus(1200, 1500, models.SchedulePending)
	assert.Equal(t, models.SchedulePaid, status)
}

func TestDeriveStatusPartialPayment(t *testing.T) {
	status := settlement.DeriveStatus(1200, 600, models.SchedulePending)
	assert.Equal(t, models.SchedulePartial, status)
}

func TestDeriveStatusZeroAmountLeavesStatusUnchanged(t *testing.T) {
	for _, current := range []models.ScheduleStatus{
		models.SchedulePending, models.SchedulePartial, models.ScheduleOverdue, models.SchedulePaid,
	} {
		assert.Equal(t, current, settlement.DeriveStatus(1200, 0, current))
	}
}

// Each payment is judged against the schedule's full amount independently;
// two halves do not add up to paid.
func TestDeriveStatusDoesNotAccumulate(t *testing.T) {
	first := settlement.DeriveStatus(1200, 600, models.SchedulePending)
	assert.Equal(t, models.SchedulePartial, first)

	second := settlement.DeriveStatus(1200, 600, first)
	assert.Equal(t, models.SchedulePartial, second)
}

// Two concurrent full payments must converge on paid: the derivation does
// not depend on the previously observed status.
func TestDeriveStatusConvergesUnderConcurrentFullPayments(t *testing.T) {
	fromPending := settlement.DeriveStatus(1200, 1200, models.SchedulePending)
	fromPaid := settlement.DeriveStatus(1200, 1200, models.SchedulePaid)
	assert.Equal(t, fromPending, fromPaid)
	assert.Equal(t, models.SchedulePaid, fromPending)
}

func TestNewTransactionIDFormat(t *testing.T) {
	id := settlement.NewTransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN-"))
	assert.Equal(t, 3, len(strings.SplitN(id, "-", 3)))
}

func TestNewTransactionIDsAreDistinctUnderConcurrency(t *testing.T) {
	const workers = 50
	const perWorker = 20

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := settlement.NewTransactionID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
