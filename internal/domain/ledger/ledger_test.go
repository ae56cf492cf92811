package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/ledger"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func secpaForms() *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:          "SECPA-FORMS",
		Name:        "SECPA security paper",
		Unit:        "piece",
		PhysicalQty: dec(1500),
		PendingQty:  dec(200),
	}
}

// checkInvariants asserts the three counter invariants that must hold after
// every successful operation.
func checkInvariants(t *testing.T, item *entity.InventoryItem) {
	t.Helper()
	assert.False(t, item.PhysicalQty.IsNegative(), "physicalQty must be >= 0")
	assert.False(t, item.PendingQty.IsNegative(), "pendingQty must be >= 0")
	assert.False(t, item.Available().IsNegative(), "available must be >= 0")
}

func TestReserve_IncrementsPending(t *testing.T) {
	item := secpaForms()

	require.NoError(t, ledger.Reserve(item, dec(100)))

	assert.True(t, item.PendingQty.Equal(dec(300)))
	assert.True(t, item.PhysicalQty.Equal(dec(1500)), "reserve must not touch physical stock")
	assert.True(t, item.Available().Equal(dec(1200)))
	checkInvariants(t, item)
}

func TestReserve_InsufficientAvailability(t *testing.T) {
	item := secpaForms() // available = 1300

	err := ledger.Reserve(item, dec(2000))

	require.ErrorIs(t, err, domain.ErrInsufficientAvailability)
	assert.True(t, item.PendingQty.Equal(dec(200)), "failed reserve must not mutate")
	assert.True(t, item.PhysicalQty.Equal(dec(1500)))
}

func TestReserve_ExactAvailability(t *testing.T) {
	item := secpaForms()

	require.NoError(t, ledger.Reserve(item, dec(1300)))

	assert.True(t, item.Available().IsZero())
	checkInvariants(t, item)
}

func TestReserve_RejectsNonPositive(t *testing.T) {
	item := secpaForms()

	assert.ErrorIs(t, ledger.Reserve(item, dec(0)), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.Reserve(item, dec(-5)), domain.ErrInvalidInput)
}

func TestCommit_Unadjusted(t *testing.T) {
	item := secpaForms()
	require.NoError(t, ledger.Reserve(item, dec(100)))

	require.NoError(t, ledger.Commit(item, dec(100), dec(100)))

	assert.True(t, item.PendingQty.Equal(dec(200)), "pending back to pre-submit baseline")
	assert.True(t, item.PhysicalQty.Equal(dec(1400)))
	checkInvariants(t, item)
}

func TestCommit_AdjustedBelowReservation(t *testing.T) {
	item := secpaForms()
	require.NoError(t, ledger.Reserve(item, dec(50)))

	// Verifier reduced 50 -> 30: the full reservation is released, only the
	// adjusted quantity leaves physical stock.
	require.NoError(t, ledger.Commit(item, dec(50), dec(30)))

	assert.True(t, item.PendingQty.Equal(dec(200)))
	assert.True(t, item.PhysicalQty.Equal(dec(1470)))
	checkInvariants(t, item)
}

func TestCommit_AdjustedToZero(t *testing.T) {
	item := secpaForms()
	require.NoError(t, ledger.Reserve(item, dec(10)))

	require.NoError(t, ledger.Commit(item, dec(10), dec(0)))

	assert.True(t, item.PendingQty.Equal(dec(200)))
	assert.True(t, item.PhysicalQty.Equal(dec(1500)), "zero issue deducts nothing")
}

func TestCommit_AdjustedAboveUsesUnreservedStock(t *testing.T) {
	item := &entity.InventoryItem{ID: "it", PhysicalQty: dec(100), PendingQty: dec(30)}

	// One hold of 30 is ours; the upward adjustment may draw on it plus the
	// 70 unreserved units.
	require.NoError(t, ledger.Commit(item, dec(30), dec(60)))

	assert.True(t, item.PendingQty.IsZero())
	assert.True(t, item.PhysicalQty.Equal(dec(40)))
	checkInvariants(t, item)
}

func TestCommit_AdjustedAboveCannotConsumeOtherHolds(t *testing.T) {
	item := &entity.InventoryItem{ID: "it", PhysicalQty: dec(100)}
	require.NoError(t, ledger.Reserve(item, dec(50)))
	require.NoError(t, ledger.Reserve(item, dec(50))) // another request's hold

	// Adjusting our 50 up to 100 would eat the other request's reservation
	// and push available below zero.
	err := ledger.Commit(item, dec(50), dec(100))

	require.ErrorIs(t, err, domain.ErrInsufficientPhysicalStock)
	assert.True(t, item.PhysicalQty.Equal(dec(100)), "failed commit must not mutate")
	assert.True(t, item.PendingQty.Equal(dec(100)))

	// Within our own reservation the commit goes through and available holds.
	require.NoError(t, ledger.Commit(item, dec(50), dec(50)))
	assert.False(t, item.Available().IsNegative())
	checkInvariants(t, item)
}

func TestCommit_InsufficientPhysicalStock(t *testing.T) {
	item := &entity.InventoryItem{ID: "it", PhysicalQty: dec(10), PendingQty: dec(5)}

	err := ledger.Commit(item, dec(5), dec(20))

	require.ErrorIs(t, err, domain.ErrInsufficientPhysicalStock)
	assert.True(t, item.PhysicalQty.Equal(dec(10)), "failed commit must not mutate")
	assert.True(t, item.PendingQty.Equal(dec(5)))
}

func TestCommit_ReservationLargerThanPending(t *testing.T) {
	item := &entity.InventoryItem{ID: "it", PhysicalQty: dec(100), PendingQty: dec(5)}

	assert.ErrorIs(t, ledger.Commit(item, dec(10), dec(10)), domain.ErrInvalidInput)
}

func TestRelease_ReturnsReservation(t *testing.T) {
	item := secpaForms()
	require.NoError(t, ledger.Reserve(item, dec(10)))

	require.NoError(t, ledger.Release(item, dec(10)))

	assert.True(t, item.PendingQty.Equal(dec(200)), "pending back to pre-submit value")
	assert.True(t, item.PhysicalQty.Equal(dec(1500)), "release must not touch physical stock")
	checkInvariants(t, item)
}

func TestRelease_MoreThanPending(t *testing.T) {
	item := &entity.InventoryItem{ID: "it", PhysicalQty: dec(10), PendingQty: dec(2)}

	assert.ErrorIs(t, ledger.Release(item, dec(3)), domain.ErrInvalidInput)
	assert.True(t, item.PendingQty.Equal(dec(2)))
}

// Conservation: every reserved unit leaves pendingQty exactly once, via commit
// or release, never both.
func TestConservation_CommitThenReleaseFails(t *testing.T) {
	item := secpaForms()
	require.NoError(t, ledger.Reserve(item, dec(200)))
	require.NoError(t, ledger.Commit(item, dec(200), dec(200)))

	// The original baseline pending of 200 is someone else's; releasing our
	// already-committed 200 on top would double-count.
	assert.True(t, item.PendingQty.Equal(dec(200)))
	require.NoError(t, ledger.Release(item, dec(200))) // releases the baseline hold, legal
	assert.ErrorIs(t, ledger.Release(item, dec(1)), domain.ErrInvalidInput,
		"nothing left to release once every hold is accounted for")
}
