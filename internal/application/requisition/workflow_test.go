package requisition_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provgso/requisition-api/internal/application/requisition"
	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
	"github.com/provgso/requisition-api/internal/infrastructure/memory"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type env struct {
	store    *memory.Store
	workflow *requisition.Workflow
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	seed := []entity.InventoryItem{
		{ID: "secpa", Name: "SECPA security paper", Unit: "piece", PhysicalQty: dec(1500), PendingQty: dec(200)},
		{ID: "bond-a4", Name: "Bond paper A4", Unit: "ream", PhysicalQty: dec(80), PendingQty: dec(0)},
		{ID: "toner", Name: "Printer toner", Unit: "cartridge", PhysicalQty: dec(10), PendingQty: dec(0)},
	}
	for i := range seed {
		require.NoError(t, store.Items().Create(context.Background(), &seed[i]))
	}
	return &env{store: store, workflow: requisition.NewWorkflow(store, nil)}
}

func (e *env) item(t *testing.T, id string) *entity.InventoryItem {
	t.Helper()
	item, err := e.store.Items().Get(context.Background(), id)
	require.NoError(t, err)
	return item
}

func (e *env) submit(t *testing.T, items ...requisition.LineInput) *entity.SupplyRequest {
	t.Helper()
	req, err := e.workflow.Submit(context.Background(), requisition.SubmitInput{
		RequesterID: "alice",
		Purpose:     "office supplies for Q3",
		Items:       items,
	})
	require.NoError(t, err)
	return req
}

func TestSubmit_ReservesEveryLine(t *testing.T) {
	e := newEnv(t)

	req := e.submit(t,
		requisition.LineInput{ItemID: "secpa", Qty: dec(100)},
		requisition.LineInput{ItemID: "bond-a4", Qty: dec(20)},
	)

	assert.Equal(t, entity.StatusForVerification, req.Status)
	assert.Equal(t, "alice", req.RequesterID)
	assert.NotEmpty(t, req.ID)
	require.Len(t, req.LineItems, 2)
	assert.Equal(t, "SECPA security paper", req.LineItems[0].Name, "name snapshot at submit time")
	assert.True(t, req.LineItems[0].RequestedQty.Equal(dec(100)))
	assert.True(t, req.LineItems[0].Qty.Equal(dec(100)), "working qty starts at requested qty")

	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(dec(300)))
	assert.True(t, secpa.PhysicalQty.Equal(dec(1500)))
	assert.True(t, secpa.Available().Equal(dec(1200)))

	movements, err := e.store.Movements().ListByItem(context.Background(), "secpa")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeRESERVE, movements[0].Type)
	assert.Equal(t, req.ID, movements[0].RequestID)
	assert.Equal(t, "alice", movements[0].CreatedBy)
}

func TestSubmit_InsufficientAvailability_NoMutation(t *testing.T) {
	e := newEnv(t)

	_, err := e.workflow.Submit(context.Background(), requisition.SubmitInput{
		RequesterID: "alice",
		Items:       []requisition.LineInput{{ItemID: "secpa", Qty: dec(2000)}},
	})

	require.ErrorIs(t, err, domain.ErrInsufficientAvailability)
	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(dec(200)))

	reqs, err := e.store.Requests().List(context.Background(), repository.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, reqs, "failed submission must not be persisted")
}

func TestSubmit_AllOrNothing(t *testing.T) {
	e := newEnv(t)

	// First line fits, second does not: the whole submission rolls back.
	_, err := e.workflow.Submit(context.Background(), requisition.SubmitInput{
		RequesterID: "alice",
		Items: []requisition.LineInput{
			{ItemID: "bond-a4", Qty: dec(10)},
			{ItemID: "toner", Qty: dec(50)},
		},
	})

	require.ErrorIs(t, err, domain.ErrInsufficientAvailability)
	assert.True(t, e.item(t, "bond-a4").PendingQty.IsZero(), "first line's reservation must be rolled back")
}

func TestSubmit_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   requisition.SubmitInput
		want error
	}{
		{"empty items", requisition.SubmitInput{RequesterID: "alice"}, domain.ErrInvalidInput},
		{"missing requester", requisition.SubmitInput{Items: []requisition.LineInput{{ItemID: "secpa", Qty: dec(1)}}}, domain.ErrInvalidInput},
		{"zero qty", requisition.SubmitInput{RequesterID: "alice", Items: []requisition.LineInput{{ItemID: "secpa", Qty: dec(0)}}}, domain.ErrInvalidInput},
		{"negative qty", requisition.SubmitInput{RequesterID: "alice", Items: []requisition.LineInput{{ItemID: "secpa", Qty: dec(-3)}}}, domain.ErrInvalidInput},
		{"duplicate item", requisition.SubmitInput{RequesterID: "alice", Items: []requisition.LineInput{{ItemID: "secpa", Qty: dec(1)}, {ItemID: "secpa", Qty: dec(2)}}}, domain.ErrInvalidInput},
		{"unknown item", requisition.SubmitInput{RequesterID: "alice", Items: []requisition.LineInput{{ItemID: "ghost", Qty: dec(1)}}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.workflow.Submit(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestVerify_Unadjusted(t *testing.T) {
	e := newEnv(t)
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(100)})

	verified, err := e.workflow.Verify(context.Background(), req.ID, "officer-cruz", nil)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAwaitingApproval, verified.Status)
	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(dec(200)), "pending back to pre-submit baseline")
	assert.True(t, secpa.PhysicalQty.Equal(dec(1400)))
}

func TestVerify_AdjustedDown_PartialFulfillment(t *testing.T) {
	e := newEnv(t)
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(50)})

	verified, err := e.workflow.Verify(context.Background(), req.ID, "officer-cruz",
		[]requisition.LineInput{{ItemID: "secpa", Qty: dec(30)}})
	require.NoError(t, err)

	line := verified.Line("secpa")
	require.NotNil(t, line)
	assert.True(t, line.RequestedQty.Equal(dec(50)), "original request is immutable")
	assert.True(t, line.Qty.Equal(dec(30)))

	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(dec(200)), "the full original reservation of 50 is released")
	assert.True(t, secpa.PhysicalQty.Equal(dec(1470)), "only the adjusted 30 leaves physical stock")
}

func TestVerify_AdjustmentValidation(t *testing.T) {
	e := newEnv(t)
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(10)})
	ctx := context.Background()

	_, err := e.workflow.Verify(ctx, req.ID, "officer-cruz", []requisition.LineInput{{ItemID: "ghost", Qty: dec(5)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "adjustment must reference an existing line")

	_, err = e.workflow.Verify(ctx, req.ID, "officer-cruz", []requisition.LineInput{{ItemID: "secpa", Qty: dec(-1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "qty floor is zero")

	// The failed verifies must not have advanced the request.
	current, err := e.store.Requests().Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusForVerification, current.Status)
}

func TestVerify_InsufficientPhysicalStock_RollsBack(t *testing.T) {
	e := newEnv(t)
	req := e.submit(t, requisition.LineInput{ItemID: "toner", Qty: dec(5)})

	// Verifier bumps the quantity beyond what is physically on hand.
	_, err := e.workflow.Verify(context.Background(), req.ID, "officer-cruz",
		[]requisition.LineInput{{ItemID: "toner", Qty: dec(20)}})

	require.ErrorIs(t, err, domain.ErrInsufficientPhysicalStock)
	toner := e.item(t, "toner")
	assert.True(t, toner.PhysicalQty.Equal(dec(10)))
	assert.True(t, toner.PendingQty.Equal(dec(5)), "reservation stays until verify succeeds or reject releases it")

	current, err := e.store.Requests().Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusForVerification, current.Status)
}

// Two open requests hold the whole stock of an item. Adjusting the first one
// upward must not be allowed to consume the second one's reservation, or
// available would go negative.
func TestVerify_UpwardAdjustmentCannotConsumeOtherReservations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// bond-a4 has 80 physical; both holds together take all of it.
	first := e.submit(t, requisition.LineInput{ItemID: "bond-a4", Qty: dec(50)})
	e.submit(t, requisition.LineInput{ItemID: "bond-a4", Qty: dec(30)})

	_, err := e.workflow.Verify(ctx, first.ID, "officer-cruz",
		[]requisition.LineInput{{ItemID: "bond-a4", Qty: dec(80)}})
	require.ErrorIs(t, err, domain.ErrInsufficientPhysicalStock)

	bond := e.item(t, "bond-a4")
	assert.True(t, bond.PhysicalQty.Equal(dec(80)), "failed verify must not mutate")
	assert.True(t, bond.PendingQty.Equal(dec(80)))
	assert.False(t, bond.Available().IsNegative())

	// Within its own reservation the verify succeeds and available stays >= 0.
	_, err = e.workflow.Verify(ctx, first.ID, "officer-cruz",
		[]requisition.LineInput{{ItemID: "bond-a4", Qty: dec(50)}})
	require.NoError(t, err)
	bond = e.item(t, "bond-a4")
	assert.True(t, bond.PhysicalQty.Equal(dec(30)))
	assert.True(t, bond.PendingQty.Equal(dec(30)))
	assert.False(t, bond.Available().IsNegative())
}

func TestVerify_WrongState(t *testing.T) {
	e := newEnv(t)
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(10)})

	_, err := e.workflow.Verify(context.Background(), req.ID, "officer-cruz", nil)
	require.NoError(t, err)

	_, err = e.workflow.Verify(context.Background(), req.ID, "officer-cruz", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "verify is not repeatable")

	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PhysicalQty.Equal(dec(1490)), "second verify must not deduct again")
}

func TestLifecycle_FullHappyPath(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.submit(t, requisition.LineInput{ItemID: "bond-a4", Qty: dec(20)})

	_, err := e.workflow.Verify(ctx, req.ID, "officer-cruz", nil)
	require.NoError(t, err)
	require.NoError(t, e.workflow.Approve(ctx, req.ID, "dir-reyes"))
	require.NoError(t, e.workflow.Issue(ctx, req.ID, "officer-cruz"))
	require.NoError(t, e.workflow.Receive(ctx, req.ID, "alice"))

	final, err := e.store.Requests().Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusHistory, final.Status)
	assert.Equal(t, "dir-reyes", final.ApproverID)
	assert.Equal(t, "officer-cruz", final.IssuerID)
	assert.Equal(t, "alice", final.ReceiverID)

	// Quantity freeze: the working qty set at verification never moved again.
	assert.True(t, final.Line("bond-a4").Qty.Equal(dec(20)))

	// Conservation: the reservation left pending exactly once, via commit.
	bond := e.item(t, "bond-a4")
	assert.True(t, bond.PendingQty.IsZero())
	assert.True(t, bond.PhysicalQty.Equal(dec(60)))
}

func TestTransitions_WrongSourceState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.submit(t, requisition.LineInput{ItemID: "bond-a4", Qty: dec(5)})

	// Still ForVerification: everything downstream must refuse.
	assert.ErrorIs(t, e.workflow.Approve(ctx, req.ID, "dir-reyes"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, e.workflow.Issue(ctx, req.ID, "officer-cruz"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, e.workflow.Receive(ctx, req.ID, "alice"), domain.ErrInvalidTransition)

	assert.ErrorIs(t, e.workflow.Approve(ctx, "missing-id", "dir-reyes"), domain.ErrNotFound)
}

func TestReject_BeforeVerify_ReleasesReservation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(10)})

	require.NoError(t, e.workflow.Reject(ctx, req.ID, "officer-cruz"))

	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(dec(200)), "pending returns to its pre-submit value")
	assert.True(t, secpa.PhysicalQty.Equal(dec(1500)), "physical stock untouched")

	current, err := e.store.Requests().Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, current.Status)

	movements, err := e.store.Movements().ListByItem(ctx, "secpa")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, entity.MovementTypeRELEASE, movements[0].Type, "newest first")
	assert.Equal(t, "officer-cruz", movements[0].CreatedBy, "the rejecting actor is journaled")
}

func TestReject_AfterVerify_NoLedgerEffect(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(40)})
	_, err := e.workflow.Verify(ctx, req.ID, "officer-cruz", nil)
	require.NoError(t, err)

	require.NoError(t, e.workflow.Reject(ctx, req.ID, "officer-cruz"))

	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(dec(200)), "commit already settled the reservation")
	assert.True(t, secpa.PhysicalQty.Equal(dec(1460)), "committed deduction stands")
}

func TestReject_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.submit(t, requisition.LineInput{ItemID: "secpa", Qty: dec(10)})

	require.NoError(t, e.workflow.Reject(ctx, req.ID, "officer-cruz"))
	secpaAfterFirst := e.item(t, "secpa")

	err := e.workflow.Reject(ctx, req.ID, "officer-cruz")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	secpa := e.item(t, "secpa")
	assert.True(t, secpa.PendingQty.Equal(secpaAfterFirst.PendingQty), "second reject must not touch the ledger")
	assert.True(t, secpa.PhysicalQty.Equal(secpaAfterFirst.PhysicalQty))
}

func TestReject_TerminalAndReceivedStatesRefuse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.submit(t, requisition.LineInput{ItemID: "bond-a4", Qty: dec(5)})
	_, err := e.workflow.Verify(ctx, req.ID, "officer-cruz", nil)
	require.NoError(t, err)
	require.NoError(t, e.workflow.Approve(ctx, req.ID, "dir-reyes"))
	require.NoError(t, e.workflow.Issue(ctx, req.ID, "officer-cruz"))

	assert.ErrorIs(t, e.workflow.Reject(ctx, req.ID, "officer-cruz"), domain.ErrInvalidTransition,
		"ToReceive cannot be rejected")

	require.NoError(t, e.workflow.Receive(ctx, req.ID, "alice"))
	assert.ErrorIs(t, e.workflow.Reject(ctx, req.ID, "officer-cruz"), domain.ErrInvalidTransition,
		"History cannot be rejected")
}

// Two concurrent submissions compete for stock only one can satisfy; exactly
// one must win the availability check.
func TestSubmit_ConcurrentReservations(t *testing.T) {
	e := newEnv(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.workflow.Submit(context.Background(), requisition.SubmitInput{
				RequesterID: "alice",
				Items:       []requisition.LineInput{{ItemID: "toner", Qty: dec(8)}},
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientAvailability):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok, "exactly one submission wins")
	assert.Equal(t, 1, insufficient)

	toner := e.item(t, "toner")
	assert.True(t, toner.PendingQty.Equal(dec(8)))
}
