package requisition

import (
	"context"

	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

// SlipUseCase assembles the data needed to print a requisition and issue slip:
// the request snapshot plus the resolved signatory actors. Rendering only makes
// sense once quantities are frozen and release is authorized in progress, so
// earlier states are refused.
type SlipUseCase struct {
	requests repository.RequestRepository
	actors   repository.ActorRepository
	renderer SlipRenderer
}

// NewSlipUseCase builds the use case.
func NewSlipUseCase(
	requests repository.RequestRepository,
	actors repository.ActorRepository,
	renderer SlipRenderer,
) *SlipUseCase {
	return &SlipUseCase{requests: requests, actors: actors, renderer: renderer}
}

// GenerateSlip renders the PDF slip for a request in ForIssuance, ToReceive or
// History.
func (uc *SlipUseCase) GenerateSlip(ctx context.Context, requestID string) ([]byte, error) {
	req, err := uc.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case entity.StatusForIssuance, entity.StatusToReceive, entity.StatusHistory:
	default:
		return nil, domain.ErrInvalidTransition
	}

	signatories := Signatories{
		RequestedBy: uc.resolve(ctx, req.RequesterID),
		ApprovedBy:  uc.resolve(ctx, req.ApproverID),
		IssuedBy:    uc.resolve(ctx, req.IssuerID),
		ReceivedBy:  uc.resolve(ctx, req.ReceiverID),
	}
	return uc.renderer.RenderSlip(ctx, req, signatories)
}

// resolve looks up an actor, tolerating blanks (transition not reached yet) and
// directory gaps (actor deleted after signing).
func (uc *SlipUseCase) resolve(ctx context.Context, actorID string) entity.Actor {
	if actorID == "" {
		return entity.Actor{}
	}
	actor, err := uc.actors.Get(ctx, actorID)
	if err != nil {
		return entity.Actor{ID: actorID}
	}
	return *actor
}
