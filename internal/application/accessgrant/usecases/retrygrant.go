package usecases

import (
	"context"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/shared/errors"
)

type RetryGrantCommand struct {
	GrantID uint
	Actor   string
}

// RetryGrantUseCase re-runs an attempt with the values already stored on the grant.
type RetryGrantUseCase struct {
	assign *AssignAccessUseCase
}

// NewRetryGrantUseCase creates a retry use case on top of assign
func NewRetryGrantUseCase(assign *AssignAccessUseCase) *RetryGrantUseCase {
	return &RetryGrantUseCase{assign: assign}
}

// Execute re-runs assignment from the terms stored on the grant
func (uc *RetryGrantUseCase) Execute(ctx context.Context, cmd RetryGrantCommand) (*dto.AssignResultDTO, error) {
	if cmd.GrantID == 0 {
		return nil, errors.NewValidationError("grant ID is required")
	}
	return uc.assign.run(ctx, cmd.GrantID, nil, cmd.Actor, "retry")
}
