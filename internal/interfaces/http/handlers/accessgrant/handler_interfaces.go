package accessgrant

import (
	"context"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/application/accessgrant/usecases"
)

type createGrantUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateGrantCommand) (*dto.GrantDTO, error)
}

type getGrantUseCase interface {
	Execute(ctx context.Context, grantID uint) (*dto.GrantDTO, error)
}

type listGrantLogsUseCase interface {
	Execute(ctx context.Context, grantID uint) ([]*dto.LogEntryDTO, error)
}

type assignAccessUseCase interface {
	Execute(ctx context.Context, cmd usecases.AssignAccessCommand) (*dto.AssignResultDTO, error)
}

type revokeAccessUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeAccessCommand) (*dto.RevokeResultDTO, error)
}

type retryGrantUseCase interface {
	Execute(ctx context.Context, cmd usecases.RetryGrantCommand) (*dto.AssignResultDTO, error)
}

type verifyAccessUseCase interface {
	Execute(ctx context.Context, grantID uint) (*dto.VerifyResultDTO, error)
}
