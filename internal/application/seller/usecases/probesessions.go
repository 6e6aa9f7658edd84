package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/application/seller/dto"
	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

const (
	reasonSessionInvalid = "seller session is no longer valid"

	// disableAfterInterruptTimeout bounds the disable step of a pass that was cut short.
	disableAfterInterruptTimeout = 30 * time.Second
)

// ProbeSessionsUseCase walks every active or untested connection once, in order,
// and disables the offerings of sellers left without a working session.
type ProbeSessionsUseCase struct {
	connRepo        seller.ConnectionRepository
	programRepo     program.Repository
	checker         SessionChecker
	opener          seller.Opener
	revalidateAfter time.Duration
	delay           time.Duration
	logger          logger.Interface
	now             func() time.Time
	sleep           func(ctx context.Context, d time.Duration) error
}

// NewProbeSessionsUseCase creates a new session prober.
func NewProbeSessionsUseCase(
	connRepo seller.ConnectionRepository,
	programRepo program.Repository,
	checker SessionChecker,
	opener seller.Opener,
	revalidateAfter time.Duration,
	delay time.Duration,
	logger logger.Interface,
) *ProbeSessionsUseCase {
	return &ProbeSessionsUseCase{
		connRepo:        connRepo,
		programRepo:     programRepo,
		checker:         checker,
		opener:          opener,
		revalidateAfter: revalidateAfter,
		delay:           delay,
		logger:          logger,
		now:             biztime.NowUTC,
		sleep:           sleepCtx,
	}
}

// SetClock overrides the time source used for freshness checks.
func (uc *ProbeSessionsUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// SetSleep overrides the pause taken between checked connections.
func (uc *ProbeSessionsUseCase) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	uc.sleep = sleep
}

// Execute runs one probe pass and returns its summary. An interrupted pass still
// disables the programs of sellers it found without a working session.
func (uc *ProbeSessionsUseCase) Execute(ctx context.Context) (*dto.ProbeSummaryDTO, error) {
	conns, err := uc.connRepo.ListProbeCandidates(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list probe candidates", "error", err)
		return nil, fmt.Errorf("failed to list probe candidates: %w", err)
	}

	summary := &dto.ProbeSummaryDTO{Total: len(conns)}
	for _, conn := range conns {
		if conn.ValidatedWithin(uc.now(), uc.revalidateAfter) {
			summary.Skipped++
			continue
		}

		if summary.Checked > 0 && uc.delay > 0 {
			if err := uc.sleep(ctx, uc.delay); err != nil {
				uc.logger.Warnw("session probe interrupted", "checked", summary.Checked, "error", err)
				dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disableAfterInterruptTimeout)
				defer cancel()
				if derr := uc.disablePrograms(dctx, summary); derr != nil {
					uc.logger.Warnw("disable step after interrupted probe failed", "error", derr)
				}
				return summary, err
			}
		}
		summary.Checked++

		status := probeConnection(ctx, uc.checker, uc.opener, conn, uc.now())
		switch status {
		case seller.StatusExpired:
			summary.Expired++
			uc.logger.Warnw("seller session expired", "seller_id", conn.SellerID(), "reason", conn.LastError())
		case seller.StatusError:
			summary.Errors++
			uc.logger.Warnw("seller session probe error", "seller_id", conn.SellerID(), "error", conn.LastError())
		}

		if err := uc.connRepo.Update(ctx, conn); err != nil {
			summary.Errors++
			uc.logger.Errorw("failed to record probe result", "seller_id", conn.SellerID(), "error", err)
		}
	}

	if err := uc.disablePrograms(ctx, summary); err != nil {
		return summary, err
	}

	uc.logger.Infow("session probe pass finished",
		"total", summary.Total,
		"checked", summary.Checked,
		"skipped", summary.Skipped,
		"expired", summary.Expired,
		"errors", summary.Errors,
		"programs_disabled", summary.ProgramsDisabled,
	)
	return summary, nil
}

// disablePrograms disables the programs of every seller whose connection is not active.
func (uc *ProbeSessionsUseCase) disablePrograms(ctx context.Context, summary *dto.ProbeSummaryDTO) error {
	sellerIDs, err := uc.connRepo.ListNonActiveSellerIDs(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list non-active sellers", "error", err)
		return fmt.Errorf("failed to list non-active sellers: %w", err)
	}
	if len(sellerIDs) == 0 {
		return nil
	}
	disabled, err := uc.programRepo.DisableBySellers(ctx, sellerIDs, reasonSessionInvalid)
	if err != nil {
		uc.logger.Errorw("failed to disable programs", "sellers", len(sellerIDs), "error", err)
		return fmt.Errorf("failed to disable programs: %w", err)
	}
	summary.ProgramsDisabled = disabled
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SessionProbeJob adapts the prober to the scheduler's batch job contract.
type SessionProbeJob struct {
	uc *ProbeSessionsUseCase
}

// NewSessionProbeJob wraps the prober for the scheduler.
func NewSessionProbeJob(uc *ProbeSessionsUseCase) *SessionProbeJob {
	return &SessionProbeJob{uc: uc}
}

// Execute runs one pass and reports how many connections were checked.
func (j *SessionProbeJob) Execute(ctx context.Context) (int, error) {
	summary, err := j.uc.Execute(ctx)
	if summary == nil {
		return 0, err
	}
	return summary.Checked, err
}
