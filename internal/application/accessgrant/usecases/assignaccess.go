package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/utils/logutil"
)

const maxStoredBodyLen = 2000

type AssignAccessCommand struct {
	GrantID               uint
	PineID                string
	BuyerUsername         string
	AccessType            string
	TrialDurationDays     *int
	SubscriptionExpiresAt *time.Time
	Actor                 string
}

type AssignAccessUseCase struct {
	grantRepo   accessgrant.GrantRepository
	logRepo     accessgrant.LogRepository
	connRepo    seller.ConnectionRepository
	catalogRepo catalog.EntryRepository
	platform    AccessPlatform
	opener      seller.Opener
	locker      GrantLocker
	txManager   TransactionManager
	logger      logger.Interface
	now         func() time.Time
}

// NewAssignAccessUseCase creates a new assign access use case
func NewAssignAccessUseCase(
	grantRepo accessgrant.GrantRepository,
	logRepo accessgrant.LogRepository,
	connRepo seller.ConnectionRepository,
	catalogRepo catalog.EntryRepository,
	platform AccessPlatform,
	opener seller.Opener,
	locker GrantLocker,
	txManager TransactionManager,
	logger logger.Interface,
) *AssignAccessUseCase {
	return &AssignAccessUseCase{
		grantRepo:   grantRepo,
		logRepo:     logRepo,
		connRepo:    connRepo,
		catalogRepo: catalogRepo,
		platform:    platform,
		opener:      opener,
		locker:      locker,
		txManager:   txManager,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// SetClock replaces the time source used for attempt timestamps and expirations.
func (uc *AssignAccessUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute writes the request values onto the grant and runs one attempt.
// A failed attempt returns a *GrantFailure wrapping the classifying AppError.
func (uc *AssignAccessUseCase) Execute(ctx context.Context, cmd AssignAccessCommand) (*dto.AssignResultDTO, error) {
	if cmd.GrantID == 0 {
		return nil, errors.NewValidationError("grant ID is required")
	}
	accessType, err := accessgrant.NewAccessType(cmd.AccessType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	terms := accessgrant.Terms{
		PineID:                cmd.PineID,
		BuyerUsername:         cmd.BuyerUsername,
		AccessType:            accessType,
		TrialDurationDays:     cmd.TrialDurationDays,
		SubscriptionExpiresAt: cmd.SubscriptionExpiresAt,
	}
	if err := terms.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	return uc.run(ctx, cmd.GrantID, &terms, cmd.Actor, "assign")
}

// run executes one attempt under the grant lock. A nil terms reuses the stored values.
func (uc *AssignAccessUseCase) run(ctx context.Context, grantID uint, terms *accessgrant.Terms, actor, trigger string) (*dto.AssignResultDTO, error) {
	release, err := uc.locker.Acquire(ctx, grantID)
	if err != nil {
		uc.logger.Warnw("access attempt rejected", "grant_id", grantID, "error", err)
		return nil, err
	}
	defer release()

	grant, err := uc.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to get access grant", "error", err, "grant_id", grantID)
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}
	if grant == nil {
		return nil, errors.NewNotFoundError("access grant not found")
	}

	if grant.Status().IsAssigned() {
		uc.logger.Infow("access grant already assigned, nothing to do", "grant_id", grantID)
		return toAssignResult(grant, false), nil
	}

	if terms != nil {
		if err := grant.ApplyTerms(*terms); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := grant.BeginAttempt(uc.now()); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	current := grant.Terms()
	startDetails := map[string]any{
		"actor":          actor,
		"trigger":        trigger,
		"pine_id":        current.PineID,
		"buyer_username": current.BuyerUsername,
		"access_type":    current.AccessType.String(),
	}
	if err := uc.persist(ctx, grant, logLine{
		level:   accessgrant.LogLevelInfo,
		message: fmt.Sprintf("attempt %d started", grant.Attempts()),
		details: startDetails,
	}); err != nil {
		return nil, err
	}

	outcome := uc.attempt(ctx, grant)

	// The outcome is recorded even if the caller went away: the platform call may already have landed.
	persistCtx := context.WithoutCancel(ctx)
	finished := uc.now()

	if outcome.err != nil {
		appErr := appErrorOf(outcome.err)
		outcome.details["error_type"] = string(appErr.Type)
		if appErr.Details != "" {
			outcome.details["error_details"] = appErr.Details
		}
		if err := grant.MarkFailed(finished, appErr.Message, outcome.details); err != nil {
			return nil, errors.NewInternalError("failed to record attempt outcome", err.Error())
		}
		if err := uc.persist(persistCtx, grant, logLine{
			level:   accessgrant.LogLevelError,
			message: appErr.Message,
			details: outcome.details,
		}); err != nil {
			return nil, err
		}

		uc.logger.Warnw("access attempt failed",
			"grant_id", grant.ID(),
			"attempt", grant.Attempts(),
			"error_type", appErr.Type,
			"error", appErr.Message,
		)
		return nil, newGrantFailure(grant.ID(), grant.Details(), appErr)
	}

	if err := grant.MarkAssigned(finished, outcome.expiresAt, outcome.details); err != nil {
		return nil, errors.NewInternalError("failed to record attempt outcome", err.Error())
	}

	lines := []logLine{}
	if outcome.ambiguous != nil {
		lines = append(lines, logLine{
			level:   accessgrant.LogLevelWarning,
			message: outcome.ambiguous.Message,
			details: map[string]any{
				"error_type":                        string(outcome.ambiguous.Type),
				accessgrant.DetailAmbiguousResponse: true,
				"reason":                            outcome.ambiguous.Details,
			},
		})
	}
	lines = append(lines, logLine{
		level:   accessgrant.LogLevelSuccess,
		message: fmt.Sprintf("access granted to %s on %s", grant.BuyerUsername(), grant.ScriptID()),
		details: outcome.details,
	})
	if err := uc.persist(persistCtx, grant, lines...); err != nil {
		return nil, err
	}

	uc.logger.Infow("access granted",
		"grant_id", grant.ID(),
		"attempt", grant.Attempts(),
		"script_id", grant.ScriptID(),
		"ambiguous", outcome.ambiguous != nil,
	)
	return toAssignResult(grant, outcome.ambiguous != nil), nil
}

type attemptOutcome struct {
	expiresAt *time.Time
	details   map[string]any
	ambiguous *errors.AppError
	err       error
}

// attempt performs the external steps of one grant attempt. It never panics.
func (uc *AssignAccessUseCase) attempt(ctx context.Context, grant *accessgrant.Grant) (out attemptOutcome) {
	out.details = map[string]any{}
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorw("panic during access attempt", "grant_id", grant.ID(), "panic", r)
			out.err = errors.NewInternalError("unexpected failure during access attempt", fmt.Sprint(r))
		}
	}()

	terms := grant.Terms()

	sess, err := openSellerSession(ctx, uc.connRepo, uc.opener, grant.SellerID())
	if err != nil {
		out.err = err
		return out
	}

	candidates, err := uc.platform.SearchUsernames(ctx, sess, terms.BuyerUsername)
	if err != nil {
		out.err = err
		return out
	}
	if !containsUsername(candidates, terms.BuyerUsername) {
		out.details["username_candidates"] = len(candidates)
		out.err = errors.NewNotFoundError(fmt.Sprintf(
			"platform username %q not found; ask the buyer to check the spelling and retry", terms.BuyerUsername,
		))
		return out
	}

	scriptID, err := resolveScriptID(ctx, uc.catalogRepo, grant.SellerID(), terms.PineID)
	if err != nil {
		out.err = err
		return out
	}
	grant.RecordScriptID(scriptID)
	out.details["script_id"] = scriptID

	expiresAt, err := accessgrant.ComputeExpiration(terms, uc.now())
	if err != nil {
		out.err = errors.NewValidationError(err.Error())
		return out
	}
	out.expiresAt = expiresAt

	resp, err := uc.platform.AddAccess(ctx, sess, scriptID, terms.BuyerUsername, expiresAt)
	var outcome tradingview.AccessOutcome
	if resp != nil {
		outcome = tradingview.InterpretAccessResponse(resp.Body)
		out.details[accessgrant.DetailResponse] = responseDetails(resp, outcome)
	}
	if err != nil && (resp == nil || outcome.Kind != tradingview.OutcomeHasAccess) {
		out.err = err
		return out
	}

	switch outcome.Kind {
	case tradingview.OutcomeRejected:
		msg := outcome.Message
		if msg == "" {
			msg = "platform rejected the access grant"
		}
		out.err = errors.NewExternalServiceError(msg)
		return out
	case tradingview.OutcomeHasAccess:
		out.details["already_had_access"] = true
	case tradingview.OutcomeAmbiguous:
		out.details[accessgrant.DetailAmbiguousResponse] = true
		out.ambiguous = errors.NewAmbiguousResponseError(
			"platform response was not recognised; access assumed granted",
			outcome.Message,
		)
	}

	out.details[accessgrant.DetailVerification] = uc.verify(ctx, sess, scriptID, terms.BuyerUsername)
	return out
}

// verify checks the access list. Failures never change the attempt outcome.
func (uc *AssignAccessUseCase) verify(ctx context.Context, sess seller.Session, scriptID, username string) map[string]any {
	names, err := uc.platform.ListAccess(ctx, sess, scriptID, username)
	if err != nil {
		uc.logger.Warnw("post-grant verification failed", "script_id", scriptID, "error", err)
		return map[string]any{"can_verify": false, "error": err.Error()}
	}
	return map[string]any{"can_verify": true, "verified": containsUsername(names, username)}
}

type logLine struct {
	level   accessgrant.LogLevel
	message string
	details map[string]any
}

// persist saves the grant and appends its log lines atomically.
func (uc *AssignAccessUseCase) persist(ctx context.Context, grant *accessgrant.Grant, lines ...logLine) error {
	return persistGrant(ctx, uc.txManager, uc.grantRepo, uc.logRepo, uc.logger, uc.now(), grant, lines...)
}

func persistGrant(
	ctx context.Context,
	txManager TransactionManager,
	grantRepo accessgrant.GrantRepository,
	logRepo accessgrant.LogRepository,
	log logger.Interface,
	at time.Time,
	grant *accessgrant.Grant,
	lines ...logLine,
) error {
	err := txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := grantRepo.Update(txCtx, grant); err != nil {
			return err
		}
		for _, l := range lines {
			entry, err := accessgrant.NewLogEntry(grant.ID(), l.level, l.message, l.details, at)
			if err != nil {
				return err
			}
			if err := logRepo.Append(txCtx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if stderrors.Is(err, accessgrant.ErrVersionConflict) {
		return errors.NewConflictError("access grant was modified by another request; reload and retry")
	}
	log.Errorw("failed to persist access grant", "error", err, "grant_id", grant.ID())
	return fmt.Errorf("failed to persist access grant: %w", err)
}

func responseDetails(resp *tradingview.Response, outcome tradingview.AccessOutcome) map[string]any {
	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        logutil.Body(resp.Body, maxStoredBodyLen),
		"outcome":     string(outcome.Kind),
	}
}

func toAssignResult(grant *accessgrant.Grant, ambiguous bool) *dto.AssignResultDTO {
	result := &dto.AssignResultDTO{
		Success:   true,
		GrantID:   grant.ID(),
		Status:    grant.Status().String(),
		Attempts:  grant.Attempts(),
		ExpiresAt: grant.ExpiresAt(),
		Ambiguous: ambiguous,
	}
	if v, ok := grant.Details()[accessgrant.DetailVerification].(map[string]any); ok {
		result.Verification = v
	}
	return result
}
