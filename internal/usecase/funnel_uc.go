package usecase

import (
	"context"
	"errors"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/infra/logging"
	"propfirm-web/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ FunnelUseCase = (*funnelUC)(nil)

// FunnelUseCase drives one visitor through the quiz. Navigation is strictly
// forward; a failed predicate leaves the step untouched rather than erroring
// so the client's continue affordance is simply inert.
type FunnelUseCase interface {
	Start(ctx context.Context, sessionID string) (*model.FunnelState, error)
	// Answer records a value for a question id. Multi-select questions take
	// several values; single-choice and free-text take one.
	Answer(ctx context.Context, sessionID, questionID string, values ...string) (*model.FunnelState, error)
	// SetContact fills the lead-capture fields.
	SetContact(ctx context.Context, sessionID, firstName, lastName, email string) (*model.FunnelState, error)
	// Advance moves forward one step when the current predicate holds.
	// The bool reports whether the step actually changed.
	Advance(ctx context.Context, sessionID string) (*model.FunnelState, bool, error)
	// Result returns the finalized state once the approval screen is reached.
	Result(ctx context.Context, sessionID string) (*model.FunnelState, error)
}

type funnelUC struct {
	states repository.FunnelStateRepository
	log    *zerolog.Logger
}

func NewFunnelUseCase(states repository.FunnelStateRepository, logger *zerolog.Logger) *funnelUC {
	return &funnelUC{states: states, log: logger}
}

func (u *funnelUC) Start(ctx context.Context, sessionID string) (*model.FunnelState, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	state := model.NewFunnelState(sessionID)
	if err := u.states.SetState(ctx, sessionID, state); err != nil {
		return nil, err
	}
	metrics.IncFunnelStart()
	u.log.Debug().Str("session_id", sessionID).Msg("funnel started")
	return state, nil
}

func (u *funnelUC) load(ctx context.Context, sessionID string) (*model.FunnelState, error) {
	state, err := u.states.GetState(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrFunnelExpired
		}
		return nil, err
	}
	return state, nil
}

func (u *funnelUC) Answer(ctx context.Context, sessionID, questionID string, values ...string) (*model.FunnelState, error) {
	if questionID == "" || len(values) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	state, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	step := state.CurrentStep()
	if step.QuestionID != questionID {
		// Answers land only on the live question; no revisiting earlier steps.
		return nil, domain.ErrInvalidArgument
	}
	switch step.Kind {
	case model.StepMulti:
		state.Selections[questionID] = values
	default:
		state.Answers[questionID] = values[0]
	}
	if err := u.states.SetState(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (u *funnelUC) SetContact(ctx context.Context, sessionID, firstName, lastName, email string) (*model.FunnelState, error) {
	state, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.CurrentStep().Kind != model.StepContact {
		return nil, domain.ErrInvalidArgument
	}
	state.FirstName = firstName
	state.LastName = lastName
	state.Email = email
	if err := u.states.SetState(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (u *funnelUC) Advance(ctx context.Context, sessionID string) (*model.FunnelState, bool, error) {
	defer logging.TraceDuration(u.log, "FunnelUC.Advance")()

	state, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if state.Done() || !state.CanAdvance() {
		return state, false, nil
	}

	state.Step++
	if state.Done() {
		state.Finalize()
		metrics.ObserveFunnelCompletion(string(state.Tier), state.Score)
		u.log.Info().
			Str("session_id", sessionID).
			Int("score", state.Score).
			Str("tier", string(state.Tier)).
			Bool("high_risk", state.HighRisk).
			Str("recommended", state.RecommendedSize).
			Msg("funnel completed")
	}
	if err := u.states.SetState(ctx, sessionID, state); err != nil {
		return nil, false, err
	}
	return state, true, nil
}

func (u *funnelUC) Result(ctx context.Context, sessionID string) (*model.FunnelState, error) {
	state, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !state.Done() {
		return nil, domain.ErrStepNotPassable
	}
	return state, nil
}
