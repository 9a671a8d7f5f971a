package model

import (
	"strings"
	"time"
)

// RiskTier buckets a funnel score; tier A is the most conservative profile.
type RiskTier string

const (
	TierA RiskTier = "A"
	TierB RiskTier = "B"
	TierC RiskTier = "C"
)

// StepKind distinguishes how a funnel step is answered and gated.
type StepKind string

const (
	StepWelcome StepKind = "welcome" // always passable
	StepSingle  StepKind = "single"  // one option, auto-advances
	StepMulti   StepKind = "multi"   // several options, explicit continue
	StepText    StepKind = "text"    // free text with a length floor
	StepInfo    StepKind = "info"    // informational, always passable
	StepContact StepKind = "contact" // first/last/email capture
	StepDone    StepKind = "done"    // terminal approval screen
)

// FunnelStep describes one position in the quiz sequence.
type FunnelStep struct {
	Index       int
	QuestionID  string
	Kind        StepKind
	AutoAdvance bool // advance on answer without an explicit continue
	MinTextLen  int  // StepText only
}

// funnelSteps is the fixed forward-only sequence. There is no backward
// transition anywhere; abandonment is handled by state expiry.
var funnelSteps = []FunnelStep{
	{Index: 0, Kind: StepWelcome},
	{Index: 1, QuestionID: "experience", Kind: StepSingle, AutoAdvance: true},
	{Index: 2, QuestionID: "frequency", Kind: StepSingle, AutoAdvance: true},
	{Index: 3, QuestionID: "risk", Kind: StepSingle, AutoAdvance: true},
	{Index: 4, QuestionID: "style", Kind: StepSingle, AutoAdvance: true},
	{Index: 5, QuestionID: "mistakes", Kind: StepMulti},
	{Index: 6, QuestionID: "rules", Kind: StepSingle, AutoAdvance: true},
	{Index: 7, QuestionID: "markets", Kind: StepSingle, AutoAdvance: true},
	{Index: 8, QuestionID: "accountSize", Kind: StepSingle, AutoAdvance: true},
	{Index: 9, Kind: StepInfo},
	{Index: 10, Kind: StepInfo},
	{Index: 11, QuestionID: "priority", Kind: StepText, MinTextLen: 10},
	{Index: 12, QuestionID: "timeline", Kind: StepSingle, AutoAdvance: true},
	{Index: 13, Kind: StepContact},
	{Index: 14, Kind: StepDone},
}

// FunnelSteps returns the step sequence in order.
func FunnelSteps() []FunnelStep { return funnelSteps }

// TerminalStep is the approval screen index.
const TerminalStep = 14

// FunnelState is one visitor's pass through the quiz. It lives in the session
// store between requests and is replaced wholesale on every update so the
// predicates stay deterministic.
type FunnelState struct {
	SessionID  string              `json:"session_id"`
	Step       int                 `json:"step"`
	Answers    map[string]string   `json:"answers"`    // single-choice and free-text answers
	Selections map[string][]string `json:"selections"` // multi-select answers

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`

	// Derived at the terminal transition.
	Score           int      `json:"score"`
	Tier            RiskTier `json:"tier"`
	HighRisk        bool     `json:"high_risk"`
	RecommendedSize string   `json:"recommended_size"` // empty blocks checkout

	StartedAt time.Time `json:"started_at"`
}

func NewFunnelState(sessionID string) *FunnelState {
	return &FunnelState{
		SessionID:  sessionID,
		Answers:    make(map[string]string),
		Selections: make(map[string][]string),
		StartedAt:  time.Now(),
	}
}

// CurrentStep returns the descriptor for the state's step index.
func (s *FunnelState) CurrentStep() FunnelStep { return funnelSteps[s.Step] }

// Done reports whether the state reached the approval screen.
func (s *FunnelState) Done() bool { return s.Step >= TerminalStep }

// CanAdvance evaluates the current step's predicate. A false result is a
// no-op for callers: the forward affordance is simply inert.
func (s *FunnelState) CanAdvance() bool {
	step := s.CurrentStep()
	switch step.Kind {
	case StepWelcome, StepInfo:
		return true
	case StepSingle:
		return s.Answers[step.QuestionID] != ""
	case StepMulti:
		return len(s.Selections[step.QuestionID]) > 0
	case StepText:
		return len(strings.TrimSpace(s.Answers[step.QuestionID])) > step.MinTextLen
	case StepContact:
		return s.FirstName != "" && s.LastName != "" && s.Email != ""
	default:
		return false
	}
}

// Per-question point tables. The risk scale is inverted on purpose: stating a
// lower risk-per-trade scores higher.
var (
	experiencePoints = map[string]int{"beginner": 1, "intermediate": 2, "experienced": 3}
	frequencyPoints  = map[string]int{"every-setup": 1, "selective": 2, "high-probability": 3}
	riskPoints       = map[string]int{"under-0.5": 4, "0.5-to-2": 3, "over-2": 1}
	stylePoints      = map[string]int{"conservative": 3, "balanced": 2, "aggressive": 1}
	mistakesPoints   = map[string]int{"rarely-blow": 3, "overtrading": 2, "revenge-trading": 1, "oversized-positions": 1}
	rulesPoints      = map[string]int{"yes-always": 4, "mostly": 2, "trade-freely": 1}
	sizePoints       = map[string]int{"25k": 1, "50k": 2, "100k": 3}
)

const (
	riskHighestOrdinal = "over-2"
	rulesTradeFreely   = "trade-freely"
)

// allocationOffers are the three fixed account offers the size answer maps to
// by exact match. An unrecognized answer leaves the recommendation unset.
var allocationOffers = []string{"25k", "50k", "100k"}

// ComputeScore sums the point tables over the recorded answers. Multi-select
// questions contribute the lowest-valued selected option; the free-text
// priority answer contributes a flat point when non-empty.
func (s *FunnelState) ComputeScore() int {
	score := 0
	score += experiencePoints[s.Answers["experience"]]
	score += frequencyPoints[s.Answers["frequency"]]
	score += riskPoints[s.Answers["risk"]]
	score += stylePoints[s.Answers["style"]]
	score += rulesPoints[s.Answers["rules"]]
	score += sizePoints[s.Answers["accountSize"]]
	if sel := s.Selections["mistakes"]; len(sel) > 0 {
		low := 0
		for _, opt := range sel {
			pts, ok := mistakesPoints[opt]
			if !ok {
				continue
			}
			if low == 0 || pts < low {
				low = pts
			}
		}
		score += low
	}
	if strings.TrimSpace(s.Answers["priority"]) != "" {
		score++
	}
	return score
}

// Classify buckets a score into a tier via the fixed thresholds.
func Classify(score int) RiskTier {
	switch {
	case score >= 16:
		return TierA
	case score >= 12:
		return TierB
	default:
		return TierC
	}
}

// HighRiskBehavior is orthogonal to the tier: it flags the highest stated
// risk-per-trade or the "trade freely" rules answer, regardless of score.
func (s *FunnelState) HighRiskBehavior() bool {
	return s.Answers["risk"] == riskHighestOrdinal || s.Answers["rules"] == rulesTradeFreely
}

// RecommendOffer maps the hypothetical size answer to one of the fixed
// allocation offers by exact match; empty when absent or unrecognized.
func (s *FunnelState) RecommendOffer() string {
	answer := s.Answers["accountSize"]
	for _, offer := range allocationOffers {
		if answer == offer {
			return offer
		}
	}
	return ""
}

// Finalize computes the derived fields on entry to the terminal step.
func (s *FunnelState) Finalize() {
	s.Score = s.ComputeScore()
	s.Tier = Classify(s.Score)
	s.HighRisk = s.HighRiskBehavior()
	s.RecommendedSize = s.RecommendOffer()
}
