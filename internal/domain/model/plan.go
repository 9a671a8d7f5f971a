package model

import (
	"fmt"

	"propfirm-web/internal/domain"
)

// ChallengeKind enumerates the purchasable challenge programs.
type ChallengeKind string

const (
	ChallengeStandard ChallengeKind = "standard"
	ChallengeOneStep  ChallengeKind = "one-step"
	ChallengeInstant  ChallengeKind = "instant"
	ChallengeGauntlet ChallengeKind = "gauntlet"
)

// PlanFeature is a named row of the pricing table with a display value per
// account size.
type PlanFeature struct {
	Name   string
	Values map[string]string // account size -> display value
}

// ChallengePlan is one column group of the pricing table: an ordered list of
// account sizes with an original and an authored campaign price per size.
// Plans are defined at build time and never mutated.
type ChallengePlan struct {
	Kind           ChallengeKind
	Name           string
	Sizes          []string         // ordered
	PriceCents     map[string]int64 // original price per size, USD cents
	PromoCents     map[string]int64 // authored campaign price per size, USD cents
	Features       []PlanFeature
	BestValueIndex int // editorial badge position, not derived from price
}

// Supports reports whether size is in the plan's declared size list.
func (p *ChallengePlan) Supports(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Validate checks the catalog invariant: every declared size has an entry in
// both price maps and in every feature's value map.
func (p *ChallengePlan) Validate() error {
	if p.Kind == "" || p.Name == "" || len(p.Sizes) == 0 {
		return domain.ErrInvalidArgument
	}
	if p.BestValueIndex < 0 || p.BestValueIndex >= len(p.Sizes) {
		return fmt.Errorf("plan %s: best value index %d out of range", p.Kind, p.BestValueIndex)
	}
	for _, size := range p.Sizes {
		if _, ok := p.PriceCents[size]; !ok {
			return fmt.Errorf("plan %s: size %s missing original price", p.Kind, size)
		}
		if _, ok := p.PromoCents[size]; !ok {
			return fmt.Errorf("plan %s: size %s missing promo price", p.Kind, size)
		}
		for _, f := range p.Features {
			if _, ok := f.Values[size]; !ok {
				return fmt.Errorf("plan %s: size %s missing feature %q", p.Kind, size, f.Name)
			}
		}
	}
	return nil
}

// HalfOffCents is the computed flat 50%-off price used by the non-campaign
// pricing table, rounded half up to the cent. The authored campaign price in
// PromoCents is an independent number; the two are deliberately not unified.
func HalfOffCents(originalCents int64) int64 {
	return (originalCents + 1) / 2
}
