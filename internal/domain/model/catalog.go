package model

// The pricing catalog. Fixed at build time; the seven-size plans carry the
// "best value" badge on the third size, the five-size Gauntlet on the second.
// Promo prices are authored per campaign and are not the computed half-off.

var standardSizes = []string{"5k", "10k", "25k", "50k", "100k", "200k", "300k"}
var gauntletSizes = []string{"10k", "25k", "50k", "100k", "200k"}

var catalog = []*ChallengePlan{
	{
		Kind:  ChallengeStandard,
		Name:  "Standard Challenge",
		Sizes: standardSizes,
		PriceCents: map[string]int64{
			"5k": 4900, "10k": 9900, "25k": 19900, "50k": 29900,
			"100k": 49900, "200k": 94900, "300k": 139900,
		},
		PromoCents: map[string]int64{
			"5k": 2900, "10k": 5900, "25k": 11900, "50k": 17900,
			"100k": 29900, "200k": 56900, "300k": 83900,
		},
		Features: []PlanFeature{
			{Name: "Profit Target", Values: sameForAll(standardSizes, "8% / 5%")},
			{Name: "Max Daily Drawdown", Values: sameForAll(standardSizes, "5%")},
			{Name: "Max Total Drawdown", Values: sameForAll(standardSizes, "10%")},
			{Name: "Profit Split", Values: sameForAll(standardSizes, "80%")},
			{Name: "Minimum Trading Days", Values: sameForAll(standardSizes, "5")},
			{Name: "Refundable Fee", Values: sameForAll(standardSizes, "Yes")},
		},
		BestValueIndex: 2,
	},
	{
		Kind:  ChallengeOneStep,
		Name:  "One-Step Challenge",
		Sizes: standardSizes,
		PriceCents: map[string]int64{
			"5k": 5900, "10k": 11900, "25k": 23900, "50k": 35900,
			"100k": 59900, "200k": 113900, "300k": 167900,
		},
		PromoCents: map[string]int64{
			"5k": 3500, "10k": 6900, "25k": 13900, "50k": 20900,
			"100k": 34900, "200k": 66900, "300k": 98900,
		},
		Features: []PlanFeature{
			{Name: "Profit Target", Values: sameForAll(standardSizes, "10%")},
			{Name: "Max Daily Drawdown", Values: sameForAll(standardSizes, "4%")},
			{Name: "Max Total Drawdown", Values: sameForAll(standardSizes, "8%")},
			{Name: "Profit Split", Values: sameForAll(standardSizes, "85%")},
			{Name: "Minimum Trading Days", Values: sameForAll(standardSizes, "3")},
			{Name: "Refundable Fee", Values: sameForAll(standardSizes, "Yes")},
		},
		BestValueIndex: 2,
	},
	{
		Kind:  ChallengeInstant,
		Name:  "Instant Funding",
		Sizes: standardSizes,
		PriceCents: map[string]int64{
			"5k": 9900, "10k": 18900, "25k": 37900, "50k": 56900,
			"100k": 94900, "200k": 179900, "300k": 264900,
		},
		PromoCents: map[string]int64{
			"5k": 5900, "10k": 10900, "25k": 21900, "50k": 32900,
			"100k": 54900, "200k": 104900, "300k": 154900,
		},
		Features: []PlanFeature{
			{Name: "Profit Target", Values: sameForAll(standardSizes, "None")},
			{Name: "Max Daily Drawdown", Values: sameForAll(standardSizes, "3%")},
			{Name: "Max Total Drawdown", Values: sameForAll(standardSizes, "6%")},
			{Name: "Profit Split", Values: sameForAll(standardSizes, "50% to 80%")},
			{Name: "Minimum Trading Days", Values: sameForAll(standardSizes, "None")},
			{Name: "Refundable Fee", Values: sameForAll(standardSizes, "No")},
		},
		BestValueIndex: 2,
	},
	{
		Kind:  ChallengeGauntlet,
		Name:  "Gauntlet",
		Sizes: gauntletSizes,
		PriceCents: map[string]int64{
			"10k": 12900, "25k": 24900, "50k": 38900, "100k": 64900, "200k": 124900,
		},
		PromoCents: map[string]int64{
			"10k": 7900, "25k": 14900, "50k": 22900, "100k": 38900, "200k": 74900,
		},
		Features: []PlanFeature{
			{Name: "Profit Target", Values: sameForAll(gauntletSizes, "6% / 6% / 6%")},
			{Name: "Max Daily Drawdown", Values: sameForAll(gauntletSizes, "4%")},
			{Name: "Max Total Drawdown", Values: sameForAll(gauntletSizes, "8%")},
			{Name: "Profit Split", Values: sameForAll(gauntletSizes, "90%")},
			{Name: "Minimum Trading Days", Values: sameForAll(gauntletSizes, "7")},
			{Name: "Refundable Fee", Values: sameForAll(gauntletSizes, "Yes")},
		},
		BestValueIndex: 1,
	},
}

// Catalog returns every challenge plan in display order.
func Catalog() []*ChallengePlan { return catalog }

// PlanByKind looks a plan up by its kind tag; nil if unknown.
func PlanByKind(kind ChallengeKind) *ChallengePlan {
	for _, p := range catalog {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

func sameForAll(sizes []string, value string) map[string]string {
	m := make(map[string]string, len(sizes))
	for _, s := range sizes {
		m[s] = value
	}
	return m
}
