package icp

import (
	"sort"
	"strings"

	"github.com/SangeethaSan21/Enterprise-Sales-Agent/internal/score"
)

// Tier labels for display. The tier is derived from the total score and
// never stored.
const (
	TierHot  = "Hot"
	TierWarm = "Warm"
	TierCold = "Cold"
)

// Breakdown holds the four sub-scores behind a candidate's total.
type Breakdown struct {
	CompanyFit  float64 `json:"company_fit"`
	PersonaFit  float64 `json:"persona_fit"`
	IntentFit   float64 `json:"intent_fit"`
	DataQuality float64 `json:"data_quality"`
}

// Candidate is a scored lead. TotalScore is the weighted combination of
// the breakdown, rounded to one decimal.
type Candidate struct {
	Lead
	Breakdown  Breakdown `json:"score_breakdown"`
	TotalScore float64   `json:"icp_score"`
}

// Tier labels the candidate by total score: 75 and above is Hot, 50 to
// just under 75 is Warm, everything below is Cold.
func (c Candidate) Tier() string {
	switch {
	case c.TotalScore >= 75:
		return TierHot
	case c.TotalScore >= 50:
		return TierWarm
	default:
		return TierCold
	}
}

// Rank deduplicates, scores, and ranks leads against the profile,
// returning at most max candidates in descending score order. Max <= 0
// means no truncation.
func Rank(profile Profile, leads []Lead, max int) []Candidate {
	out := make([]Candidate, 0, len(leads))
	seen := make(map[string]bool, len(leads))

	for _, lead := range leads {
		key := strings.ToLower(lead.CompanyName)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, scoreLead(profile, lead))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func scoreLead(p Profile, lead Lead) Candidate {
	b := Breakdown{
		CompanyFit:  companyFit(p, lead),
		PersonaFit:  personaFit(p, lead),
		IntentFit:   intentFit(p, lead),
		DataQuality: dataQuality(lead),
	}
	return Candidate{
		Lead:      lead,
		Breakdown: b,
		TotalScore: score.Total(
			score.Weighted{Value: b.CompanyFit, Weight: 0.4},
			score.Weighted{Value: b.PersonaFit, Weight: 0.3},
			score.Weighted{Value: b.IntentFit, Weight: 0.2},
			score.Weighted{Value: b.DataQuality, Weight: 0.1},
		),
	}
}

// companyFit awards up to 100 points across industry (25), employee
// count within half to one-and-a-half times the target midpoint (20),
// geography substring (15), tech stack overlap ratio (20), and exact
// revenue range match (20).
func companyFit(p Profile, lead Lead) float64 {
	var s float64

	if lead.Industry != "" && lead.Industry == p.Industry {
		s += 25
	}

	mid := midpointSize(p.CompanySize)
	if size := float64(lead.EmployeeCount); size >= float64(mid)*0.5 && size <= float64(mid)*1.5 {
		s += 20
	}

	if p.Geography != "" && strings.Contains(strings.ToLower(lead.Location), strings.ToLower(p.Geography)) {
		s += 15
	}

	if len(p.TechStack) > 0 && len(lead.TechStack) > 0 {
		overlap := 0
		have := make(map[string]bool, len(lead.TechStack))
		for _, t := range lead.TechStack {
			have[strings.ToLower(t)] = true
		}
		for _, t := range p.TechStack {
			if have[strings.ToLower(t)] {
				overlap++
			}
		}
		s += 20 * float64(overlap) / float64(len(p.TechStack))
	}

	if lead.RevenueEstimate != "" && lead.RevenueEstimate == p.RevenueRange {
		s += 20
	}

	return score.Clamp(s)
}

// personaFit awards 50 points when any decision-maker title
// substring-matches a target title in either direction, and 50 when any
// decision-maker has an email. No decision-makers means zero.
func personaFit(p Profile, lead Lead) float64 {
	if len(lead.DecisionMakers) == 0 {
		return 0
	}

	var s float64
	if titleMatch(p.JobTitles, lead.DecisionMakers) {
		s += 50
	}
	if anyEmail(lead.DecisionMakers) {
		s += 50
	}
	return score.Clamp(s)
}

func titleMatch(targets []string, dms []DecisionMaker) bool {
	for _, dm := range dms {
		got := strings.ToLower(dm.Title)
		if got == "" {
			continue
		}
		for _, want := range targets {
			want = strings.ToLower(want)
			if want == "" {
				continue
			}
			if strings.Contains(got, want) || strings.Contains(want, got) {
				return true
			}
		}
	}
	return false
}

func anyEmail(dms []DecisionMaker) bool {
	for _, dm := range dms {
		if dm.Email != "" {
			return true
		}
	}
	return false
}

// intentFit awards 50 points per target signal that substring-matches a
// recent-activity phrase in either direction, capped at 100.
func intentFit(p Profile, lead Lead) float64 {
	var s float64
	for _, signal := range p.IntentSignals {
		signal = strings.ToLower(signal)
		if signal == "" {
			continue
		}
		for _, activity := range lead.RecentActivity {
			activity = strings.ToLower(activity)
			if strings.Contains(activity, signal) || strings.Contains(signal, activity) {
				s += 50
				break
			}
		}
	}
	return score.Clamp(s)
}

// dataQuality rewards completeness: website 20, employee count 20, at
// least one decision-maker 30, at least one contact email 30.
func dataQuality(lead Lead) float64 {
	var s float64
	if lead.Website != "" {
		s += 20
	}
	if lead.EmployeeCount > 0 {
		s += 20
	}
	if len(lead.DecisionMakers) > 0 {
		s += 30
	}
	if anyEmail(lead.DecisionMakers) {
		s += 30
	}
	return score.Clamp(s)
}
