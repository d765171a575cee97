package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// veryShortStintLimit is the number of very short stints that forces high volatility
const veryShortStintLimit = 2

// domainOf returns the configured domain of a skill, falling back to its first word
func (a *Assessor) domainOf(skill string) string {
	if d, ok := a.domains[skill]; ok {
		return d
	}
	if fields := strings.Fields(skill); len(fields) > 0 {
		return fields[0]
	}
	return skill
}

// concentration scores over-reliance on a single skill domain with the Herfindahl index
func (a *Assessor) concentration(skills []string) types.RiskFactor {
	f := types.RiskFactor{Dimension: types.DimensionConcentration}
	if len(skills) == 0 {
		f.Level = types.RiskLow
		f.Reason = "No skills listed"
		f.InsufficientData = true
		return f
	}

	counts := make(map[string]int)
	var order []string
	for _, s := range skills {
		d := a.domainOf(s)
		if counts[d] == 0 {
			order = append(order, d)
		}
		counts[d]++
	}

	total := float64(len(skills))
	top := order[0]
	for _, d := range order {
		share := float64(counts[d]) / total
		f.Score += share * share
		if counts[d] > counts[top] {
			top = d
		}
	}

	f.Level = a.cfg.Concentration.level(f.Score)
	switch f.Level {
	case types.RiskHigh:
		f.Reason = fmt.Sprintf("High concentration in %s (%d/%d skills)", top, counts[top], len(skills))
	case types.RiskMedium:
		f.Reason = fmt.Sprintf("Moderate concentration, top domain: %s", top)
	default:
		f.Reason = fmt.Sprintf("Well-distributed across %d domains", len(order))
	}
	return f
}

// volatility scores job hopping from the tenure of each work interval
func (a *Assessor) volatility(history []types.WorkInterval, now time.Time) types.RiskFactor {
	f := types.RiskFactor{Dimension: types.DimensionVolatility}
	if len(history) < 2 {
		f.Level = types.RiskLow
		f.Reason = "Insufficient work history (fewer than 2 jobs)"
		f.InsufficientData = true
		return f
	}

	sum := 0.0
	short, veryShort := 0, 0
	for _, w := range history {
		months := w.Months(now)
		sum += months
		if months < a.cfg.ShortStintMonths {
			short++
		}
		if months < a.cfg.VeryShortStintMonths {
			veryShort++
		}
	}

	jobs := float64(len(history))
	avg := sum / jobs
	tenureRisk := 1 - math.Min(avg/a.cfg.TenureBaselineMonths, 1)
	shortRisk := float64(short) / jobs
	countRisk := math.Min(jobs/a.cfg.JobCountBaseline, 1)
	f.Score = clamp01(0.5*tenureRisk + 0.3*shortRisk + 0.2*countRisk)

	f.Level = a.cfg.Volatility.level(f.Score)
	if veryShort >= veryShortStintLimit {
		f.Level = types.RiskHigh
	}
	switch f.Level {
	case types.RiskHigh:
		f.Reason = fmt.Sprintf("%d jobs, avg tenure %.1f months, %d short stints", len(history), avg, short)
	case types.RiskMedium:
		f.Reason = fmt.Sprintf("%d jobs, avg tenure %.1f months", len(history), avg)
	default:
		f.Reason = fmt.Sprintf("Stable career: avg tenure %.1f months over %d jobs", avg, len(history))
	}
	return f
}

// freshness scores reliance on deprecated technology, weighting current use more heavily
func (a *Assessor) freshness(skills, recent []string) types.RiskFactor {
	f := types.RiskFactor{Dimension: types.DimensionFreshness}
	if len(skills) == 0 {
		f.Level = types.RiskLow
		f.Reason = "No skills to assess"
		f.InsufficientData = true
		return f
	}

	var deprecated []string
	for _, s := range skills {
		if a.deprecated[s] {
			deprecated = append(deprecated, s)
		}
	}
	recentDeprecated := 0
	for _, s := range recent {
		if a.deprecated[s] {
			recentDeprecated++
		}
	}

	if recentDeprecated > 0 {
		f.Score = math.Min(0.5+0.5*float64(recentDeprecated)/float64(len(recent)), 1)
	} else {
		f.Score = 0.7 * float64(len(deprecated)) / float64(len(skills))
	}

	f.Level = a.cfg.Freshness.level(f.Score)
	switch f.Level {
	case types.RiskHigh:
		f.Reason = fmt.Sprintf("Using %d deprecated technologies: %s", len(deprecated), joinFirst(deprecated, 3))
	case types.RiskMedium:
		listed := "legacy systems"
		if len(deprecated) > 0 {
			listed = joinFirst(deprecated, 2)
		}
		f.Reason = fmt.Sprintf("Some outdated tech in background: %s", listed)
	default:
		f.Reason = "Modern technology stack"
	}
	return f
}

// overfitting scores over-specialization from niche skills and narrow domain coverage
func (a *Assessor) overfitting(skills []string) types.RiskFactor {
	f := types.RiskFactor{Dimension: types.DimensionOverfitting}
	if len(skills) == 0 {
		f.Level = types.RiskLow
		f.Reason = "Cannot assess without skills"
		f.InsufficientData = true
		return f
	}

	var niche []string
	domains := make(map[string]bool)
	for _, s := range skills {
		if a.niche[s] {
			niche = append(niche, s)
		}
		domains[a.domainOf(s)] = true
	}

	total := float64(len(skills))
	nicheRatio := float64(len(niche)) / total
	diversity := math.Min(float64(len(domains))/total, 1)
	f.Score = clamp01(0.6*nicheRatio + 0.4*(1-diversity))

	f.Level = a.cfg.Overfitting.level(f.Score)
	if nicheRatio >= a.cfg.NicheRatioHigh && len(niche) > 0 {
		f.Level = types.RiskHigh
	}
	switch f.Level {
	case types.RiskHigh:
		listed := "narrow domain"
		if len(niche) > 0 {
			listed = joinFirst(niche, 3)
		}
		f.Reason = fmt.Sprintf("Highly specialized in niche tech: %s", listed)
	case types.RiskMedium:
		f.Reason = fmt.Sprintf("Some specialization, %d skill domains", len(domains))
	default:
		f.Reason = fmt.Sprintf("Well-rounded: %d domains, good skill diversity", len(domains))
	}
	return f
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
