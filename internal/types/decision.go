package types

import "time"

// RampTime is an estimated ramp-up window in weeks
type RampTime struct {
	MinWeeks int `json:"min_weeks"`
	MaxWeeks int `json:"max_weeks"`
}

// LearnableSkill is a missing required skill the candidate could plausibly acquire
type LearnableSkill struct {
	Skill         string   `json:"skill"`
	Learnability  float64  `json:"learnability"`
	RelatedSkills []string `json:"related_skills"`
	RampWeeks     RampTime `json:"ramp_weeks"`
	Confidence    float64  `json:"confidence"`
	Reason        string   `json:"reason"`
}

// Risk dimensions
const (
	DimensionConcentration = "concentration"
	DimensionVolatility    = "volatility"
	DimensionFreshness     = "freshness"
	DimensionOverfitting   = "overfitting"
)

// RiskLevel is the banded severity of a risk score
type RiskLevel string

// Risk levels
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskFactor is one dimension of a risk profile
type RiskFactor struct {
	Dimension        string    `json:"dimension"`
	Score            float64   `json:"score"`
	Level            RiskLevel `json:"level"`
	Reason           string    `json:"reason"`
	InsufficientData bool      `json:"insufficient_data,omitempty"`
}

// RiskProfile is the four-factor hiring risk assessment of a candidate
type RiskProfile struct {
	Overall        float64      `json:"overall"`
	Level          RiskLevel    `json:"level"`
	Factors        []RiskFactor `json:"factors"`
	Recommendation string       `json:"recommendation"`
	Confidence     float64      `json:"confidence"`
}

// Factor returns the factor for a dimension, or false if absent
func (p *RiskProfile) Factor(dimension string) (RiskFactor, bool) {
	for _, f := range p.Factors {
		if f.Dimension == dimension {
			return f, true
		}
	}
	return RiskFactor{}, false
}

// RankedCandidate is one entry of a ranking result
type RankedCandidate struct {
	Rank         int              `json:"rank"`
	Candidate    Candidate        `json:"candidate"`
	Breakdown    ScoreBreakdown   `json:"breakdown"`
	Learnability []LearnableSkill `json:"learnability,omitempty"`
	Risk         *RiskProfile     `json:"risk,omitempty"`
}

// RankResult is the output of a ranking query
type RankResult struct {
	RequestID       string            `json:"request_id"`
	SnapshotVersion string            `json:"snapshot_version"`
	Candidates      []RankedCandidate `json:"candidates"`
	// Rejections explains the scored candidates that fell below the minimum final score
	Rejections []Rejection `json:"rejections,omitempty"`
	// Considered is the number of candidates that reached score composition
	Considered int           `json:"considered"`
	Duration   time.Duration `json:"duration_ns"`
}

// Rejection severities
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
)

// RejectionReason is one cause of a candidate scoring below the minimum final score
type RejectionReason struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Reconsideration estimates whether a rejected candidate is worth revisiting
type Reconsideration struct {
	Score            float64 `json:"score"`
	ReadyInWeeks     int     `json:"ready_in_weeks"`
	ProbabilityOfFit float64 `json:"probability_of_fit"`
	Recommendation   string  `json:"recommendation"`
}

// Rejection explains why a scored candidate fell below the minimum final score
type Rejection struct {
	CandidateID     string            `json:"candidate_id"`
	Final           float64           `json:"final"`
	Threshold       float64           `json:"threshold"`
	Reasons         []RejectionReason `json:"reasons"`
	LearningPaths   []LearnableSkill  `json:"learning_paths"`
	Reconsideration Reconsideration   `json:"reconsideration"`
}

// GraphStats summarizes a built skill graph
type GraphStats struct {
	SkillCount  int       `json:"skill_count"`
	EdgeCount   int       `json:"edge_count"`
	ResumeCount int       `json:"resume_count"`
	Version     string    `json:"version,omitempty"`
	BuiltAt     time.Time `json:"built_at,omitempty"`
}
