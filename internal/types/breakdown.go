package types

// HeatmapTier classifies how a required skill matches a candidate skill
type HeatmapTier string

// Heatmap tiers
const (
	TierExact   HeatmapTier = "exact"
	TierPartial HeatmapTier = "partial"
	TierNone    HeatmapTier = "none"
)

// Value returns the numeric cell value of the tier
func (t HeatmapTier) Value() float64 {
	switch t {
	case TierExact:
		return 1.0
	case TierPartial:
		return 0.5
	default:
		return 0.0
	}
}

// RetrievalMethod tags which retrieval stages produced a candidate's scores
type RetrievalMethod string

// Retrieval methods
const (
	MethodLexical  RetrievalMethod = "lexical"
	MethodSemantic RetrievalMethod = "semantic"
	MethodHybrid   RetrievalMethod = "hybrid"
)

// Retrieval carries the raw scores of the retrieval stages for one candidate
type Retrieval struct {
	Method            RetrievalMethod `json:"method"`
	Lexical           float64         `json:"lexical"`
	LexicalNormalized float64         `json:"lexical_normalized"`
	LexicalRank       int             `json:"lexical_rank"`
	Semantic          float64         `json:"semantic"`
	Hybrid            float64         `json:"hybrid"`
}

// SkillContribution is the signed share of the final score attributed to one skill
type SkillContribution struct {
	Skill        string  `json:"skill"`
	Contribution float64 `json:"contribution"`
}

// MissingSkill is a required skill absent from the candidate
type MissingSkill struct {
	Skill  string  `json:"skill"`
	Class  string  `json:"class"` // hard or soft
	Weight float64 `json:"weight"`
}

// Heatmap is the required-skill by candidate-skill match matrix
type Heatmap struct {
	RequiredSkills  []string        `json:"required_skills"`
	CandidateSkills []string        `json:"candidate_skills"`
	Tiers           [][]HeatmapTier `json:"tiers"`
	Values          [][]float64     `json:"values"`
}

// Seniority is the experience band classification with the signals behind it
type Seniority struct {
	Level     string  `json:"level"`
	MaxYears  float64 `json:"max_years"`
	MeanYears float64 `json:"mean_years"`
	TopSkill  string  `json:"top_skill,omitempty"`
}

// DataGap records a degraded input for a candidate
type DataGap struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Err returns the gap as a DataGapError for the given candidate
func (g DataGap) Err(candidateID string) error {
	return &DataGapError{CandidateID: candidateID, Field: g.Field, Message: g.Reason}
}

// ScoreBreakdown explains how a candidate's final score was composed
type ScoreBreakdown struct {
	Semantic         float64             `json:"semantic"`
	SkillOverlap     float64             `json:"skill_overlap"`
	ExperienceMatch  float64             `json:"experience_match"`
	Final            float64             `json:"final"`
	Contributions    []SkillContribution `json:"contributions"`
	TopContributions []SkillContribution `json:"top_contributions"`
	MatchedSkills    []string            `json:"matched_skills"`
	MissingSkills    []MissingSkill      `json:"missing_skills"`
	Heatmap          Heatmap             `json:"heatmap"`
	Seniority        Seniority           `json:"seniority"`
	Retrieval        Retrieval           `json:"retrieval"`
	DataQuality      []DataGap           `json:"data_quality,omitempty"`
	LowConfidence    bool                `json:"low_confidence"`
}

// AddGap records a data gap and lowers the confidence flag
func (b *ScoreBreakdown) AddGap(field, reason string) {
	b.DataQuality = append(b.DataQuality, DataGap{Field: field, Reason: reason})
	b.LowConfidence = true
}
