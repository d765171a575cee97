// Package graph builds and serves the skill co-occurrence graph of a corpus snapshot.
// A Graph is immutable once built and safe for concurrent reads.
package graph

import (
	"fmt"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// DefaultRelatedK is the default number of neighbours returned by RelatedSkills
const DefaultRelatedK = 10

// Graph is a skill co-occurrence graph
type Graph struct {
	co          map[string]map[string]int
	freq        map[string]int
	resumeCount int
}

// Data is the serialized form of a Graph
type Data struct {
	CoOccurrence map[string]map[string]int `json:"adjacency"`
	Frequencies  map[string]int            `json:"skill_frequencies"`
	ResumeCount  int                       `json:"total_resumes"`
}

// Related is a neighbouring skill with its adjacency score
type Related struct {
	Skill     string  `json:"skill"`
	Adjacency float64 `json:"adjacency"`
}

// Build constructs a graph from a corpus snapshot. Each unordered pair of distinct skills
// held by a candidate adds one co-occurrence in both directions, and each skill's frequency
// counts the candidates holding it.
func Build(candidates []types.Candidate) *Graph {
	g := &Graph{
		co:          make(map[string]map[string]int),
		freq:        make(map[string]int),
		resumeCount: len(candidates),
	}

	for _, c := range candidates {
		skills := parsing.NormalizeSkills(c.Skills)
		for _, s := range skills {
			g.freq[s]++
		}
		for i := 0; i < len(skills); i++ {
			for j := i + 1; j < len(skills); j++ {
				g.increment(skills[i], skills[j])
				g.increment(skills[j], skills[i])
			}
		}
	}

	return g
}

func (g *Graph) increment(a, b string) {
	neighbors, ok := g.co[a]
	if !ok {
		neighbors = make(map[string]int)
		g.co[a] = neighbors
	}
	neighbors[b]++
}

// FromData restores a graph from its serialized form and validates it
func FromData(d Data) (*Graph, error) {
	g := &Graph{
		co:          make(map[string]map[string]int, len(d.CoOccurrence)),
		freq:        make(map[string]int, len(d.Frequencies)),
		resumeCount: d.ResumeCount,
	}
	for a, neighbors := range d.CoOccurrence {
		m := make(map[string]int, len(neighbors))
		for b, n := range neighbors {
			m[b] = n
		}
		g.co[a] = m
	}
	for s, n := range d.Frequencies {
		g.freq[s] = n
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Data returns a deep copy of the graph in serialized form
func (g *Graph) Data() Data {
	d := Data{
		CoOccurrence: make(map[string]map[string]int, len(g.co)),
		Frequencies:  make(map[string]int, len(g.freq)),
		ResumeCount:  g.resumeCount,
	}
	for a, neighbors := range g.co {
		m := make(map[string]int, len(neighbors))
		for b, n := range neighbors {
			m[b] = n
		}
		d.CoOccurrence[a] = m
	}
	for s, n := range g.freq {
		d.Frequencies[s] = n
	}
	return d
}

// Validate checks co-occurrence symmetry and that no co-occurrence exceeds the
// frequency of either skill.
func (g *Graph) Validate() error {
	for a, neighbors := range g.co {
		for b, n := range neighbors {
			if a == b {
				return &types.ConsistencyError{Message: fmt.Sprintf("self co-occurrence for %q", a)}
			}
			if n < 0 {
				return &types.ConsistencyError{Message: fmt.Sprintf("negative co-occurrence %s/%s", a, b)}
			}
			if back := g.co[b][a]; back != n {
				return &types.ConsistencyError{
					Message: fmt.Sprintf("asymmetric co-occurrence %s->%s=%d, %s->%s=%d", a, b, n, b, a, back),
				}
			}
			if n > g.freq[a] || n > g.freq[b] {
				return &types.ConsistencyError{
					Message: fmt.Sprintf("co-occurrence %s/%s=%d exceeds skill frequency", a, b, n),
				}
			}
		}
	}
	for s, n := range g.freq {
		if n > g.resumeCount {
			return &types.ConsistencyError{
				Message: fmt.Sprintf("frequency of %q (%d) exceeds resume count %d", s, n, g.resumeCount),
			}
		}
	}
	return nil
}

// CoOccurrence returns how many candidates hold both skills
func (g *Graph) CoOccurrence(a, b string) int {
	return g.co[a][b]
}

// Frequency returns how many candidates hold the skill
func (g *Graph) Frequency(skill string) int {
	return g.freq[skill]
}

// ResumeCount returns the size of the corpus the graph was built from
func (g *Graph) ResumeCount() int {
	return g.resumeCount
}

// Adjacency returns co_occurrence(a,b) / min(freq(a), freq(b)), or 0 when either
// skill is unknown. Inputs are expected in canonical form.
func (g *Graph) Adjacency(a, b string) float64 {
	fa, fb := g.freq[a], g.freq[b]
	if fa == 0 || fb == 0 {
		return 0
	}
	co := g.co[a][b]
	if co == 0 {
		return 0
	}
	return float64(co) / float64(min(fa, fb))
}

// RelatedSkills returns the neighbours of a skill ordered by descending adjacency,
// ties broken by name. k <= 0 selects DefaultRelatedK.
func (g *Graph) RelatedSkills(skill string, k int) []Related {
	if k <= 0 {
		k = DefaultRelatedK
	}
	skill = parsing.CanonicalSkill(skill)
	neighbors := g.co[skill]
	if len(neighbors) == 0 {
		return nil
	}

	related := make([]Related, 0, len(neighbors))
	for other := range neighbors {
		related = append(related, Related{Skill: other, Adjacency: g.Adjacency(skill, other)})
	}
	sort.Slice(related, func(i, j int) bool {
		if related[i].Adjacency != related[j].Adjacency {
			return related[i].Adjacency > related[j].Adjacency
		}
		return related[i].Skill < related[j].Skill
	})

	if len(related) > k {
		related = related[:k]
	}
	return related
}

// Stats returns skill, edge and resume counts. Edges are unordered skill pairs.
func (g *Graph) Stats() types.GraphStats {
	edges := 0
	for _, neighbors := range g.co {
		edges += len(neighbors)
	}
	return types.GraphStats{
		SkillCount:  len(g.freq),
		EdgeCount:   edges / 2,
		ResumeCount: g.resumeCount,
	}
}
