// Package parsing provides skill token normalization shared by every ranking stage.
package parsing

import "strings"

// skillAliases maps common skill name variants to canonical lowercase tokens
var skillAliases = map[string]string{
	"golang":              "go",
	"go lang":             "go",
	"javascript":          "javascript",
	"js":                  "javascript",
	"ts":                  "typescript",
	"k8s":                 "kubernetes",
	"react.js":            "react",
	"reactjs":             "react",
	"vue.js":              "vue",
	"vuejs":               "vue",
	"nodejs":              "node.js",
	"node":                "node.js",
	"postgresql":          "postgres",
	"amazon web services": "aws",
	"gcp":                 "google cloud",
	"ml":                  "machine learning",
	"sklearn":             "scikit-learn",
}

// NormalizeToken lowercases a token and collapses internal whitespace.
// It performs no alias resolution.
func NormalizeToken(token string) string {
	return strings.Join(strings.Fields(strings.ToLower(token)), " ")
}

// CanonicalSkill normalizes a skill token and resolves known aliases
func CanonicalSkill(skill string) string {
	normalized := NormalizeToken(skill)
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSkills canonicalizes a list of skills, dropping empties and duplicates.
// The first occurrence of each skill keeps its position.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		c := CanonicalSkill(s)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// NormalizeYears canonicalizes the keys of a skill->years map. When two keys collapse
// onto the same skill the larger value wins.
func NormalizeYears(years map[string]float64) map[string]float64 {
	if len(years) == 0 {
		return nil
	}
	out := make(map[string]float64, len(years))
	for skill, y := range years {
		c := CanonicalSkill(skill)
		if c == "" {
			continue
		}
		if existing, ok := out[c]; !ok || y > existing {
			out[c] = y
		}
	}
	return out
}
