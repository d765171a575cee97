// Package skills classifies skill tokens as hard or soft and groups them into coarse domains.
package skills

import (
	"sort"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/parsing"
)

// Class is the hard/soft classification of a skill
type Class string

// Skill classes
const (
	ClassHard Class = "hard"
	ClassSoft Class = "soft"
)

const (
	// DefaultHardWeight is the overlap weight of a technical skill
	DefaultHardWeight = 1.0
	// DefaultSoftWeight is the overlap weight of an interpersonal skill
	DefaultSoftWeight = 0.3
)

// hardSkillDomains groups known technical skills by domain
var hardSkillDomains = map[string][]string{
	"languages": {
		"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "ruby",
		"php", "swift", "kotlin", "scala", "r", "matlab",
	},
	"web": {
		"react", "angular", "vue", "node.js", "express", "django", "flask", "spring",
		"spring boot", "fastapi", "asp.net", "html", "css", "sass", "webpack", "next.js",
		"nuxt.js", "graphql", "rest", "api",
	},
	"cloud": {
		"aws", "azure", "google cloud", "docker", "kubernetes", "jenkins", "gitlab",
		"github actions", "terraform", "ansible", "chef", "puppet", "ci/cd", "devops",
		"linux", "unix", "bash", "shell scripting",
	},
	"databases": {
		"sql", "mysql", "postgres", "mongodb", "redis", "elasticsearch", "dynamodb",
		"cassandra", "oracle", "sql server", "sqlite", "neo4j",
	},
	"data": {
		"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
		"scikit-learn", "pandas", "numpy", "scipy", "matplotlib", "seaborn", "nlp",
		"natural language processing", "computer vision", "opencv", "spark", "hadoop",
		"airflow", "mlflow", "data science", "statistics",
	},
	"tools": {
		"git", "jira", "confluence", "slack", "vs code", "jupyter", "postman", "tableau",
		"power bi", "excel", "kafka", "rabbitmq", "nginx", "apache",
	},
	"testing": {
		"junit", "pytest", "selenium", "cypress", "jest", "mocha", "testing", "unit testing",
		"integration testing", "tdd", "test automation",
	},
	"mobile": {
		"ios", "android", "react native", "flutter", "xamarin",
	},
	"security": {
		"cybersecurity", "encryption", "oauth", "jwt", "ssl", "tls",
	},
	"methodology": {
		"agile", "scrum", "kanban", "microservices", "rest api", "soap", "design patterns",
		"solid", "oop", "functional programming",
	},
}

var softSkillList = []string{
	"leadership", "team leadership", "mentoring", "coaching", "delegation",
	"strategic thinking", "decision making", "vision", "influence",
	"communication", "verbal communication", "written communication", "presentation",
	"public speaking", "active listening", "negotiation", "persuasion", "storytelling",
	"teamwork", "collaboration", "cross-functional", "interpersonal", "relationship building",
	"networking", "empathy", "emotional intelligence", "problem solving", "critical thinking",
	"analytical thinking", "creativity", "innovation", "adaptability", "flexibility",
	"time management", "organization", "attention to detail", "multitasking", "prioritization",
	"self-motivation", "initiative", "work ethic", "reliability", "accountability",
	"project management", "stakeholder management", "planning", "coordination",
	"resource management", "risk management", "curiosity", "learning agility",
	"growth mindset", "resilience", "conflict resolution", "customer service",
	"professionalism",
}

// Keywords that hint at a class when a skill is not in either dictionary.
// Hard keywords are checked first.
var (
	hardKeywords = []string{
		"programming", "development", "framework", "library", "database", "cloud",
		"platform", "tool", "language", "software", "technology", "system",
		"architecture", "infrastructure", "deployment", "api",
	}
	softKeywords = []string{
		"skills", "ability", "management", "building", "working", "thinking", "solving",
		"resolution", "service", "oriented",
	}
)

// Classifier assigns a hard/soft class to skill tokens
type Classifier struct {
	hard map[string]bool
	soft map[string]bool
}

// NewClassifier creates a Classifier seeded with the built-in dictionaries
func NewClassifier() *Classifier {
	c := &Classifier{
		hard: make(map[string]bool),
		soft: make(map[string]bool),
	}
	for _, list := range hardSkillDomains {
		for _, s := range list {
			c.hard[s] = true
		}
	}
	for _, s := range softSkillList {
		c.soft[s] = true
	}
	return c
}

// Classify returns the class of a skill. Unknown skills default to hard since most
// extracted skills are technical.
func (c *Classifier) Classify(skill string) Class {
	s := parsing.CanonicalSkill(skill)
	if c.hard[s] {
		return ClassHard
	}
	if c.soft[s] {
		return ClassSoft
	}
	for _, kw := range hardKeywords {
		if strings.Contains(s, kw) {
			return ClassHard
		}
	}
	for _, kw := range softKeywords {
		if strings.Contains(s, kw) {
			return ClassSoft
		}
	}
	return ClassHard
}

// Weights holds the overlap weight applied per class
type Weights struct {
	Hard float64 `json:"hard" koanf:"hard" validate:"gte=0,lte=1"`
	Soft float64 `json:"soft" koanf:"soft" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the standard hard/soft weighting
func DefaultWeights() Weights {
	return Weights{Hard: DefaultHardWeight, Soft: DefaultSoftWeight}
}

// Weight returns the weight of a skill under the given class weights
func (c *Classifier) Weight(skill string, w Weights) float64 {
	if c.Classify(skill) == ClassSoft {
		return w.Soft
	}
	return w.Hard
}

// DefaultDomains returns a skill->domain map built from the technical dictionaries.
// Soft skills map to the "interpersonal" domain.
func DefaultDomains() map[string]string {
	domains := make(map[string]string)
	names := make([]string, 0, len(hardSkillDomains))
	for name := range hardSkillDomains {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, s := range hardSkillDomains[name] {
			if _, ok := domains[s]; !ok {
				domains[s] = name
			}
		}
	}
	for _, s := range softSkillList {
		domains[s] = "interpersonal"
	}
	return domains
}
