// Package knowledge holds the static portfolio data the assistant answers from.
package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Person is the portfolio owner.
type Person struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Role        string `yaml:"role" json:"role" validate:"required"`
	Description string `yaml:"description" json:"description"`
	Location    string `yaml:"location" json:"location"`
}

type EducationEntry struct {
	Degree      string `yaml:"degree" json:"degree" validate:"required"`
	Institution string `yaml:"institution" json:"institution"`
	Period      string `yaml:"period" json:"period"`
	Location    string `yaml:"location" json:"location"`
}

// SkillSet groups skills into four disjoint lists.
type SkillSet struct {
	Technologies []string `yaml:"technologies" json:"technologies"`
	Databases    []string `yaml:"databases" json:"databases"`
	Tools        []string `yaml:"tools" json:"tools"`
	SoftSkills   []string `yaml:"soft_skills" json:"soft_skills"`
}

type ExperienceEntry struct {
	Role        string `yaml:"role" json:"role" validate:"required"`
	Company     string `yaml:"company" json:"company" validate:"required"`
	Period      string `yaml:"period" json:"period"`
	Location    string `yaml:"location" json:"location"`
	Description string `yaml:"description" json:"description"`
}

type ProjectEntry struct {
	Name         string   `yaml:"name" json:"name" validate:"required"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}

type CertificationEntry struct {
	Name         string `yaml:"name" json:"name" validate:"required"`
	Organization string `yaml:"organization" json:"organization"`
	Description  string `yaml:"description" json:"description"`
}

type AchievementEntry struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description" json:"description"`
	Date        string `yaml:"date" json:"date"`
}

// ContactInfo lists the ways to reach the owner.
type ContactInfo struct {
	Email    string `yaml:"email" json:"email"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	GitHub   string `yaml:"github" json:"github"`
	Location string `yaml:"location" json:"location"`
}

// Base is the whole knowledge base. It is loaded once and never mutated
// afterwards, so a single *Base is shared by every session.
type Base struct {
	Person         Person               `yaml:"person" json:"person"`
	Education      []EducationEntry     `yaml:"education" json:"education" validate:"dive"`
	Skills         SkillSet             `yaml:"skills" json:"skills"`
	Experience     []ExperienceEntry    `yaml:"experience" json:"experience" validate:"dive"`
	Projects       []ProjectEntry       `yaml:"projects" json:"projects" validate:"dive"`
	Certifications []CertificationEntry `yaml:"certifications" json:"certifications" validate:"dive"`
	Achievements   []AchievementEntry   `yaml:"achievements" json:"achievements" validate:"dive"`
	Contact        ContactInfo          `yaml:"contact" json:"contact"`
}

// Default returns the knowledge base shipped with the binary.
func Default() *Base {
	kb, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("knowledge: embedded default is invalid: %v", err))
	}
	return kb
}

// Load reads a knowledge base from a YAML file.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML knowledge base.
func Parse(data []byte) (*Base, error) {
	var kb Base
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

// Validate checks the required fields. Empty lists are allowed.
func (kb *Base) Validate() error {
	if err := validator.New().Struct(kb); err != nil {
		return fmt.Errorf("invalid knowledge base: %w", err)
	}
	return nil
}
