// Package types provides type definitions for structured data used throughout the job parser.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults substituted when the company or position cannot be resolved.
const (
	DefaultCompany  = "Unknown Company"
	DefaultPosition = "Unknown Position"
)

// MaxSectionItems caps requirements and responsibilities.
const MaxSectionItems = 15

// MinItemLength is the exclusive lower bound on list item length after trimming.
const MinItemLength = 5

// JobTypes is the closed vocabulary for JobPosting.JobType.
var JobTypes = []string{
	"full-time", "part-time", "contract", "freelance",
	"intern", "temporary", "permanent", "fixed-term",
}

// ExperienceLevels is the closed vocabulary for JobPosting.ExperienceLevel.
var ExperienceLevels = []string{
	"entry-level", "junior", "mid-level", "senior", "staff", "principal",
	"lead", "associate", "director", "executive", "vice-president",
}

// JobPosting is the structured record extracted from a job posting document.
// Optional fields are nil when unresolved; Remote is a tri-state where nil means unknown.
type JobPosting struct {
	Company          string   `json:"company" validate:"required"`
	Position         string   `json:"position" validate:"required"`
	Requirements     []string `json:"requirements" validate:"max=15,dive,min=6"`
	Responsibilities []string `json:"responsibilities" validate:"max=15,dive,min=6"`
	Salary           *string  `json:"salary"`
	Remote           *bool    `json:"remote"`
	Location         *string  `json:"location"`
	URL              *string  `json:"url"`
	JobType          *string  `json:"job_type" validate:"omitempty,oneof=full-time part-time contract freelance intern temporary permanent fixed-term"`
	ExperienceLevel  *string  `json:"experience_level" validate:"omitempty,oneof=entry-level junior mid-level senior staff principal lead associate director executive vice-president"`
	Description      *string  `json:"description"`
	Benefits         []string `json:"benefits" validate:"dive,min=6"`
}

// NewJobPosting returns a posting with default company/position and empty lists.
func NewJobPosting() *JobPosting {
	return &JobPosting{
		Company:          DefaultCompany,
		Position:         DefaultPosition,
		Requirements:     []string{},
		Responsibilities: []string{},
		Benefits:         []string{},
	}
}

// jobPostingJSON breaks the MarshalJSON recursion.
type jobPostingJSON JobPosting

// MarshalJSON encodes list fields as [] rather than null.
func (p JobPosting) MarshalJSON() ([]byte, error) {
	out := jobPostingJSON(p)
	out.Requirements = nonNil(out.Requirements)
	out.Responsibilities = nonNil(out.Responsibilities)
	out.Benefits = nonNil(out.Benefits)
	return json.Marshal(out)
}

// UnmarshalJSON decodes a posting, normalizing missing lists to empty slices.
func (p *JobPosting) UnmarshalJSON(data []byte) error {
	var in jobPostingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = JobPosting(in)
	p.Requirements = nonNil(p.Requirements)
	p.Responsibilities = nonNil(p.Responsibilities)
	p.Benefits = nonNil(p.Benefits)
	return nil
}

// ToJSON marshals the posting to pretty-printed JSON.
func (p *JobPosting) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job posting to JSON: %w", err)
	}
	return jsonBytes, nil
}

// FromJSON decodes a posting previously produced by ToJSON.
func FromJSON(data []byte) (*JobPosting, error) {
	var p JobPosting
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job posting: %w", err)
	}
	return &p, nil
}

// Validate checks field constraints and the no-duplicates invariant on list fields.
func (p *JobPosting) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}
	for name, items := range map[string][]string{
		"requirements":     p.Requirements,
		"responsibilities": p.Responsibilities,
		"benefits":         p.Benefits,
	} {
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			key := strings.ToLower(item)
			if seen[key] {
				return fmt.Errorf("duplicate entry in %s: %q", name, item)
			}
			seen[key] = true
		}
	}
	return nil
}

// Equal reports whether two postings carry the same values field for field.
func (p *JobPosting) Equal(o *JobPosting) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Company == o.Company &&
		p.Position == o.Position &&
		equalStrings(p.Requirements, o.Requirements) &&
		equalStrings(p.Responsibilities, o.Responsibilities) &&
		equalStrings(p.Benefits, o.Benefits) &&
		equalPtr(p.Salary, o.Salary) &&
		equalPtr(p.Remote, o.Remote) &&
		equalPtr(p.Location, o.Location) &&
		equalPtr(p.URL, o.URL) &&
		equalPtr(p.JobType, o.JobType) &&
		equalPtr(p.ExperienceLevel, o.ExperienceLevel) &&
		equalPtr(p.Description, o.Description)
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
