package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-parser/internal/patterns"
)

var bareThousands = regexp.MustCompile(`(?i)\d+k`)

// Signals extracts the keyword and pattern driven fields of a posting.
type Signals struct {
	lib *patterns.Library
}

// NewSignals builds Signals over lib.
func NewSignals(lib *patterns.Library) *Signals {
	return &Signals{lib: lib}
}

var defaultSignals = NewSignals(patterns.Default())

// DetectRemoteStatus applies the remote policy using the built-in keywords.
func DetectRemoteStatus(text string) *bool {
	return defaultSignals.RemoteStatus(text)
}

// ExtractSalary returns the first salary-like span using the built-in patterns.
func ExtractSalary(text string) (string, bool) {
	return defaultSignals.Salary(text)
}

// ExtractJobType returns the canonical employment type using the built-in patterns.
func ExtractJobType(text string) (string, bool) {
	return defaultSignals.JobType(text)
}

// ExtractExperienceLevel returns the canonical seniority using the built-in patterns.
func ExtractExperienceLevel(text string) (string, bool) {
	return defaultSignals.ExperienceLevel(text)
}

// RemoteStatus returns true if any remote or hybrid keyword occurs, false if
// only on-site keywords occur, and nil when nothing is stated.
func (s *Signals) RemoteStatus(text string) *bool {
	lower := strings.ToLower(text)

	if containsAny(lower, s.lib.RemoteKeywords) || containsAny(lower, s.lib.HybridKeywords) {
		v := true
		return &v
	}
	if containsAny(lower, s.lib.OnsiteKeywords) {
		v := false
		return &v
	}
	return nil
}

// Salary returns the first match of the salary patterns, in order. Patterns
// with a capture group yield the group. A bare "150k" gets a "$" prefix.
func (s *Signals) Salary(text string) (string, bool) {
	for _, re := range s.lib.SalaryPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		salary := m[0]
		if len(m) > 1 && m[1] != "" {
			salary = m[1]
		}
		salary = collapseSpaces(salary)
		if salary == "" {
			continue
		}
		if !strings.Contains(salary, "$") && bareThousands.MatchString(salary) {
			salary = "$" + salary
		}
		return salary, true
	}
	return "", false
}

// JobType returns the first employment-type term found, in canonical form.
func (s *Signals) JobType(text string) (string, bool) {
	return s.firstTerm(text, s.lib.JobTypePatterns)
}

// ExperienceLevel returns the first seniority term found, in canonical form.
func (s *Signals) ExperienceLevel(text string) (string, bool) {
	return s.firstTerm(text, s.lib.ExperienceLevelPatterns)
}

func (s *Signals) firstTerm(text string, res []*regexp.Regexp) (string, bool) {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return canonicalTerm(m[len(m)-1], s.lib.CanonicalTerms), true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}
