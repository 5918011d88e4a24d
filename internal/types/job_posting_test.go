package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPosting() *JobPosting {
	return &JobPosting{
		Company:          "Test Company",
		Position:         "Senior Engineer",
		Requirements:     []string{"Python experience", "Go experience"},
		Responsibilities: []string{"Design systems", "Mentor the team"},
		Salary:           StringPtr("$150,000 - $200,000"),
		Remote:           BoolPtr(false),
		Location:         StringPtr("San Francisco, CA"),
		URL:              StringPtr("https://example.com/job/123"),
		JobType:          StringPtr("full-time"),
		ExperienceLevel:  StringPtr("senior"),
		Description:      StringPtr("Job description text"),
		Benefits:         []string{"Health insurance", "401k matching"},
	}
}

func TestJobPosting_RoundTrip(t *testing.T) {
	original := fullPosting()

	jsonBytes, err := original.ToJSON()
	require.NoError(t, err)

	decoded, err := FromJSON(jsonBytes)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
	assert.Equal(t, original, decoded)
}

func TestJobPosting_RoundTripPreservesUnknownRemote(t *testing.T) {
	original := NewJobPosting()

	jsonBytes, err := original.ToJSON()
	require.NoError(t, err)

	decoded, err := FromJSON(jsonBytes)
	require.NoError(t, err)
	assert.Nil(t, decoded.Remote)
	assert.True(t, original.Equal(decoded))
}

func TestJobPosting_MarshalEmptyListsAsArrays(t *testing.T) {
	p := JobPosting{Company: "Acme", Position: "Engineer"}

	jsonBytes, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &raw))
	assert.Equal(t, []any{}, raw["requirements"])
	assert.Equal(t, []any{}, raw["responsibilities"])
	assert.Equal(t, []any{}, raw["benefits"])
	assert.Contains(t, raw, "remote")
	assert.Nil(t, raw["remote"])
	assert.Nil(t, raw["salary"])
}

func TestFromJSON_MissingLists(t *testing.T) {
	p, err := FromJSON([]byte(`{"company":"Cached Company","position":"Cached Position","remote":true}`))
	require.NoError(t, err)
	assert.NotNil(t, p.Requirements)
	assert.Empty(t, p.Requirements)
	assert.NotNil(t, p.Benefits)
	require.NotNil(t, p.Remote)
	assert.True(t, *p.Remote)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"company":`))
	assert.Error(t, err)
}

func TestJobPosting_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *JobPosting)
		wantErr bool
	}{
		{"valid", func(_ *JobPosting) {}, false},
		{"missing company", func(p *JobPosting) { p.Company = "" }, true},
		{"missing position", func(p *JobPosting) { p.Position = "" }, true},
		{"unknown job type", func(p *JobPosting) { p.JobType = StringPtr("gig") }, true},
		{"unknown experience level", func(p *JobPosting) { p.ExperienceLevel = StringPtr("wizard") }, true},
		{"short requirement", func(p *JobPosting) { p.Requirements = []string{"Go"} }, true},
		{"duplicate responsibility", func(p *JobPosting) {
			p.Responsibilities = []string{"Design systems", "design SYSTEMS"}
		}, true},
		{"too many requirements", func(p *JobPosting) {
			p.Requirements = make([]string, 0, MaxSectionItems+1)
			for i := 0; i <= MaxSectionItems; i++ {
				p.Requirements = append(p.Requirements, "Requirement "+strings.Repeat("x", i+1))
			}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullPosting()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobPosting_Equal(t *testing.T) {
	a := fullPosting()
	b := fullPosting()
	assert.True(t, a.Equal(b))

	b.Remote = nil
	assert.False(t, a.Equal(b))

	var nilPosting *JobPosting
	assert.True(t, nilPosting.Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestParseSourceKind(t *testing.T) {
	kind, err := ParseSourceKind("LinkedIn")
	require.NoError(t, err)
	assert.Equal(t, SourceLinkedIn, kind)

	kind, err = ParseSourceKind(" indeed ")
	require.NoError(t, err)
	assert.Equal(t, SourceIndeed, kind)

	_, err = ParseSourceKind("monster")
	assert.Error(t, err)
}
