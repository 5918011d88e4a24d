package patterns

import (
	"regexp"

	"github.com/jonathan/job-parser/internal/types"
)

// builtin is never handed out directly; Default returns clones.
var builtin = &Library{
	Version: Version,

	SourceProbes: []SourceProbe{
		{Kind: types.SourceLinkedIn, Probes: []string{
			"linkedin.com", "linkedin", "topcard", "job-details-jobs-unified", `data-test-company-name="`,
		}},
		{Kind: types.SourceIndeed, Probes: []string{
			"indeed.com", "indeed", "jobsearch", "data-tn-element",
		}},
	},

	Selectors: map[types.SourceKind]map[Field][]string{
		types.SourceLinkedIn: {
			FieldCompany: {
				"[data-test-company-name]",
				".company-name",
				"[data-organization-name]",
				".job-details-job-university-recruiter__company-name",
				"h4.job-details-job-university-recruiter__company-name",
			},
			FieldTitle: {
				"h1.topcard-layout__title",
				"h1.job-details-jobs-unified-top-card__job-title",
				"[data-test-job-title]",
				".topcard__title",
				"h1[data-organization-job-title]",
			},
			FieldLocation: {
				"[data-test-company-location]",
				".job-details-jobs-unified-top-card__location",
				".topcard__flavor--bullet",
				"[data-job-location]",
			},
			FieldDescription: {
				"[data-test-job-description]",
				".job-details__main-content",
				"#job-details",
				".show-more-less-html__markup",
			},
			FieldSalary: {
				"[data-test-salary]",
				".salary",
				".job-details-jobs-unified-top-card__salary",
				"[data-job-salary]",
			},
		},
		types.SourceIndeed: {
			FieldCompany: {
				"[data-company-name]",
				".company-name",
				"[data-tn-company-name]",
				"span[data-tn-element='companyName']",
				".jobsearch-InlineCompanyRating",
			},
			FieldTitle: {
				"h1.jobsearch-JobInfoHeader-title",
				"[data-job-title]",
				".jobsearch-JobInfoHeader-title-container",
				"h1[data-tn-element='jobTitle']",
			},
			FieldLocation: {
				"[data-tn-element='location']",
				".jobsearch-JobInfoHeader-subtitle",
				".jobsearch-CompanyReviewWithInlineLocation",
			},
			FieldDescription: {
				"#jobDescriptionText",
				"[data-tn-element='jobDescription']",
				".jobsearch-jobDescriptionText",
				"#jobDescriptionContainer",
			},
			FieldSalary: {
				"[data-tn-element='salaryInfo']",
				".jobsearch-SalaryMessage",
				".salary-text",
				"[data-job-salary]",
			},
		},
		types.SourceGeneric: {
			FieldCompany: {
				"[itemprop='hiringOrganization'] [itemprop='name']",
				"[data-company]",
			},
			FieldTitle: {
				"[itemprop='title']",
			},
			FieldLocation: {
				"[itemprop='jobLocation']",
			},
			FieldDescription: {
				"[itemprop='description']",
				".job-description",
				"#job-description",
				".job-details",
				"main",
				"article",
				"body",
			},
			FieldSalary: {
				"[itemprop='baseSalary']",
				".salary",
				"[data-salary]",
			},
		},
	},

	FieldPatterns: map[types.SourceKind]map[Field][]*regexp.Regexp{
		types.SourceLinkedIn: {
			FieldCompany:  {regexp.MustCompile(`(?i)(?:company|employer|organization)["\s:]+([^"<>\n]+)`)},
			FieldTitle:    {titleLabel},
			FieldLocation: {regexp.MustCompile(`(?i)\blocation\s*:\s*([^"<>\n]+)`)},
		},
		types.SourceIndeed: {
			FieldCompany:  {regexp.MustCompile(`(?i)company["\s:]+([^"<>\n]+)`)},
			FieldTitle:    {titleLabel},
			FieldLocation: {regexp.MustCompile(`(?i)location["\s:]+([^"<>\n]+)`)},
		},
		types.SourceGeneric: {
			FieldCompany:  {regexp.MustCompile(`(?i)(?:company|employer|organization|hiring)[:\s]+([^"<>\n]+)`)},
			FieldTitle:    {titleLabel},
			FieldLocation: {regexp.MustCompile(`(?i)(?:location|based|office)[:\s]+([^<>\n]+)`)},
		},
	},

	RemoteKeywords: []string{
		"remote", "work from home", "wfh", "distributed team", "virtual",
		"telecommute", "telecommuting", "100% remote", "fully remote",
		"remote-first", "remote friendly", "work remotely",
	},
	HybridKeywords: []string{
		"hybrid", "flexible location", "partially remote", "remote optional", "remote available",
	},
	OnsiteKeywords: []string{
		"on-site", "onsite", "in-office", "in person", "at our office",
	},

	JobTypePatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(full[- ]?time|part[- ]?time|contract|freelance|intern|temporary)\b`),
		regexp.MustCompile(`(?i)\b(permanent|fixed[- ]?term)\b`),
	},
	ExperienceLevelPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(entry[- ]?level|junior|mid[- ]?level|senior|staff|principal|lead)\b`),
		regexp.MustCompile(`(?i)\b(associate|vice[- ]?president|director|executive)\b`),
	},

	// Order matters: k shorthand before plain amounts so "$150k" is not cut at "$150".
	SalaryPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\$[\d,.]+k(?:\s*(?:-|–|to)\s*\$?[\d,.]+k)?`),
		regexp.MustCompile(`(?i)\$[\d,]+(?:\.\d{2})?(?:\s*(?:-|–|to)\s*\$[\d,]+(?:\.\d{2})?)?(?:\s*(?:per|/|an|a)\s*(?:hour|hr|year|yr|month|annum)\b)?`),
		regexp.MustCompile(`(?i)\b\d{2,3}k\s*(?:-|–|to)\s*\d{2,3}k\b`),
		regexp.MustCompile(`(?i)(?:salary|pay|compensation)[:\s]*(\$[^<>\n]+)`),
		regexp.MustCompile(`(?i)(?:per|/)\s*(?:year|annum)[:\s]*(\$[^<>\n]+)`),
	},

	CanonicalTerms: map[string]string{
		"fulltime":      "full-time",
		"parttime":      "part-time",
		"fixedterm":     "fixed-term",
		"entrylevel":    "entry-level",
		"midlevel":      "mid-level",
		"vicepresident": "vice-president",
	},

	Headers: SectionHeaders{
		Requirements: regexp.MustCompile(`(?im)^[ \t]*(?:(?:key |minimum |basic |preferred )?(?:requirements?|qualifications?)|what we(?:['’]re| are)? looking for|what you(?:['’]ll| will)? bring|required skills)[ \t]*:?[ \t]*$`),
		Responsibilities: regexp.MustCompile(`(?im)^[ \t]*(?:(?:key |core |main |primary )?(?:responsibilities|responsibility|duties)|what you(?:['’]ll| will)? do|your impact)[ \t]*:?[ \t]*$`),
		NextSection: regexp.MustCompile(`(?im)^[ \t]*(?:(?:our |the )?(?:benefits|compensation|perks|team|company)(?:[ \t]*(?:&|and)[ \t]*\w+)?|about(?: us| the company| the team)?|(?:key |minimum |basic |preferred )?(?:requirements?|qualifications?))[ \t]*:?[ \t]*$`),
		Benefits: regexp.MustCompile(`(?im)^[ \t]*(?:(?:our |the )?(?:benefits|perks)(?:[ \t]*(?:&|and)[ \t]*(?:benefits|perks))?|what we offer|compensation (?:&|and) benefits)[ \t]*:?[ \t]*$`),
	},

	HeaderPrefixes: []string{
		"requirements", "qualifications", "responsibilities", "duties",
		"what you", "what we", "your impact", "key responsibilities",
		"benefits", "compensation", "perks", "about the", "about us",
		"company", "team", "our team", "the company",
	},

	TitleSuffix: regexp.MustCompile(`(?:\s+[-–|]\s+|\s*\|\s*).*$`),
}

var titleLabel = regexp.MustCompile(`(?i)\b(?:job title|position)\s*:\s*([^"<>\n]+)`)
