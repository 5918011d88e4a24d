package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-parser/internal/cache"
	"github.com/jonathan/job-parser/internal/config"
	"github.com/jonathan/job-parser/internal/parsing"
	"github.com/jonathan/job-parser/internal/types"
)

func testEngine(store cache.Store) *parsing.Engine {
	return parsing.NewEngine(store, parsing.WithLogger(log.New(io.Discard, "", 0)))
}

func TestParseAll_SingleFile(t *testing.T) {
	path := writeFile(t, "posting.html", linkedInPage)

	var out bytes.Buffer
	err := parseAll(context.Background(), testEngine(nil), nil, config.Config{}, parseOptions{Files: []string{path}, Validate: true}, nil, &out)
	require.NoError(t, err)

	posting, err := types.FromJSON(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Tech Company", posting.Company)
	assert.Equal(t, "Senior Backend Engineer", posting.Position)
	assert.Equal(t, []string{"5+ years of Python experience", "Experience with AWS cloud services"}, posting.Requirements)
}

func TestParseAll_BatchKeepsInputOrder(t *testing.T) {
	files := []string{
		writeFile(t, "a.html", linkedInPage),
		writeFile(t, "b.html", genericPage),
		writeFile(t, "c.html", linkedInPage),
	}

	var out bytes.Buffer
	err := parseAll(context.Background(), testEngine(nil), nil, config.Config{Concurrency: 2}, parseOptions{Files: files}, nil, &out)
	require.NoError(t, err)

	var postings []types.JobPosting
	require.NoError(t, json.Unmarshal(out.Bytes(), &postings))
	require.Len(t, postings, 3)
	assert.Equal(t, "Tech Company", postings[0].Company)
	assert.Equal(t, "Numbers Inc", postings[1].Company)
	assert.Equal(t, "Tech Company", postings[2].Company)
}

func TestParseAll_Summary(t *testing.T) {
	path := writeFile(t, "posting.html", linkedInPage)

	var out, summary bytes.Buffer
	opts := parseOptions{Files: []string{path}, Summary: &summary}
	require.NoError(t, parseAll(context.Background(), testEngine(nil), nil, config.Config{}, opts, nil, &out))

	assert.Contains(t, summary.String(), "PARSED JOB POSTING")
	assert.Contains(t, summary.String(), "Tech Company")
	assert.NotContains(t, out.String(), "PARSED JOB POSTING")
}

func TestParseAll_Stdin(t *testing.T) {
	var out bytes.Buffer
	err := parseAll(context.Background(), testEngine(nil), nil, config.Config{}, parseOptions{Files: []string{"-"}}, strings.NewReader(genericPage), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"company": "Numbers Inc"`)
}

func TestParseAll_IdentityIsCached(t *testing.T) {
	store := cache.NewMemoryStore()
	path := writeFile(t, "posting.html", genericPage)
	const identity = "https://numbers.example/jobs/7"

	var out bytes.Buffer
	err := parseAll(context.Background(), testEngine(store), nil, config.Config{}, parseOptions{Files: []string{path}, Identity: identity}, nil, &out)
	require.NoError(t, err)

	cached, ok, err := store.Get(context.Background(), identity)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, cached.URL)
	assert.Equal(t, identity, *cached.URL)
}

func TestParseAll_URLs(t *testing.T) {
	var fetched []string
	fetcher := parsing.FetcherFunc(func(_ context.Context, u string) (string, error) {
		fetched = append(fetched, u)
		if strings.Contains(u, "broken") {
			return "", errors.New("HTTP status 500")
		}
		return genericPage, nil
	})

	var out bytes.Buffer
	err := parseAll(context.Background(), testEngine(nil), fetcher, config.Config{Concurrency: 1},
		parseOptions{URLs: []string{"https://numbers.example/jobs/1"}}, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"url": "https://numbers.example/jobs/1"`)

	out.Reset()
	err = parseAll(context.Background(), testEngine(nil), fetcher, config.Config{Concurrency: 1},
		parseOptions{URLs: []string{"https://numbers.example/broken"}}, nil, &out)
	var fetchErr *parsing.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, out.String())
}

func TestCollectInputs_Errors(t *testing.T) {
	path := writeFile(t, "a.html", genericPage)

	tests := []struct {
		name    string
		opts    parseOptions
		wantErr string
	}{
		{"nothing", parseOptions{}, "nothing to parse"},
		{"identity with two files", parseOptions{Files: []string{path, path}, Identity: "x"}, "--identity"},
		{"identity with url", parseOptions{Files: []string{path}, URLs: []string{"https://x"}, Identity: "x"}, "--identity"},
		{"missing file", parseOptions{Files: []string{"/nonexistent/job.html"}}, "failed to read"},
		{"stdin twice", parseOptions{Files: []string{"-", "-"}}, "stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectInputs(tt.opts, nil, strings.NewReader(""))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePosting(t *testing.T) {
	posting := types.NewJobPosting()
	assert.NoError(t, validatePosting(posting))

	posting.Company = ""
	assert.Error(t, validatePosting(posting))
}

func TestParseCommand(t *testing.T) {
	resetFlags(t)
	path := writeFile(t, "posting.html", genericPage)

	out, err := execute(t, "parse", "--cache-backend", "none", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"position": "Data Analyst"`)
}
