package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const linkedInPage = `<html><head><title>Senior Backend Engineer | LinkedIn</title></head><body>
<h1 class="topcard-layout__title">Senior Backend Engineer</h1>
<a data-test-company-name="Tech Company">Tech Company</a>
<div class="job-details-jobs-unified-top-card__location">San Francisco, CA (Remote)</div>
<div class="job-details__main-content" data-test-job-description>
<h3>Requirements</h3>
<ul><li>5+ years of Python experience</li><li>Experience with AWS cloud services</li></ul>
<h3>Responsibilities</h3>
<ul><li>Design and implement scalable APIs</li></ul>
</div>
</body></html>`

const genericPage = `<html><body><h1>Data Analyst</h1><p>Company: Numbers Inc</p>
<div class="job-description"><h2>Requirements</h2><ul><li>Advanced SQL knowledge</li></ul></div>
</body></html>`

// resetFlags restores the global flag values the commands share.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		configPath, verbose, cacheBackend, cacheDir, patternsFile = "", false, "", "", ""
		detectFile, detectURL = "", ""
		parseFiles, parseURLs, parseIdentity, parseOut = nil, nil, "", ""
		parseNoCache, parseValidate, parseBrowser, parseSummary = false, false, false, false
	}
	reset()
	t.Cleanup(reset)
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
