package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/extract/extracttest"
	"resume-ats/internal/nlp"
	"resume-ats/internal/nlp/nlptest"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/telemetry"
)

func testDeps(postings map[string]string) deps {
	return deps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "8080", Env: "dev", IncludeTextDefault: true, LogJSON: true}, nil
		},
		newModel: func() (nlp.Model, error) { return nlptest.Model{}, nil },
		lookupJob: func(_ context.Context, _ config.Config, id string) (string, error) {
			desc, ok := postings[id]
			if !ok {
				return "", errors.New("job posting not found")
			}
			return desc, nil
		},
	}
}

func writeResume(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	doc := extracttest.DOCX("Skills", "Python, Kubernetes", "Education", "Master of Science", "Experience", "Backend Developer", "Feb 2020")
	require.NoError(t, os.WriteFile(path, doc, 0o644))
	return path
}

func execute(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { telemetry.SetLogger(nil) })
	var out bytes.Buffer
	cmd := newRootCmd(d)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testDeps(nil), "version")
	require.NoError(t, err)
	assert.Equal(t, "atscan dev\n", out)
}

func TestAnalyzeCommand_InlineJobDescription(t *testing.T) {
	path := writeResume(t, t.TempDir(), "resume.docx")

	out, err := execute(t, testDeps(nil), "analyze", path, "--jd", "python developer", "--no-text")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["has_job_description"])
	assert.Equal(t, 100.0, res["keyword_match_score"])
	assert.NotContains(t, res, "text")
	assert.Equal(t, []any{"Kubernetes", "Python"}, res["skills"])
	assert.Equal(t, []any{"master"}, res["education"])
}

func TestAnalyzeCommand_JobDescriptionFile(t *testing.T) {
	dir := t.TempDir()
	path := writeResume(t, dir, "resume.docx")
	jdPath := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jdPath, []byte("golang developer"), 0o644))

	out, err := execute(t, testDeps(nil), "analyze", path, "--jd-file", jdPath)
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 50.0, res["keyword_match_score"])
	assert.Equal(t, []any{"golang"}, res["missing_keywords"])
	assert.Contains(t, res["text"], "Master of Science")
}

func TestAnalyzeCommand_SavedJob(t *testing.T) {
	path := writeResume(t, t.TempDir(), "resume.docx")

	out, err := execute(t, testDeps(map[string]string{"abc": "kubernetes"}), "analyze", path, "--job-id", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"keyword_match_score": 100`)

	_, err = execute(t, testDeps(nil), "analyze", path, "--job-id", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAnalyzeCommand_FlagValidation(t *testing.T) {
	path := writeResume(t, t.TempDir(), "resume.docx")

	_, err := execute(t, testDeps(nil), "analyze")
	require.Error(t, err)

	_, err = execute(t, testDeps(nil), "analyze", path, "--jd", "go", "--job-id", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestAnalyzeCommand_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeResume(t, dir, "a.docx")
	second := writeResume(t, dir, "b.docx")
	missing := filepath.Join(dir, "missing.docx")

	out, err := execute(t, testDeps(nil), "analyze", first, missing, second, "--concurrency", "2", "--no-text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 resumes failed")

	var lines []fileResult
	scanner := bufio.NewScanner(bytes.NewBufferString(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var r fileResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		lines = append(lines, r)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, first, lines[0].File)
	assert.NotNil(t, lines[0].Result)
	assert.Equal(t, missing, lines[1].File)
	assert.NotEmpty(t, lines[1].Error)
	assert.Equal(t, second, lines[2].File)
	assert.Empty(t, lines[2].Result.Text)
}
