package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JURUSAN_CONFIG", "JURUSAN_DB", "JURUSAN_MISSING_EVIDENCE", "JURUSAN_SELECTOR",
		"JURUSAN_LLM_PROVIDER", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// The command tree is package-global, so one test walks the whole flow.
func TestCommandFlow(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "jurusan.db")

	out, err := execute(t, "questions", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Saya senang membaca karya sastra")

	answers := filepath.Join(dir, "jawaban.yaml")
	require.NoError(t, os.WriteFile(answers, []byte(
		"1: 0\n2: 0\n3: 0\n4: 0\n5: 0\n6: 0\n7: 0\n8: cukup\n9: 0\n10: pasti\n11: sangat\n12: yakin\n13: 0\n"), 0o644))

	out, err = execute(t, "consult", "--db", db, "--answers", answers, "--answer", "1=sedikit", "--requester", "ani")
	require.NoError(t, err)
	assert.Contains(t, out, "Rekomendasi jurusan: Bahasa")

	out, err = execute(t, "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ani")
	assert.Contains(t, out, "Bahasa")

	out, err = execute(t, "history", "view", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Konsultasi #")

	export := filepath.Join(dir, "kb.json")
	_, err = execute(t, "kb", "export", export, "--db", db)
	require.NoError(t, err)

	out, err = execute(t, "kb", "validate", export)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (13 statements, 3 majors)")

	out, err = execute(t, "kb", "import", export, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 13 statements and 3 majors")

	out, err = execute(t, "kb", "show", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "IPS (kode 2)")

	_, err = execute(t, "history", "view", "999", "--db", db)
	assert.ErrorContains(t, err, "consultation 999 not found")

	out, err = execute(t, "llm", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}

func TestKBValidate_Invalid(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1.0.0\nsymptoms: []\nmajors: []\n"), 0o644))

	_, err := execute(t, "kb", "validate", path)
	assert.Error(t, err)
}
