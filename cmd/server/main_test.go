package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/presentation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TEMPLATE_DIR", filepath.Join(dir, "templates"))
	t.Setenv("DEFAULT_TEMPLATE", "default.pptx")
	t.Setenv("UPLOAD_PATH", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("TEMPLATE_BUCKET", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitTemplate(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "templates", "default.pptx")

	out, err := execute(t, "", "init-template")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	pres, err := presentation.Open(path)
	require.NoError(t, err)
	assert.NotEmpty(t, pres.SlideLayouts())

	_, err = execute(t, "", "init-template")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "", "init-template", "--force")
	require.NoError(t, err)
}

func TestGenerate_FromStdin(t *testing.T) {
	dir := setupEnv(t)
	_, err := execute(t, "", "init-template")
	require.NoError(t, err)

	outPath := filepath.Join(dir, "deck.pptx")
	out, err := execute(t, `[{"title":"One"},{"title":"Two","body":"b"}]`, "generate", "--slides", "-", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 slides)")

	pres, err := presentation.Open(outPath)
	require.NoError(t, err)
	assert.Len(t, pres.Slides(), 2)
}

func TestGenerate_TemplateFile(t *testing.T) {
	dir := setupEnv(t)
	custom := filepath.Join(dir, "custom.pptx")
	_, err := execute(t, "", "init-template", custom)
	require.NoError(t, err)

	slides := filepath.Join(dir, "slides.json")
	require.NoError(t, os.WriteFile(slides, []byte(`[{"title":"Only"}]`), 0o644))

	outPath := filepath.Join(dir, "out.pptx")
	_, err = execute(t, "", "generate", "--template-file", custom, "--slides", slides, "--out", outPath)
	require.NoError(t, err)

	pres, err := presentation.Open(outPath)
	require.NoError(t, err)
	assert.Len(t, pres.Slides(), 1)
}

func TestGenerate_Errors(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", "generate", "--template", "missing.pptx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pptx")

	_, err = execute(t, `{"title":`, "generate", "--slides", "-")
	require.Error(t, err)
}

func TestExtract_DOCX(t *testing.T) {
	dir := setupEnv(t)

	doc := document.New()
	doc.AddParagraph().AddRun().AddText("Hello from Word")
	path := filepath.Join(dir, "note.docx")
	require.NoError(t, doc.SaveToFile(path))

	out, err := execute(t, "", "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello from Word\n", out)
}

func TestExtract_Unsupported(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain"), 0o644))

	_, err := execute(t, "", "extract", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
