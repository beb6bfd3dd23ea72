package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd(t *testing.T) {
	input := writeFile(t, "deck.json", testDeck)
	dir := t.TempDir()
	pdf := filepath.Join(dir, "slides.pdf")
	pptx := filepath.Join(dir, "slides.pptx")

	res := execute(t, "", "export", "--in", input, "--pdf", pdf, "--pptx", pptx, "--theme", "dark")
	require.NoError(t, res.err)
	assert.Equal(t, "Exported pdf: "+pdf+"\nExported pptx: "+pptx+"\n", res.stdout)

	for _, path := range []string{pdf, pptx} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestExportCmd_Errors(t *testing.T) {
	input := writeFile(t, "deck.json", testDeck)
	pdf := filepath.Join(t.TempDir(), "slides.pdf")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no targets", []string{"export", "--in", input}, "--pdf or --pptx"},
		{"missing input flag", []string{"export", "--pdf", pdf}, "required flag"},
		{"unknown theme", []string{"export", "--in", input, "--pdf", pdf, "--theme", "neon"}, "Theme"},
		{"missing file", []string{"export", "--in", "nope.json", "--pdf", pdf}, "failed to read deck file"},
		{"not a deck", []string{"export", "--in", writeFile(t, "bad.json", `{"slides": []}`), "--pdf", pdf}, "invalid deck"},
		{"unwritable output", []string{"export", "--in", input, "--pdf", filepath.Join(t.TempDir(), "missing", "x.pdf")}, "failed to write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.wantErr)
		})
	}
}
