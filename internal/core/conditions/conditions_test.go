package conditions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsComplete(t *testing.T) {
	want := []string{
		"Nail Fungus",
		"Ringworm",
		"Shingles",
		"Impetigo",
		"Athlete's Foot",
		"Chickenpox",
		"Cutaneous Larva Migrans",
		"Cellulitis",
	}
	assert.Equal(t, want, Names())

	for _, c := range All() {
		assert.NotEmpty(t, c.Description, c.Name)
		assert.NotEmpty(t, c.WhatItIs, c.Name)
		assert.NotEmpty(t, c.Symptoms, c.Name)
		assert.NotEmpty(t, c.Causes, c.Name)
		assert.NotEmpty(t, c.Prevention, c.Name)
		assert.NotEmpty(t, c.Treatment, c.Name)
	}
}

func TestFindIgnoresCase(t *testing.T) {
	c, ok := Find("  ringworm ")
	require.True(t, ok)
	assert.Equal(t, "Ringworm", c.Name)

	_, ok = Find("Eczema")
	assert.False(t, ok)
}

func TestMarkdownSections(t *testing.T) {
	c, ok := Find("Cellulitis")
	require.True(t, ok)

	md := c.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Cellulitis\n"))
	for _, heading := range []string{"## What it is", "## Symptoms", "## Causes", "## Prevention", "## Treatment"} {
		assert.Contains(t, md, heading)
	}
	assert.Contains(t, md, "- Fever\n")
}
