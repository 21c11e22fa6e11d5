package main

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCLIFlags(t *testing.T) {
	var out bytes.Buffer
	opts, err := parseCLIFlags([]string{"-deviation", "0.005", "-workers", "4", "-no-progress", "run.xlsx", "out", "exp1"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "run.xlsx", opts.workbookPath)
	assert.Equal(t, "out", opts.outDir)
	assert.Equal(t, "exp1", opts.outPrefix)
	assert.Equal(t, 0.005, opts.deviation)
	assert.Equal(t, 4, opts.workers)
	assert.Equal(t, 2.0, opts.maxAspect)
	assert.Equal(t, 300, opts.dpi)
	assert.Equal(t, 3.0, opts.panelSize)
	assert.True(t, opts.noProgress)
	assert.False(t, opts.debug)
}

func TestParseCLIFlagsMissingArgs(t *testing.T) {
	var out bytes.Buffer
	_, err := parseCLIFlags([]string{"run.xlsx", "out"}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "usage: moltenclip")
}

func TestParseCLIFlagsHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := parseCLIFlags([]string{"-h"}, &out)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}
