package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })
	Version = "v0.3.1"

	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Equal(t, "Build version: v0.3.1\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
}
