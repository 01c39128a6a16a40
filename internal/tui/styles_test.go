package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	assert.Contains(t, Header("dotnetdocs"), "dotnetdocs")
	assert.Contains(t, Warning("careful"), "careful")
	assert.Contains(t, Muted("quiet"), "quiet")
}

func TestStatus(t *testing.T) {
	assert.Contains(t, Status(0, "3 files"), "✓ 3 files")
	assert.Contains(t, Status(2, "2 failures"), "✗ 2 failures")
}
