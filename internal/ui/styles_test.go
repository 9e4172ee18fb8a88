package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ab", truncate("ab", 5))
	assert.Equal(t, "hello...", truncate("hello world", 8))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "中...", truncate("中文名字", 5))
}

func TestVisualLengthIgnoresANSI(t *testing.T) {
	styled := "\x1b[1mab\x1b[0m"
	assert.Equal(t, 2, visualLength(styled))
	assert.Equal(t, 4, visualLength("中文"))
	assert.Equal(t, 4, visualLength(padRight(styled, 4)))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abc"}, wrapLine("abc", 4, 0))
	assert.Equal(t, []string{"abcd", "efgh"}, wrapLine("abcdefgh", 4, 0))
	assert.Equal(t, []string{"abcd", "ef", "gh"}, wrapLine("abcdefgh", 4, 2))
}

func TestRenderStatus(t *testing.T) {
	assert.Equal(t, "unknown", RenderStatus("unknown"))
	assert.Equal(t, "running", stripANSI(RenderStatus("running")))
	assert.Equal(t, "Pending", stripANSI(RenderStatus("Pending")))
}

func TestRenderStatusIdle(t *testing.T) {
	assert.Equal(t, StyleStatusIdle.Render("stopped"), RenderStatus("stopped"))
	assert.Equal(t, StyleStatusIdle.Render("Disabled"), RenderStatus("Disabled"))
}
