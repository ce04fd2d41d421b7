package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	s := GenerateSlug("Hello World")
	assert.Regexp(t, regexp.MustCompile(`^hello-world-[0-9a-z]+$`), s)
}

func TestGenerateSlug_EmptyTitle(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^article-[0-9a-z]+$`), GenerateSlug("!!!"))
}

func TestGenerateSlug_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		s := GenerateSlug("same title")
		_, dup := seen[s]
		assert.False(t, dup, "duplicate slug %s", s)
		seen[s] = struct{}{}
	}
}

func TestSetSlugNode(t *testing.T) {
	t.Cleanup(func() { _ = SetSlugNode(1) })

	assert.Error(t, SetSlugNode(1024))
	assert.Error(t, SetSlugNode(-1))

	// 不同节点在同一毫秒内也不会生成相同后缀
	assert.NoError(t, SetSlugNode(2))
	a := GenerateSlug("same")
	assert.NoError(t, SetSlugNode(3))
	b := GenerateSlug("same")
	assert.NotEqual(t, a, b)
}
