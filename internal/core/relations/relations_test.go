package relations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleMember(t *testing.T) {
	set := []string{"a", "b"}

	next, member := ToggleMember(set, "c")
	assert.True(t, member)
	assert.Equal(t, []string{"a", "b", "c"}, next)

	back, member := ToggleMember(next, "c")
	assert.False(t, member)
	assert.Equal(t, []string{"a", "b"}, back)

	// input untouched
	assert.Equal(t, []string{"a", "b"}, set)
}

func TestToggleMember_RemovesOnlyFirstOccurrence(t *testing.T) {
	next, member := ToggleMember([]string{"x", "a", "x"}, "x")
	assert.False(t, member)
	assert.Equal(t, []string{"a", "x"}, next)
}

func TestRemoveFirstRef_PreservesOrder(t *testing.T) {
	list := []string{"p1", "p2", "p3", "p4"}

	next, removed := RemoveFirstRef(list, "p2")
	require.True(t, removed)
	assert.Equal(t, []string{"p1", "p3", "p4"}, next)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, list)

	same, removed := RemoveFirstRef(list, "missing")
	assert.False(t, removed)
	assert.Equal(t, list, same)
}

func TestAppendRef_DoesNotAlias(t *testing.T) {
	list := make([]string, 1, 4)
	list[0] = "a"

	first := AppendRef(list, "b")
	second := AppendRef(list, "c")

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, []string{"a", "c"}, second)
}

func TestClone_NilBecomesEmpty(t *testing.T) {
	out := Clone(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedupe([]string{"a", "b", "a", "c", "b"}))
}

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner("u1", "u1"))
	assert.False(t, IsOwner("u1", "u2"))
	assert.False(t, IsOwner("", ""))
}

func TestValidateContent(t *testing.T) {
	content, err := ValidateContent("  hello  ", 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	_, err = ValidateContent("   ", 10)
	assert.ErrorIs(t, err, ErrContentEmpty)

	_, err = ValidateContent(strings.Repeat("a", 11), 10)
	assert.ErrorIs(t, err, ErrContentTooLong)

	// family emoji is a single grapheme cluster
	_, err = ValidateContent("👨‍👩‍👧‍👦", 1)
	assert.NoError(t, err)
}
