package relations

import (
	"context"
	"errors"
	"strings"

	"github.com/rivo/uniseg"
)

var (
	// ErrContentEmpty indicates post or comment content is blank after trimming
	ErrContentEmpty = errors.New("content is required")

	// ErrContentTooLong indicates content exceeds the grapheme limit
	ErrContentTooLong = errors.New("content exceeds maximum length")
)

// MaxContentGraphemes is the limit applied to post and comment bodies
const MaxContentGraphemes = 10000

// Transactor runs a unit of work atomically.
// Implementations carry the transaction in the returned context; repositories
// called with that context join it. Nested calls join the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ToggleMember flips the membership of id in set.
// The scan is linear; when id is present its first occurrence is removed,
// otherwise it is appended. The input slice is never modified.
// Returns the new set and whether id is a member afterwards.
func ToggleMember(set []string, id string) ([]string, bool) {
	if next, removed := RemoveFirstRef(set, id); removed {
		return next, false
	}
	return AppendRef(set, id), true
}

// AppendRef returns a copy of list with id appended
func AppendRef(list []string, id string) []string {
	next := make([]string, 0, len(list)+1)
	next = append(next, list...)
	return append(next, id)
}

// RemoveFirstRef returns a copy of list without the first occurrence of id.
// Order of the remaining elements is preserved.
func RemoveFirstRef(list []string, id string) ([]string, bool) {
	for i, ref := range list {
		if ref == id {
			next := make([]string, 0, len(list)-1)
			next = append(next, list[:i]...)
			return append(next, list[i+1:]...), true
		}
	}
	return Clone(list), false
}

// ContainsRef reports whether id appears in list
func ContainsRef(list []string, id string) bool {
	for _, ref := range list {
		if ref == id {
			return true
		}
	}
	return false
}

// Clone copies a reference list; nil stays an empty, non-nil slice so JSON renders []
func Clone(list []string) []string {
	next := make([]string, len(list))
	copy(next, list)
	return next
}

// Dedupe drops repeated ids, keeping the first occurrence of each
func Dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	next := make([]string, 0, len(list))
	for _, id := range list {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	return next
}

// IsOwner reports whether callerID may mutate a record owned by ownerID
func IsOwner(ownerID, callerID string) bool {
	return callerID != "" && ownerID == callerID
}

// ValidateContent trims content and checks it against the grapheme limit
func ValidateContent(content string, maxGraphemes int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > maxGraphemes {
		return "", ErrContentTooLong
	}
	return content, nil
}
