package book

import (
	"fmt"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
)

// DetectDuplicates rejects a descriptor list that contains the same natural
// key more than once. Detection runs on NORMALIZED values, so "Action" and
// "action" count as duplicates even though the raw strings differ.
//
// The error enumerates the offending field, the original list, and the
// deduplicated set so the client can correct the payload directly. The whole
// request fails before any resolution happens; no partial rows are created.
func DetectDuplicates(field string, values []string, normalize func(string) string) error {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))

	for _, value := range values {
		key := normalize(value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	if len(unique) == len(values) {
		return nil
	}

	return apperr.BadRequest(fmt.Sprintf("Duplicate %s in request", field)).WithExtra(map[string]any{
		"name":    field,
		"objects": values,
		"uniq":    unique,
	})
}
