// Package query parses list-endpoint filter parameters and carries the
// resulting filter values into the service layer.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mealstash/recipe-api-be/internal/apperr"
)

// RecipeFilter narrows a recipe list. Within each id set a recipe matches
// if it is linked to at least one of the ids; when both sets are present
// the recipe must match both.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// ListOptions narrows a tag or ingredient list.
type ListOptions struct {
	// AssignedOnly restricts results to entries attached to at least
	// one of the caller's recipes.
	AssignedOnly bool
}

// ParseIDList parses a comma-separated list of ids. An empty parameter
// means "no filter" and yields nil. Malformed tokens are a caller error,
// reported against the given parameter name.
func ParseIDList(param, raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperr.Invalid(param, fmt.Sprintf("%q is not a valid id", p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseBool interprets a query-string flag. Anything outside the truthy
// set is treated as false, including the empty string.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}
