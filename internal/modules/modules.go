package modules

import (
	"sort"

	"github.com/wonny/openresearch/backend/internal/contracts"
)

// sortComponents orders sub-scores by name so module detail is deterministic
// across runs regardless of map iteration order.
func sortComponents(components []contracts.SubScore) {
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})
}
