package access

import "github.com/estatecrm/backend/internal/domain/shared"

// VisibleToKey is the repository filter key that scopes list queries to
// records a user created, is assigned to, or participates in. Repositories
// translate it into the ownership predicate for their table.
const VisibleToKey = "visible_to"

// ScopeFilter narrows a list filter to the actor's visible records.
// Elevated roles see everything, so their filters pass through untouched.
func ScopeFilter(filter *shared.Filter, actor Actor) {
	if actor.Role.IsElevated() {
		return
	}
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters[VisibleToKey] = actor.ID
}
