// Package domain contains the core data structures and domain logic for the application.
package domain

// EntityKind identifies which permission entity space an entry belongs to.
// The two spaces are never compared against each other.
type EntityKind string

const (
	EntityUsers EntityKind = "Users"
	EntityGroup EntityKind = "Group"
)

// PermissionDiscrepancy is one observed-vs-expected mismatch for a project
// or repo scope: an entity with access it should not have, an entity with
// the wrong permission level, or a required entity that is missing
// entirely (in which case Permission carries the expected level).
type PermissionDiscrepancy struct {
	Project    string
	Repo       string
	Entity     EntityKind
	EntityName string
	Permission string
}

// IsRepo reports whether the discrepancy was found at repo scope. Repo is
// empty for project-level entries.
func (d PermissionDiscrepancy) IsRepo() bool {
	return d.Repo != ""
}
