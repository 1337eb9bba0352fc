package registration

import (
	"fmt"
	"strings"
)

// Policy decides what happens when a submission matches an existing record.
type Policy string

const (
	// PolicyUpsert looks up by identifier and overwrites a match.
	PolicyUpsert Policy = "upsert-by-identifier"
	// PolicyRejectDuplicate looks up by identifier, name and events and
	// rejects a match without writing.
	PolicyRejectDuplicate Policy = "reject-on-duplicate"
	// PolicyClosed rejects every submission before any I/O.
	PolicyClosed Policy = "maintenance-closed"
)

// ParsePolicy resolves a policy by name. An empty name selects PolicyUpsert.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return PolicyUpsert, nil
	case PolicyUpsert, PolicyRejectDuplicate, PolicyClosed:
		return p, nil
	}
	return "", fmt.Errorf("unknown registration policy %q", name)
}

// KeyFields are the fields the policy looks records up by. They are required
// on top of the schema so a lookup never runs against an empty key.
func (p Policy) KeyFields() []Field {
	switch p {
	case PolicyUpsert:
		return []Field{FieldUsn}
	case PolicyRejectDuplicate:
		return []Field{FieldUsn, FieldName, FieldEvents}
	}
	return nil
}

func (p Policy) String() string { return string(p) }
