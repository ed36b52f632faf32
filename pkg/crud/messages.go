package crud

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Operation names a logical CRUD operation.
type Operation string

// Operations recognised by the message table.
const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Outcome is the result side of a message lookup.
type Outcome string

// Outcomes recognised by the message table.
const (
	Success Outcome = "success"
	Failure Outcome = "error"
)

// Message is a resolved (code, text) pair ready to go into an envelope.
type Message struct {
	Code types.Code
	Text string
}

type messageKey struct {
	op      Operation
	outcome Outcome
}

// messageTemplate holds the text for a lookup with and without an id.
// In withID, %[1]s is the entity name and %[2]v the id.
type messageTemplate struct {
	withoutID string
	withID    string
}

var messageTable = map[messageKey]messageTemplate{
	{OpCreate, Success}: {"%[1]s created successfully", "%[1]s %[2]v created successfully"},
	{OpCreate, Failure}: {"Failed to create %[1]s", "Failed to create %[1]s %[2]v"},
	{OpRead, Success}:   {"%[1]s list retrieved successfully", "%[1]s %[2]v retrieved successfully"},
	{OpRead, Failure}:   {"Failed to retrieve %[1]s list", "Failed to retrieve %[1]s %[2]v"},
	{OpUpdate, Success}: {"%[1]s updated successfully", "%[1]s %[2]v updated successfully"},
	{OpUpdate, Failure}: {"Failed to update %[1]s", "Failed to update %[1]s %[2]v"},
	{OpDelete, Success}: {"%[1]s deleted successfully", "%[1]s %[2]v deleted successfully"},
	{OpDelete, Failure}: {"Failed to delete %[1]s", "Failed to delete %[1]s %[2]v"},
}

// CodeFor returns the stable code for an operation and outcome,
// e.g. CRUD.CREATE.SUCCESS.
func CodeFor(op Operation, outcome Outcome) types.Code {
	return types.Code("CRUD." + strings.ToUpper(string(op)) + "." + strings.ToUpper(string(outcome)))
}

// MessageFor looks up the code and human message for op and outcome,
// interpolating entity and, when present, the first element of id.
// Passing an id of 0 or "" still selects the with-id template.
// Pairs missing from the table fall back to a generic text under the
// same code scheme.
func MessageFor(op Operation, outcome Outcome, entity string, id ...any) Message {
	code := CodeFor(op, outcome)
	tmpl, ok := messageTable[messageKey{op, outcome}]
	if !ok {
		return Message{Code: code, Text: fmt.Sprintf("%s %s: %s", entity, op, outcome)}
	}
	if len(id) == 0 {
		return Message{Code: code, Text: fmt.Sprintf(tmpl.withoutID, entity)}
	}
	return Message{Code: code, Text: fmt.Sprintf(tmpl.withID, entity, id[0])}
}
