package core

import (
	"fmt"
	"strings"

	"github.com/nounsgovkit/govkit/types"
)

type NoTransactionHandlerError struct {
	Index     int
	Target    string
	Signature string
}

func NewNoTransactionHandlerError(index int, raw types.RawTransaction) error {
	return &NoTransactionHandlerError{
		Index:     index,
		Target:    raw.Target,
		Signature: raw.Signature,
	}
}

func (e *NoTransactionHandlerError) Error() string {
	return fmt.Sprintf("no transaction handler matches transaction %d (target = %s, signature = %q), "+
		"register a catch-all handler such as the custom transaction action", e.Index, e.Target, e.Signature)
}

type UnknownTransactionTypeError struct {
	Type types.TransactionType
}

func NewUnknownTransactionTypeError(t types.TransactionType) error {
	return &UnknownTransactionTypeError{Type: t}
}

func (e *UnknownTransactionTypeError) Error() string {
	return fmt.Sprintf("no transaction handler registered for type %q", e.Type)
}

type UnknownActionTypeError struct {
	Type types.ActionType
}

func NewUnknownActionTypeError(t types.ActionType) error {
	return &UnknownActionTypeError{Type: t}
}

func (e *UnknownActionTypeError) Error() string {
	return fmt.Sprintf("action %q is not registered with the parser", e.Type)
}

// BuildStallError is returned when a full build pass consumed nothing.
type BuildStallError struct {
	Remaining []types.ReadableTransaction
}

func NewBuildStallError(remaining []types.ReadableTransaction) error {
	return &BuildStallError{Remaining: remaining}
}

func (e *BuildStallError) Error() string {
	tags := make([]string, 0, len(e.Remaining))
	for _, tx := range e.Remaining {
		tags = append(tags, string(tx.TransactionType()))
	}
	return fmt.Sprintf("no action handler can build the remaining %d transactions [%s]",
		len(e.Remaining), strings.Join(tags, ", "))
}
