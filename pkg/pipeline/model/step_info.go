package model

import "fmt"

type entryType string

const (
	InputEntryType     entryType = "input"
	OperationEntryType entryType = "operation"
	OutputEntryType    entryType = "output"
)

// EntryInfo describes one entry of a sealed operation queue.
type EntryInfo struct {
	Type  entryType
	Index int
	Label string
}

// Key returns a name unique within a queue. Labels alone are not unique since the same
// command can be queued several times.
func (e *EntryInfo) Key() string {
	if e.Type != OperationEntryType {
		return e.Label
	}

	return fmt.Sprintf("%d:%s", e.Index, e.Label)
}

var (
	InputEntry  = &EntryInfo{Type: InputEntryType, Index: -1, Label: "input"}
	OutputEntry = &EntryInfo{Type: OutputEntryType, Index: -1, Label: "output"}
)
