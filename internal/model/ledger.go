package model

// Ledger holds the generated test files declared by the review document.
type Ledger struct {
	GeneratedFiles []Path // repo-relative, in declaration order
}

// Empty reports whether the ledger declares no generated files.
func (l Ledger) Empty() bool {
	return len(l.GeneratedFiles) == 0
}
