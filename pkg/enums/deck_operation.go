package enums

import "fmt"

// DeckOperation names the guarded entry points the authorization policy
// decides on.
type DeckOperation string

const (
	DeckOperationShareOrInvite DeckOperation = "share-or-invite"
	DeckOperationEditContent   DeckOperation = "edit-content"
	DeckOperationReadDeck      DeckOperation = "read-deck"
	DeckOperationDeleteDeck    DeckOperation = "delete-deck"
)

var validDeckOperations = []DeckOperation{
	DeckOperationShareOrInvite,
	DeckOperationEditContent,
	DeckOperationReadDeck,
	DeckOperationDeleteDeck,
}

// String implements fmt.Stringer.
func (o DeckOperation) String() string {
	return string(o)
}

// IsValid reports whether the value is a known DeckOperation.
func (o DeckOperation) IsValid() bool {
	for _, candidate := range validDeckOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseDeckOperation converts raw input into a DeckOperation.
func ParseDeckOperation(value string) (DeckOperation, error) {
	op := DeckOperation(value)
	if !op.IsValid() {
		return "", fmt.Errorf("invalid deck operation %q", value)
	}
	return op, nil
}
