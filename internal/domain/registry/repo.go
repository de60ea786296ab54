package registry

import "context"

// PractitionerStore is the keyed container behind the registry. Insert must
// reject an existing key with ErrDuplicateID and Get must report a missing key
// with ErrPractitionerNotFound.
type PractitionerStore interface {
	Insert(ctx context.Context, p Practitioner) error
	Get(ctx context.Context, id string) (Practitioner, error)
	List(ctx context.Context) ([]Practitioner, error)
	Len(ctx context.Context) int
}
