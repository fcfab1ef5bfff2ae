package models

// Record is implemented by every entity kept in a record collection.
// Key is the identity used for upsert and merge; for most kinds it is the
// id, for moods and habit entries it is the natural key.
type Record[T any] interface {
	Key() string
	WithOwner(owner string) T
	Normalize() T
}
