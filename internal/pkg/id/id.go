package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, collision-resistant, and safe for use both as DynamoDB
// partition keys and as the unique segment of storage keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
