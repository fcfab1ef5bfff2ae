// Package remote defines the optional remote mirror that local collections
// are copied to, and the session that resolves who owns the mirrored rows.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/lifelog/internal/constants"
)

// Mirror is a remote row store partitioned by owner. Each row is a raw
// JSON record addressed by (table, owner, id).
type Mirror interface {
	// WhoAmI returns the identity the connection is authenticated as.
	WhoAmI(ctx context.Context) (string, error)
	FetchAll(ctx context.Context, table, owner string) ([]json.RawMessage, error)
	Upsert(ctx context.Context, table, owner, id string, data json.RawMessage) error
	Delete(ctx context.Context, table, owner, id string) error
	Close() error
}

// ValidateTable rejects table names outside the known collections so
// backends can safely build identifiers from them.
func ValidateTable(table string) error {
	for _, t := range constants.RemoteTables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("unknown remote table %q", table)
}
