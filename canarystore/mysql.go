package canarystore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/letsencrypt/borp"
)

// canaryRow is the database row shape for encryption_key_canary. It's
// kept separate from CanaryRecord so the public type never has to carry
// borp/gorp's column-mapping concerns.
type canaryRow struct {
	ID             string `db:"id"`
	EncryptedValue []byte `db:"encrypted_value"`
	Nonce          []byte `db:"nonce"`
}

// MySQLStore is the relational implementation of Store: a single table
// `{id, encrypted_value, nonce}` as described in §6, accessed through
// borp the way the rest of this system's storage authority does.
type MySQLStore struct {
	dbMap *borp.DbMap
}

// NewMySQLStore wraps an already-opened database handle. Dialect,
// connection pooling, and credentials are the caller's concern.
func NewMySQLStore(dbMap *borp.DbMap) *MySQLStore {
	table := dbMap.AddTableWithName(canaryRow{}, "encryption_key_canary").SetKeys(false, "ID")
	table.ColMap("ID").Rename("id")
	table.ColMap("EncryptedValue").Rename("encrypted_value")
	table.ColMap("Nonce").Rename("nonce")
	return &MySQLStore{dbMap: dbMap}
}

func (s *MySQLStore) FindAll(ctx context.Context) ([]CanaryRecord, error) {
	var rows []canaryRow
	_, err := s.dbMap.Select(ctx, &rows, "SELECT id, encrypted_value, nonce FROM encryption_key_canary")
	if err != nil {
		return nil, fmt.Errorf("selecting canary records: %w", err)
	}

	out := make([]CanaryRecord, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parsing canary id %q: %w", r.ID, err)
		}
		out = append(out, CanaryRecord{ID: id, EncryptedValue: r.EncryptedValue, Nonce: r.Nonce})
	}
	return out, nil
}

func (s *MySQLStore) Save(ctx context.Context, record CanaryRecord) (CanaryRecord, error) {
	id := uuid.New()
	row := &canaryRow{
		ID:             id.String(),
		EncryptedValue: record.EncryptedValue,
		Nonce:          record.Nonce,
	}
	if err := s.dbMap.Insert(ctx, row); err != nil {
		return CanaryRecord{}, fmt.Errorf("inserting canary record: %w", err)
	}
	record.ID = id
	return record, nil
}

var _ Store = (*MySQLStore)(nil)
