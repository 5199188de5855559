package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// RoleMap maps collaborator user ids to their granted role. Stored as jsonb.
// The deck owner never appears in this map; ownership lives solely in the
// deck's owner_id column.
type RoleMap map[uuid.UUID]enums.DeckRole

func (m *RoleMap) Scan(src any) error {
	if src == nil {
		*m = RoleMap{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("RoleMap: unsupported Scan type %T", src)
	}

	if len(raw) == 0 {
		*m = RoleMap{}
		return nil
	}

	decoded := map[string]string{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("RoleMap: decode: %w", err)
	}

	out := make(RoleMap, len(decoded))
	for key, value := range decoded {
		id, err := uuid.Parse(key)
		if err != nil {
			return fmt.Errorf("RoleMap: parse key %q: %w", key, err)
		}
		role, err := enums.ParseDeckRole(value)
		if err != nil {
			return fmt.Errorf("RoleMap: %w", err)
		}
		out[id] = role
	}
	*m = out
	return nil
}

func (m RoleMap) Value() (driver.Value, error) {
	encoded := make(map[string]string, len(m))
	for id, role := range m {
		encoded[id.String()] = string(role)
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("RoleMap: encode: %w", err)
	}
	return string(raw), nil
}

// Clone returns an independent copy so a transaction can mutate the map
// without aliasing the loaded record.
func (m RoleMap) Clone() RoleMap {
	out := make(RoleMap, len(m))
	for id, role := range m {
		out[id] = role
	}
	return out
}

// UserIDs returns the collaborator ids present in the map.
func (m RoleMap) UserIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
