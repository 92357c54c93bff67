package session

import (
	"database/sql"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/storedb"
)

// snapshot is the persisted session form. Cookie expiry times are
// carried as unix seconds so the encoding stays byte-stable across
// timezones and monotonic-clock noise.
type snapshot struct {
	Cookies []snapshotCookie  `cbor:"cookies"`
	Values  map[string]string `cbor:"values"`
}

type snapshotCookie struct {
	Domain   string `cbor:"domain"`
	Path     string `cbor:"path"`
	Name     string `cbor:"name"`
	Value    string `cbor:"value"`
	Secure   bool   `cbor:"secure"`
	HostOnly bool   `cbor:"host_only"`
	Expires  int64  `cbor:"expires"`
}

var snapshotEnc cbor.EncMode

func init() {
	var err error
	snapshotEnc, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Dump serialises the jar and value store. Identical state always
// yields identical bytes: cookies are sorted by (domain, path, name)
// and the encoding is canonical CBOR with sorted map keys.
func (s *Session) Dump() ([]byte, error) {
	live := s.jar.All()
	cookies := make([]snapshotCookie, len(live))
	for i, c := range live {
		sc := snapshotCookie{
			Domain:   c.Domain,
			Path:     c.Path,
			Name:     c.Name,
			Value:    c.Value,
			Secure:   c.Secure,
			HostOnly: c.HostOnly,
		}
		if !c.Expires.IsZero() {
			sc.Expires = c.Expires.Unix()
		}
		cookies[i] = sc
	}

	data, err := snapshotEnc.Marshal(snapshot{
		Cookies: cookies,
		Values:  s.store.Snapshot(),
	})
	if err != nil {
		return nil, errx.Wrap(ErrSnapshot, err)
	}
	return data, nil
}

// Restore replaces the jar and value store with a dumped snapshot.
func (s *Session) Restore(data []byte) error {
	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return errx.Wrap(ErrRestore, err)
	}

	s.jar.Clear()
	for _, sc := range snap.Cookies {
		c := Cookie{
			Domain:   sc.Domain,
			Path:     sc.Path,
			Name:     sc.Name,
			Value:    sc.Value,
			Secure:   sc.Secure,
			HostOnly: sc.HostOnly,
		}
		if sc.Expires != 0 {
			c.Expires = time.Unix(sc.Expires, 0)
		}
		s.jar.Put(c)
	}
	s.store.Replace(snap.Values)
	return nil
}

var slotMigrations = []storedb.Migration{
	{
		Version: 1,
		Name:    "create_sessions",
		SQL: `
CREATE TABLE sessions (
  slot TEXT PRIMARY KEY,
  data BLOB NOT NULL,
  saved_at TEXT NOT NULL
);`,
	},
}

// SlotStore keeps named session snapshots in a sqlite database, so a
// run can be resumed later or handed to another tool.
type SlotStore struct {
	db *sql.DB
}

// OpenSlotStore opens (creating if needed) the snapshot database.
func OpenSlotStore(path string) (*SlotStore, error) {
	db, err := storedb.Open(storedb.OpenOptions{
		Path:       path,
		Module:     "sessions",
		Migrations: slotMigrations,
	})
	if err != nil {
		return nil, errx.Wrap(ErrSlotStore, err)
	}
	return &SlotStore{db: db}, nil
}

// Save writes a snapshot under the given slot, replacing any previous
// one.
func (st *SlotStore) Save(slot string, data []byte) error {
	_, err := st.db.Exec(`
INSERT INTO sessions (slot, data, saved_at) VALUES (?, ?, ?)
ON CONFLICT (slot) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		slot, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errx.Wrap(ErrSlotStore, err)
	}
	return nil
}

// Load reads the snapshot stored under slot.
func (st *SlotStore) Load(slot string) ([]byte, error) {
	var data []byte
	err := st.db.QueryRow(`SELECT data FROM sessions WHERE slot = ?`, slot).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errx.With(ErrSlotNotFound, ": %q", slot)
	}
	if err != nil {
		return nil, errx.Wrap(ErrSlotStore, err)
	}
	return data, nil
}

// List returns the stored slot names in sorted order.
func (st *SlotStore) List() ([]string, error) {
	rows, err := st.db.Query(`SELECT slot FROM sessions ORDER BY slot`)
	if err != nil {
		return nil, errx.Wrap(ErrSlotStore, err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, errx.Wrap(ErrSlotStore, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Wrap(ErrSlotStore, err)
	}
	return slots, nil
}

// Delete removes a slot. Deleting an absent slot is not an error.
func (st *SlotStore) Delete(slot string) error {
	if _, err := st.db.Exec(`DELETE FROM sessions WHERE slot = ?`, slot); err != nil {
		return errx.Wrap(ErrSlotStore, err)
	}
	return nil
}

// Close closes the underlying database.
func (st *SlotStore) Close() error {
	return st.db.Close()
}
