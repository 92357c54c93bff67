package session

import (
	"github.com/digeex/raider/internal/errx"
)

// User is one credential record. Extra carries any additional fields
// (e-mail, nickname, TOTP seed) that Variable plugins may read.
type User struct {
	Username string
	Password string
	Extra    map[string]string
}

// ToMap flattens the user for Variable plugin lookups. "username" and
// "password" always win over Extra entries of the same name.
func (u *User) ToMap() map[string]string {
	out := make(map[string]string, len(u.Extra)+2)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["username"] = u.Username
	out["password"] = u.Password
	return out
}

// UserStore holds the configured users and tracks which one is active.
type UserStore struct {
	users  []*User
	active int
}

// NewUserStore creates a store with the first user active.
func NewUserStore(users []*User) *UserStore {
	return &UserStore{users: users}
}

// Len returns the number of users.
func (s *UserStore) Len() int { return len(s.users) }

// Active returns the active user, or nil when no users are configured.
func (s *UserStore) Active() *User {
	if s.active < 0 || s.active >= len(s.users) {
		return nil
	}
	return s.users[s.active]
}

// SetActive selects the active user by index.
func (s *UserStore) SetActive(index int) error {
	if index < 0 || index >= len(s.users) {
		return errx.With(ErrUnknownUser, ": index %d of %d users", index, len(s.users))
	}
	s.active = index
	return nil
}

// SetActiveByName selects the active user by username.
func (s *UserStore) SetActiveByName(username string) error {
	for i, u := range s.users {
		if u.Username == username {
			s.active = i
			return nil
		}
	}
	return errx.With(ErrUnknownUser, ": %q", username)
}
