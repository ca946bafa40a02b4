package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"

	"pharmalink/pos/domain"
)

// Session is the authenticated state every protected request reads: the
// bearer token plus the user record returned at login.
type Session struct {
	Token string
	User  domain.User
}

type sessionRow struct {
	Token    string `db:"token"`
	UserJSON string `db:"user_json"`
}

// Store persists the session in the local sqlite database so it survives
// terminal restarts, the way the original kept it in browser storage.
// Writable only by login/logout; subscribers are notified on clear.
type Store struct {
	db   *sqlx.DB
	subs []func()
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Current returns the stored session. An expired token counts as no
// session at all and is cleared on sight.
func (s *Store) Current() (Session, bool) {
	var row sessionRow
	err := s.db.Get(&row, `SELECT token, user_json FROM session WHERE id = 1`)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("session read error: %v", err)
		}
		return Session{}, false
	}
	if tokenExpired(row.Token) {
		_ = s.Clear()
		return Session{}, false
	}
	var user domain.User
	if err := json.Unmarshal([]byte(row.UserJSON), &user); err != nil {
		log.Printf("session user decode error: %v", err)
		return Session{}, false
	}
	return Session{Token: row.Token, User: user}, true
}

// Save replaces the stored session.
func (s *Store) Save(token string, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO session (id, token, user_json, saved_at) VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, saved_at = excluded.saved_at`,
		token, string(raw))
	return err
}

// Clear removes the session and notifies subscribers. Called by logout and
// by any 401 response.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	if err != nil {
		return err
	}
	for _, fn := range s.subs {
		fn()
	}
	return nil
}

// Subscribe registers a callback fired whenever the session is cleared.
func (s *Store) Subscribe(fn func()) {
	s.subs = append(s.subs, fn)
}

// tokenExpired parses the JWT claims without verifying the signature (the
// server owns verification) just to read the expiry. Opaque tokens pass.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
