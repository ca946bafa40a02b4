package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmalink/pos/domain"
	"pharmalink/pos/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	raw, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestCurrentEmptyStore(t *testing.T) {
	s := testStore(t)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSaveAndCurrent(t *testing.T) {
	s := testStore(t)
	user := domain.User{Username: "amina", PharmacyName: "City Pharmacy"}
	require.NoError(t, s.Save("opaque-token", user))

	sess, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "opaque-token", sess.Token)
	assert.Equal(t, user, sess.User)
}

func TestSaveReplacesExisting(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save("first", domain.User{Username: "a"}))
	require.NoError(t, s.Save("second", domain.User{Username: "b"}))

	sess, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "second", sess.Token)
	assert.Equal(t, "b", sess.User.Username)
}

func TestClearNotifiesSubscribers(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save("tok", domain.User{}))

	fired := 0
	s.Subscribe(func() { fired++ })
	require.NoError(t, s.Clear())

	assert.Equal(t, 1, fired)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestExpiredTokenTreatedAsAbsent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(signedToken(t, time.Now().Add(-time.Hour)), domain.User{Username: "stale"}))

	_, ok := s.Current()
	assert.False(t, ok)

	// The stale row is gone, not just masked.
	require.NoError(t, s.Save(signedToken(t, time.Now().Add(time.Hour)), domain.User{Username: "fresh"}))
	sess, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "fresh", sess.User.Username)
}

func TestLiveTokenPasses(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(signedToken(t, time.Now().Add(time.Hour)), domain.User{}))

	_, ok := s.Current()
	assert.True(t, ok)
}

func TestOpaqueTokenNeverExpires(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save("not-a-jwt-at-all", domain.User{}))

	_, ok := s.Current()
	assert.True(t, ok)
}
