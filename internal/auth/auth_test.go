package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := InitSessionStore(strings.Repeat("0123456789abcdef", 4)); err != nil {
		panic(err)
	}
}

// carry builds a fresh request carrying the session cookies written to
// the previous response, the way a browser would.
func carry(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func newTestService(start time.Time) (*Service, *time.Time) {
	current := start
	svc := NewService(NewRegistry())
	svc.now = func() time.Time { return current }
	return svc, &current
}

func TestLoginThenCheck(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	w2 := httptest.NewRecorder()
	assert.True(t, svc.Check(w2, carry(w1)))
}

func TestCheckFailsForAnonymousSession(t *testing.T) {
	svc, _ := newTestService(time.Now())

	w := httptest.NewRecorder()
	assert.False(t, svc.Check(w, httptest.NewRequest("GET", "/", nil)))
}

func TestCheckSlidesExpiry(t *testing.T) {
	svc, now := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	// 4 hours in, still inside the 5-hour window; the check renews it.
	*now = now.Add(4 * time.Hour)
	w2 := httptest.NewRecorder()
	require.True(t, svc.Check(w2, carry(w1)))

	// 8 hours after login would have expired the original window, but
	// the renewal reset it.
	*now = now.Add(4 * time.Hour)
	w3 := httptest.NewRecorder()
	assert.True(t, svc.Check(w3, carry(w2)))
}

func TestCheckFailsAfterExpiry(t *testing.T) {
	svc, now := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	*now = now.Add(Window + time.Minute)
	w2 := httptest.NewRecorder()
	assert.False(t, svc.Check(w2, carry(w1)))

	// The failed check cleared the session; it stays invalid even if
	// the clock moved back inside the window.
	*now = now.Add(-2 * time.Hour)
	w3 := httptest.NewRecorder()
	assert.False(t, svc.Check(w3, carry(w2)))
}

func TestCheckRotatesNonce(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))
	first, ok := svc.Registry.Get("alice@example.com")
	require.True(t, ok)

	w2 := httptest.NewRecorder()
	require.True(t, svc.Check(w2, carry(w1)))
	second, ok := svc.Registry.Get("alice@example.com")
	require.True(t, ok)

	assert.NotEqual(t, first, second)
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	wA := httptest.NewRecorder()
	require.NoError(t, svc.Login(wA, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	// Same user signs in elsewhere; the nonce of record rotates.
	wB := httptest.NewRecorder()
	require.NoError(t, svc.Login(wB, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	wCheckA := httptest.NewRecorder()
	assert.False(t, svc.Check(wCheckA, carry(wA)))

	// The failed check on the stale session must not drop the nonce of
	// record for the newer one.
	_, ok := svc.Registry.Get("alice@example.com")
	require.True(t, ok)

	wCheckB := httptest.NewRecorder()
	assert.True(t, svc.Check(wCheckB, carry(wB)))
}

func TestStaleLogoutKeepsActiveSession(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	wA := httptest.NewRecorder()
	require.NoError(t, svc.Login(wA, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	wB := httptest.NewRecorder()
	require.NoError(t, svc.Login(wB, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	// Signing out with the superseded cookie clears that carrier only.
	wLogoutA := httptest.NewRecorder()
	svc.Logout(wLogoutA, carry(wA))

	wCheckB := httptest.NewRecorder()
	assert.True(t, svc.Check(wCheckB, carry(wB)))

	// Signing out with the live cookie drops the record for real.
	wLogoutB := httptest.NewRecorder()
	svc.Logout(wLogoutB, carry(wCheckB))
	_, ok := svc.Registry.Get("alice@example.com")
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	w2 := httptest.NewRecorder()
	svc.Logout(w2, carry(w1))

	_, ok := svc.Registry.Get("alice@example.com")
	assert.False(t, ok)

	w3 := httptest.NewRecorder()
	assert.False(t, svc.Check(w3, carry(w2)))

	// A second logout on the already-anonymous session is a no-op.
	w4 := httptest.NewRecorder()
	svc.Logout(w4, carry(w2))
}

func TestCurrentID(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w0 := httptest.NewRecorder()
	_, ok := svc.CurrentID(w0, httptest.NewRequest("GET", "/", nil))
	assert.False(t, ok)

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "UTC"))

	w2 := httptest.NewRecorder()
	uid, ok := svc.CurrentID(w2, carry(w1))
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", uid)
}

func TestLocation(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	w1 := httptest.NewRecorder()
	require.NoError(t, svc.Login(w1, httptest.NewRequest("GET", "/", nil), "alice@example.com", "Asia/Tokyo"))

	loc := svc.Location(carry(w1))
	assert.Equal(t, "Asia/Tokyo", loc.String())

	assert.Equal(t, time.UTC, svc.Location(httptest.NewRequest("GET", "/", nil)))
}
