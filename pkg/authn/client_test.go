package authn

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects listener calls.
type recorder struct {
	mu    sync.Mutex
	calls []*Identity
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) listen(id *Identity) {
	r.mu.Lock()
	r.calls = append(r.calls, id)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("listener was not called")
	}
}

func (r *recorder) last() *Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestClientResolvesAnonymous(t *testing.T) {
	c := NewClient(NewMemoryProvider())
	rec := newRecorder()

	unsubscribe := c.OnAuthStateChanged(rec.listen)
	defer unsubscribe()

	rec.wait(t)
	assert.Nil(t, rec.last())
	assert.Nil(t, c.CurrentUser())
}

func TestClientRestoresFromIDToken(t *testing.T) {
	p := NewMemoryProvider()
	cred, err := p.SignUp(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	c := NewClient(p, WithIDToken(cred.IDToken), WithRefreshToken(cred.RefreshToken))
	rec := newRecorder()
	c.OnAuthStateChanged(rec.listen)

	rec.wait(t)
	require.NotNil(t, rec.last())
	assert.Equal(t, "ada@example.com", rec.last().Email)

	idToken, refreshToken := c.Tokens()
	assert.Equal(t, cred.IDToken, idToken)
	assert.Equal(t, cred.RefreshToken, refreshToken)
}

func TestClientFallsBackToRefreshToken(t *testing.T) {
	p := NewMemoryProvider()
	cred, err := p.SignUp(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	c := NewClient(p, WithIDToken("stale"), WithRefreshToken(cred.RefreshToken))
	rec := newRecorder()
	c.OnAuthStateChanged(rec.listen)

	rec.wait(t)
	require.NotNil(t, rec.last())
	idToken, refreshToken := c.Tokens()
	assert.NotEqual(t, "stale", idToken)
	assert.Equal(t, cred.RefreshToken, refreshToken)
}

func TestClientSignInNotifiesBeforeReturning(t *testing.T) {
	p := NewMemoryProvider()
	_, err := p.SignUp(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	c := NewClient(p)
	rec := newRecorder()
	c.OnAuthStateChanged(rec.listen)
	rec.wait(t)

	identity, err := c.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, 2, rec.count())
	assert.Equal(t, "ada@example.com", rec.last().Email)
}

func TestClientSignInFailureKeepsState(t *testing.T) {
	c := NewClient(NewMemoryProvider())
	_, err := c.SignIn(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, c.CurrentUser())
}

func TestClientUpdateProfileRequiresSignIn(t *testing.T) {
	c := NewClient(NewMemoryProvider())
	name := "Ada"
	_, err := c.UpdateProfile(context.Background(), Profile{DisplayName: &name})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestClientCreateUserThenUpdateProfile(t *testing.T) {
	c := NewClient(NewMemoryProvider())
	ctx := context.Background()

	_, err := c.CreateUser(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	_, refreshBefore := c.Tokens()

	name := "Ada Lovelace"
	identity, err := c.UpdateProfile(ctx, Profile{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", identity.DisplayName)
	assert.Equal(t, "Ada Lovelace", c.CurrentUser().DisplayName)

	_, refreshAfter := c.Tokens()
	assert.Equal(t, refreshBefore, refreshAfter)
}

func TestClientSignOutRevokesAndNotifies(t *testing.T) {
	p := NewMemoryProvider()
	c := NewClient(p)
	ctx := context.Background()

	_, err := c.CreateUser(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	_, refreshToken := c.Tokens()

	rec := newRecorder()
	c.OnAuthStateChanged(rec.listen)
	rec.wait(t) // immediate delivery of the signed-in state

	require.NoError(t, c.SignOut(ctx))
	assert.Nil(t, rec.last())
	assert.Nil(t, c.CurrentUser())

	_, err = p.Refresh(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type failingRevoke struct {
	*MemoryProvider
}

func (failingRevoke) Revoke(context.Context, string) error {
	return errors.New("network down")
}

func TestClientSignOutPropagatesFailure(t *testing.T) {
	c := NewClient(failingRevoke{NewMemoryProvider()})
	ctx := context.Background()

	_, err := c.CreateUser(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	assert.Error(t, c.SignOut(ctx))
	assert.NotNil(t, c.CurrentUser())
}

func TestClientUnsubscribeStopsNotifications(t *testing.T) {
	c := NewClient(NewMemoryProvider())
	rec := newRecorder()

	unsubscribe := c.OnAuthStateChanged(rec.listen)
	rec.wait(t)
	unsubscribe()
	unsubscribe()

	_, err := c.CreateUser(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
}
