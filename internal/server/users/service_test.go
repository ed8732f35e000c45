package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxy201/nexus-auth/internal/common"
)

// fakeHasher is a fast stand-in for the bcrypt hasher. It records whether
// the dummy path was taken so tests can assert the timing-safety behavior.
type fakeHasher struct {
	mu          sync.Mutex
	dummyCalled int
}

func (f *fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (f *fakeHasher) Verify(plaintext, hash string) bool { return hash == "hashed:"+plaintext }

func (f *fakeHasher) VerifyDummy(plaintext string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dummyCalled++
	return false
}

type failingHasher struct{ fakeHasher }

func (*failingHasher) Hash(string) (string, error) { return "", errors.New("rng failure") }

func newTestService() (*Service, *MemoryRepository, *fakeHasher) {
	repo := NewMemoryRepository()
	hasher := &fakeHasher{}
	return NewService(repo, hasher), repo, hasher
}

func TestSignUp_Success(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	user, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice123", user.Name)
	assert.Equal(t, "hashed:Passw0rd!", user.PasswordHash)
}

func TestSignUp_TakenName(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	_, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "alice123", "0therPassw0rd")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSignUp_ConcurrentDuplicate(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SignUp(ctx, "racer", "Passw0rd!")
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, common.ErrorAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestSignUp_HasherFailure(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryRepository(), &failingHasher{})
	_, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	created, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, _, hasher := newTestService()
	_, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice123", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Zero(t, hasher.dummyCalled, "known user must verify the stored hash")
}

func TestAuthenticate_UnknownUserBurnsDummyHash(t *testing.T) {
	t.Parallel()

	svc, _, hasher := newTestService()

	_, err := svc.Authenticate(context.Background(), "ghost", "Passw0rd!")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, 1, hasher.dummyCalled, "unknown user must still burn a verification")
}

func TestAuthenticate_ErrorsAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	_, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)

	_, errUnknown := svc.Authenticate(context.Background(), "ghost", "whatever")
	_, errWrongPw := svc.Authenticate(context.Background(), "alice123", "wrong")

	assert.Equal(t, errUnknown, errWrongPw, "both failure modes must yield the same error value")
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	created, err := svc.SignUp(context.Background(), "alice123", "Passw0rd!")
	require.NoError(t, err)

	public, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, public.Name)

	repo.Delete(created.ID)
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound, "deleted account must surface as not found")
}
