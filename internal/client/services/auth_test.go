package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/zerobalance/internal/client/apitest"
	"github.com/dmitrijs2005/zerobalance/internal/client/client"
	"github.com/dmitrijs2005/zerobalance/internal/client/credentials"
	"github.com/dmitrijs2005/zerobalance/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements client.Client for unit tests of the services.
type fakeClient struct {
	CloseErr error
	PingErr  error

	AuthRet   *models.AuthResponse
	SignupErr error
	LoginErr  error

	MeRet *models.User
	MeErr error

	ProfileRet *models.Profile
	ProfileMsg string
	ProfileErr error

	PasswordMsg string
	PasswordErr error

	StatsRet *models.ProfileStats
	StatsErr error

	// for argument checks
	LastName     string
	LastEmail    string
	LastPassword []byte
	LastMeToken  string
	MeCalls      int
	LastCurrent  []byte
	LastNext     []byte
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Signup(ctx context.Context, name, email string, password []byte) (*models.AuthResponse, error) {
	f.LastName, f.LastEmail = name, email
	f.LastPassword = append([]byte(nil), password...)
	return f.AuthRet, f.SignupErr
}

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error) {
	f.LastEmail = email
	f.LastPassword = append([]byte(nil), password...)
	return f.AuthRet, f.LoginErr
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) {
	f.MeCalls++
	f.LastMeToken = token
	return f.MeRet, f.MeErr
}

func (f *fakeClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, name string) (*models.Profile, string, error) {
	f.LastName = name
	return f.ProfileRet, f.ProfileMsg, f.ProfileErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, current, next []byte) (string, error) {
	f.LastCurrent = append([]byte(nil), current...)
	f.LastNext = append([]byte(nil), next...)
	return f.PasswordMsg, f.PasswordErr
}

func (f *fakeClient) GetProfileStats(ctx context.Context) (*models.ProfileStats, error) {
	return f.StatsRet, f.StatsErr
}

func (f *fakeClient) Health(ctx context.Context) (*models.Health, error) {
	if f.PingErr != nil {
		return nil, f.PingErr
	}
	return &models.Health{Status: "ok"}, nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

// failingStore is a credentials.Store whose operations fail on demand.
type failingStore struct {
	credentials.MemoryStore
	SaveErr  error
	ReadErr  error
	ClearErr error
}

func (s *failingStore) Save(ctx context.Context, token string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	return s.MemoryStore.Save(ctx, token)
}

func (s *failingStore) Read(ctx context.Context) (string, bool, error) {
	if s.ReadErr != nil {
		return "", false, s.ReadErr
	}
	return s.MemoryStore.Read(ctx)
}

func (s *failingStore) Clear(ctx context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	return s.MemoryStore.Clear(ctx)
}

// ---- helpers ----

func newAuth(fc *fakeClient, store credentials.Store) (AuthService, *credentials.Bearer) {
	b := credentials.NewBearer()
	return NewAuthService(fc, store, b, nil), b
}

func authResp(token string) *models.AuthResponse {
	return &models.AuthResponse{Token: token, User: &models.User{ID: 1, Name: "Ann", Email: "a@b.com"}}
}

func storedToken(t *testing.T, s credentials.Store) (string, bool) {
	t.Helper()
	tok, ok, err := s.Read(context.Background())
	require.NoError(t, err)
	return tok, ok
}

// ---- TESTS ----

func TestLogin_PersistsAndArmsToken(t *testing.T) {
	store := credentials.NewMemoryStore()
	fc := &fakeClient{AuthRet: authResp("t1")}
	svc, bearer := newAuth(fc, store)

	resp, err := svc.Login(context.Background(), "a@b.com", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "a@b.com", fc.LastEmail)
	assert.Equal(t, []byte("secret"), fc.LastPassword)

	tok, ok := storedToken(t, store)
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)

	armed, ok := bearer.Token()
	assert.True(t, ok)
	assert.Equal(t, "t1", armed)
	assert.True(t, svc.IsLoggedIn(context.Background()))
}

func TestLogin_ErrorLeavesNoCredential(t *testing.T) {
	store := credentials.NewMemoryStore()
	rejected := &client.HTTPError{Status: 401, Message: "invalid credentials", Kind: client.ErrValidation}
	svc, bearer := newAuth(&fakeClient{LoginErr: rejected}, store)

	_, err := svc.Login(context.Background(), "a@b.com", []byte("bad"))
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "invalid credentials", client.UserMessage(err, "fallback"))

	_, ok := storedToken(t, store)
	assert.False(t, ok)
	_, ok = bearer.Token()
	assert.False(t, ok)
}

func TestLogin_SaveErrorIsReturned(t *testing.T) {
	store := &failingStore{SaveErr: errors.New("disk full")}
	svc, bearer := newAuth(&fakeClient{AuthRet: authResp("t1")}, store)

	_, err := svc.Login(context.Background(), "a@b.com", []byte("x"))
	require.ErrorContains(t, err, "disk full")
	_, ok := bearer.Token()
	assert.False(t, ok)
}

func TestSignup_PersistsToken(t *testing.T) {
	store := credentials.NewMemoryStore()
	fc := &fakeClient{AuthRet: authResp("t2")}
	svc, _ := newAuth(fc, store)

	_, err := svc.Signup(context.Background(), "Ann", "a@b.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "Ann", fc.LastName)

	tok, _ := storedToken(t, store)
	assert.Equal(t, "t2", tok)
}

func TestSignup_ErrorWrapped(t *testing.T) {
	svc, _ := newAuth(&fakeClient{SignupErr: client.ErrServer}, credentials.NewMemoryStore())

	_, err := svc.Signup(context.Background(), "Ann", "a@b.com", []byte("pw"))
	require.ErrorIs(t, err, client.ErrServer)
	assert.ErrorContains(t, err, "signup:")
}

func TestLogout_ClearsWithoutNetwork(t *testing.T) {
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "t1"))
	fc := &fakeClient{}
	svc, bearer := newAuth(fc, store)
	bearer.Arm("t1")

	require.NoError(t, svc.Logout(context.Background()))

	_, ok := storedToken(t, store)
	assert.False(t, ok)
	_, ok = bearer.Token()
	assert.False(t, ok)
	assert.Zero(t, fc.MeCalls)
	assert.False(t, svc.IsLoggedIn(context.Background()))
}

func TestLogout_StoreErrorStillDisarms(t *testing.T) {
	store := &failingStore{ClearErr: errors.New("locked")}
	svc, bearer := newAuth(&fakeClient{}, store)
	bearer.Arm("t1")

	require.Error(t, svc.Logout(context.Background()))
	_, ok := bearer.Token()
	assert.False(t, ok)
}

func TestCurrentUser_NoCredential(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newAuth(fc, credentials.NewMemoryStore())

	_, err := svc.CurrentUser(context.Background())
	require.ErrorIs(t, err, client.ErrNotAuthenticated)
	assert.Zero(t, fc.MeCalls)
}

func TestCurrentUser_Success(t *testing.T) {
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "t1"))
	fc := &fakeClient{MeRet: &models.User{ID: 1, Name: "Ann"}}
	svc, bearer := newAuth(fc, store)

	u, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "t1", fc.LastMeToken)

	tok, ok := storedToken(t, store)
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)
	armed, _ := bearer.Token()
	assert.Equal(t, "t1", armed)
}

func TestCurrentUser_AnyFailureForgetsCredential(t *testing.T) {
	for _, kind := range []error{client.ErrSessionExpired, client.ErrNetwork, client.ErrServer} {
		t.Run(kind.Error(), func(t *testing.T) {
			store := credentials.NewMemoryStore()
			require.NoError(t, store.Save(context.Background(), "t1"))
			svc, bearer := newAuth(&fakeClient{MeErr: &client.HTTPError{Kind: kind}}, store)

			_, err := svc.CurrentUser(context.Background())
			require.ErrorIs(t, err, kind)

			_, ok := storedToken(t, store)
			assert.False(t, ok)
			_, ok = bearer.Token()
			assert.False(t, ok)
		})
	}
}

func TestCurrentUser_ReadError(t *testing.T) {
	store := &failingStore{ReadErr: errors.New("corrupt")}
	svc, _ := newAuth(&fakeClient{}, store)

	_, err := svc.CurrentUser(context.Background())
	require.ErrorContains(t, err, "corrupt")
}

func TestInitializeAuth(t *testing.T) {
	store := credentials.NewMemoryStore()
	svc, bearer := newAuth(&fakeClient{}, store)

	ok, err := svc.InitializeAuth(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(context.Background(), "persisted"))
	ok, err = svc.InitializeAuth(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	armed, _ := bearer.Token()
	assert.Equal(t, "persisted", armed)
}

func TestPingAndClose_Proxy(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrNetwork, CloseErr: errors.New("close")}
	svc, _ := newAuth(fc, credentials.NewMemoryStore())

	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrNetwork)
	require.EqualError(t, svc.Close(context.Background()), "close")
}

func TestAuthService_AgainstBackend(t *testing.T) {
	srv := apitest.NewServer(t)
	bearer := credentials.NewBearer()
	c, err := client.NewHTTPClient(srv.URL, client.WithHTTPClient(srv.Client()), client.WithTokenSource(bearer))
	require.NoError(t, err)
	store := credentials.NewMemoryStore()
	svc := NewAuthService(c, store, bearer, nil)
	ctx := context.Background()

	_, err = svc.Signup(ctx, "Ann", "a@b.com", []byte("secret"))
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	_, err = svc.Signup(ctx, "Ann", "a@b.com", []byte("secret"))
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "Email already in use", client.UserMessage(err, ""))

	require.NoError(t, store.Save(ctx, srv.ExpiredTokenFor(u.ID)))
	_, err = svc.CurrentUser(ctx)
	require.ErrorIs(t, err, client.ErrSessionExpired)
	assert.False(t, svc.IsLoggedIn(ctx))
}
