package session

import (
	"context"
	"errors"
	"testing"

	"herohub/internal/domain/authz"
)

type stubBackend struct {
	loginResult   LoginResult
	loginErr      error
	profile       *Identity
	profileErr    error
	logoutErr     error
	loginCalls    int
	logoutCalls   int
	profileCalls  int
	lastLoginCred Credentials
}

func (b *stubBackend) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	b.loginCalls++
	b.lastLoginCred = creds
	return b.loginResult, b.loginErr
}

func (b *stubBackend) Logout(ctx context.Context, token string) error {
	b.logoutCalls++
	return b.logoutErr
}

func (b *stubBackend) FetchProfile(ctx context.Context, token string) (*Identity, error) {
	b.profileCalls++
	if b.profileErr != nil {
		return nil, b.profileErr
	}
	return b.profile.clone(), nil
}

type memStorage struct {
	stored  *PersistedSession
	loadErr error
	saveErr error
}

func (m *memStorage) Load() (*PersistedSession, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.stored, nil
}

func (m *memStorage) Save(s *PersistedSession) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = s
	return nil
}

func (m *memStorage) Clear() error {
	m.stored = nil
	return nil
}

func testIdentity() *Identity {
	return &Identity{
		ID:          "u1",
		TenantID:    "t1",
		DisplayName: "Deniz Aksoy",
		Email:       "deniz@example.com",
		Role:        authz.RoleEmployee,
		Permissions: authz.ModulePermissionSet{
			authz.ModuleLeaveRequests: {CanRead: true},
		},
	}
}

func TestInitializeNoStoredSession(t *testing.T) {
	backend := &stubBackend{}
	provider := NewProvider(backend, &memStorage{})

	if got := provider.Initialize(context.Background()); got != StateUnauthenticated {
		t.Fatalf("state = %s, want unauthenticated", got)
	}
	if backend.profileCalls != 0 {
		t.Fatal("no profile fetch expected without a stored token")
	}
	if provider.Current() != nil {
		t.Fatal("expected no identity")
	}
}

func TestInitializeRestoresSession(t *testing.T) {
	backend := &stubBackend{profile: testIdentity()}
	storage := &memStorage{stored: &PersistedSession{Token: "tok-1", UserID: "u1"}}
	provider := NewProvider(backend, storage)

	if got := provider.Initialize(context.Background()); got != StateAuthenticated {
		t.Fatalf("state = %s, want authenticated", got)
	}
	if backend.profileCalls != 1 {
		t.Fatalf("profile fetched %d times, want exactly one", backend.profileCalls)
	}
	ident := provider.Current()
	if ident == nil || ident.ID != "u1" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if provider.Token() != "tok-1" {
		t.Fatalf("token = %q", provider.Token())
	}
}

func TestInitializeFailuresAreSilent(t *testing.T) {
	cases := []struct {
		name    string
		storage *memStorage
		backend *stubBackend
	}{
		{"load error", &memStorage{loadErr: errors.New("disk gone")}, &stubBackend{}},
		{"empty token", &memStorage{stored: &PersistedSession{}}, &stubBackend{}},
		{"profile fetch fails", &memStorage{stored: &PersistedSession{Token: "tok"}}, &stubBackend{profileErr: errors.New("network down")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := NewProvider(tc.backend, tc.storage)
			if got := provider.Initialize(context.Background()); got != StateUnauthenticated {
				t.Fatalf("state = %s, want unauthenticated", got)
			}
			if provider.Current() != nil {
				t.Fatal("no identity may leak out of a failed restore")
			}
		})
	}
}

func TestInitializeKeepsStoredTokenOnNetworkFailure(t *testing.T) {
	storage := &memStorage{stored: &PersistedSession{Token: "tok"}}
	provider := NewProvider(&stubBackend{profileErr: errors.New("timeout")}, storage)
	provider.Initialize(context.Background())
	if storage.stored == nil {
		t.Fatal("transient restore failure must not discard the stored session")
	}
}

func TestLoginSuccess(t *testing.T) {
	backend := &stubBackend{loginResult: LoginResult{Token: "tok-2", Identity: testIdentity()}}
	storage := &memStorage{}
	provider := NewProvider(backend, storage)
	provider.Initialize(context.Background())

	ident, err := provider.Login(context.Background(), Credentials{Email: "deniz@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if provider.State() != StateAuthenticated {
		t.Fatalf("state = %s", provider.State())
	}
	if ident.ID != "u1" {
		t.Fatalf("identity = %+v", ident)
	}
	if backend.profileCalls != 0 {
		t.Fatal("permissions arrived with login, no profile fetch expected")
	}
	if storage.stored == nil || storage.stored.Token != "tok-2" {
		t.Fatalf("session not persisted: %+v", storage.stored)
	}
}

func TestLoginFetchesMissingPermissions(t *testing.T) {
	bare := testIdentity()
	bare.Permissions = nil
	backend := &stubBackend{
		loginResult: LoginResult{Token: "tok", Identity: bare},
		profile:     testIdentity(),
	}
	provider := NewProvider(backend, &memStorage{})

	ident, err := provider.Login(context.Background(), Credentials{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if backend.profileCalls != 1 {
		t.Fatalf("profile fetched %d times, want exactly one", backend.profileCalls)
	}
	if !ident.Permissions.CanRead(authz.ModuleLeaveRequests) {
		t.Fatal("permissions not populated")
	}
}

func TestLoginPermissionFetchFailureDegradesToEmptySet(t *testing.T) {
	bare := testIdentity()
	bare.Permissions = nil
	backend := &stubBackend{
		loginResult: LoginResult{Token: "tok", Identity: bare},
		profileErr:  errors.New("profile service down"),
	}
	provider := NewProvider(backend, &memStorage{})

	ident, err := provider.Login(context.Background(), Credentials{})
	if err != nil {
		t.Fatalf("login must still succeed: %v", err)
	}
	if provider.State() != StateAuthenticated {
		t.Fatalf("state = %s", provider.State())
	}
	if ident.Permissions.HasAny(authz.ModuleLeaveRequests) {
		t.Fatal("expected the conservative all-false set")
	}
}

func TestFailedLoginLeavesIdentityUntouched(t *testing.T) {
	backend := &stubBackend{loginResult: LoginResult{Token: "tok-1", Identity: testIdentity()}}
	provider := NewProvider(backend, &memStorage{})
	evaluator := NewEvaluator(provider)

	if _, err := provider.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("first login: %v", err)
	}
	before := provider.Current()
	couldRead := evaluator.CanRead(authz.ModuleLeaveRequests)

	backend.loginErr = ErrInvalidCredentials
	if _, err := provider.Login(context.Background(), Credentials{Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	after := provider.Current()
	if provider.State() != StateAuthenticated {
		t.Fatalf("state = %s, previous session must survive", provider.State())
	}
	if after.ID != before.ID || after.Role != before.Role || !after.Permissions.Equal(before.Permissions) {
		t.Fatalf("identity changed across a failed login: %+v vs %+v", before, after)
	}
	if evaluator.CanRead(authz.ModuleLeaveRequests) != couldRead {
		t.Fatal("evaluator answers changed across a failed login")
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	backend := &stubBackend{
		loginResult: LoginResult{Token: "tok", Identity: testIdentity()},
		logoutErr:   errors.New("backend unreachable"),
	}
	storage := &memStorage{}
	provider := NewProvider(backend, storage)
	if _, err := provider.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	provider.Logout(context.Background())

	if provider.State() != StateUnauthenticated {
		t.Fatalf("state = %s", provider.State())
	}
	if provider.Current() != nil || provider.Token() != "" {
		t.Fatal("local state must clear even when backend invalidation fails")
	}
	if storage.stored != nil {
		t.Fatal("persisted session must be cleared")
	}
	if backend.logoutCalls != 1 {
		t.Fatal("backend logout should have been attempted")
	}
}

func TestRefreshReplacesPermissionsWholesale(t *testing.T) {
	backend := &stubBackend{loginResult: LoginResult{Token: "tok", Identity: testIdentity()}}
	provider := NewProvider(backend, &memStorage{})
	if _, err := provider.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	updated := testIdentity()
	updated.Permissions = authz.ModulePermissionSet{
		authz.ModulePDKS: {CanRead: true, CanWrite: true},
	}
	backend.profile = updated

	if err := provider.RefreshIdentity(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	ident := provider.Current()
	if ident.Permissions.CanRead(authz.ModuleLeaveRequests) {
		t.Fatal("old entries must not survive a refresh: replacement is wholesale, not a merge")
	}
	if !ident.Permissions.CanWrite(authz.ModulePDKS) {
		t.Fatal("refreshed permissions missing")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	backend := &stubBackend{loginResult: LoginResult{Token: "tok", Identity: testIdentity()}}
	provider := NewProvider(backend, &memStorage{})
	if _, err := provider.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}
	backend.profile = testIdentity()

	if err := provider.RefreshIdentity(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	once := provider.Current().Permissions
	if err := provider.RefreshIdentity(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	twice := provider.Current().Permissions
	if !once.Equal(twice) {
		t.Fatal("two refreshes against an unchanged profile must yield equal sets")
	}
}

func TestRefreshFailureKeepsPreviousIdentity(t *testing.T) {
	backend := &stubBackend{loginResult: LoginResult{Token: "tok", Identity: testIdentity()}}
	provider := NewProvider(backend, &memStorage{})
	if _, err := provider.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	backend.profileErr = errors.New("profile service down")
	if err := provider.RefreshIdentity(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if provider.State() != StateAuthenticated {
		t.Fatal("refresh failure must never downgrade to unauthenticated")
	}
	if !provider.Current().Permissions.CanRead(authz.ModuleLeaveRequests) {
		t.Fatal("previous permissions must remain in effect")
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	provider := NewProvider(&stubBackend{}, &memStorage{})
	if err := provider.RefreshIdentity(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestCurrentReturnsSnapshot(t *testing.T) {
	backend := &stubBackend{loginResult: LoginResult{Token: "tok", Identity: testIdentity()}}
	provider := NewProvider(backend, &memStorage{})
	if _, err := provider.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	snapshot := provider.Current()
	snapshot.Permissions[authz.ModuleAdminPanel] = authz.ModulePermission{CanRead: true, CanWrite: true, CanDelete: true}

	if provider.Current().Permissions.HasAny(authz.ModuleAdminPanel) {
		t.Fatal("mutating a snapshot must not affect the provider")
	}
}
