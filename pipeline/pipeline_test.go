package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/authkit/auth/authctx"
	"github.com/kbukum/authkit/auth/jwt"
	"github.com/kbukum/authkit/auth/password"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/identity/memory"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/pipeline"
)

const testSecret = "pipeline-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// syncBuffer is a log sink safe for concurrent handlers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	engine *gin.Engine
	store  identity.Store
	tokens *jwt.Service
	logs   *syncBuffer
}

type option func(*pipeline.Config)

func withStore(s identity.Store) option { return func(c *pipeline.Config) { c.Store = s } }
func uniform() option                   { return func(c *pipeline.Config) { c.UniformLoginFailure = true } }
func normalized() option                { return func(c *pipeline.Config) { c.Normalize = true } }
func header(h string) option            { return func(c *pipeline.Config) { c.TokenHeader = h } }

func newTokens(t *testing.T, secret string, opts ...jwt.Option) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewService(&jwt.Config{Secret: secret}, opts...)
	if err != nil {
		t.Fatalf("jwt.NewService: %v", err)
	}
	return svc
}

func newHarness(t *testing.T, fields []string, opts ...option) *harness {
	t.Helper()
	spec := identity.MustSpec(fields...)
	logs := &syncBuffer{}

	cfg := pipeline.Config{
		Spec:   spec,
		Store:  memory.New(spec),
		Tokens: newTokens(t, testSecret),
		Hasher: password.NewBcryptHasher(password.WithCost(bcrypt.MinCost)),
		Logger: logger.New(&logger.Config{Level: "debug", Format: "json", Writer: logs}, "authkit"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := pipeline.New(cfg)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	r := gin.New()
	g := r.Group("/auth")
	a.Mount(g)
	g.GET("/me", a.Guard(), func(c *gin.Context) {
		subject, _ := pipeline.Subject(c)
		fromCtx, _ := authctx.Subject(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"subject": subject, "ctx_subject": fromCtx})
	})

	return &harness{engine: r, store: cfg.Store, tokens: cfg.Tokens.(*jwt.Service), logs: logs}
}

func (h *harness) post(t *testing.T, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.engine.ServeHTTP(rr, req)
	return rr
}

func (h *harness) me(t *testing.T, hdr, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if hdr != "" {
		req.Header.Set(hdr, value)
	}
	rr := httptest.NewRecorder()
	h.engine.ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Field  string `json:"field"`
			Reason string `json:"reason"`
			Fields []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body
}

func decodeToken(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body pipeline.TokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode token body %q: %v", rr.Body.String(), err)
	}
	if body.Token == "" {
		t.Fatalf("empty token in %q", rr.Body.String())
	}
	return body.Token
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Assembler
// ---------------------------------------------------------------------------

func TestNewRequiresDependencies(t *testing.T) {
	_, err := pipeline.New(pipeline.Config{})
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	for _, want := range []string{"identity spec", "store", "token service", "password hasher"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	spec := identity.MustSpec("email")
	a, err := pipeline.New(pipeline.Config{
		Spec:   spec,
		Store:  memory.New(spec),
		Tokens: newTokens(t, testSecret),
		Hasher: password.NewBcryptHasher(password.WithCost(bcrypt.MinCost)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := a.Config().TokenHeader; got != pipeline.DefaultTokenHeader {
		t.Errorf("TokenHeader = %q, want %q", got, pipeline.DefaultTokenHeader)
	}
	if a.Config().Logger == nil {
		t.Error("Logger should default to a no-op logger")
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestRegisterIssuesTokenForStoredRecord(t *testing.T) {
	h := newHarness(t, []string{"email"})

	rr := h.post(t, "/auth/register", `{"email":"ann@example.com","password":"s3cret-pw","display_name":"Ann"}`)
	expectStatus(t, rr, http.StatusOK)
	token := decodeToken(t, rr)

	subject, err := h.tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	again, err := h.tokens.Verify(token)
	if err != nil || again != subject {
		t.Fatalf("second Verify = %q, %v; want %q", again, err, subject)
	}

	rec, err := h.store.FindByField(context.Background(), "email", "ann@example.com")
	if err != nil || rec == nil {
		t.Fatalf("FindByField = %v, %v", rec, err)
	}
	if rec.ID != subject {
		t.Errorf("token subject %q, record id %q", subject, rec.ID)
	}
	if rec.PasswordHash == "s3cret-pw" {
		t.Error("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("s3cret-pw")) != nil {
		t.Error("stored hash does not verify the password")
	}
	if rec.Profile["display_name"] != "Ann" {
		t.Errorf("profile = %v", rec.Profile)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name       string
		fields     []string
		body       string
		wantFields []string
	}{
		{"empty object", []string{"email"}, `{}`, []string{"email", "password"}},
		{"all identities listed", []string{"email", "username"}, `{"password":"pw"}`, []string{"email", "username"}},
		{"missing password", []string{"email", "username"}, `{"email":"a@b.c","username":"ann"}`, []string{"password"}},
		{"blank values", []string{"email"}, `{"email":"   ","password":""}`, []string{"email", "password"}},
		{"null identity", []string{"email"}, `{"email":null,"password":"pw"}`, []string{"email"}},
		{"structured identity", []string{"email"}, `{"email":{"a":1},"password":"pw"}`, []string{"email"}},
		{"numeric password", []string{"email"}, `{"email":"a@b.c","password":1234}`, []string{"password"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, tc.fields)
			rr := h.post(t, "/auth/register", tc.body)
			expectStatus(t, rr, http.StatusBadRequest)

			body := decodeError(t, rr)
			if body.Error.Code != "INVALID_INPUT" {
				t.Errorf("code = %s", body.Error.Code)
			}
			var got []string
			for _, f := range body.Error.Details.Fields {
				got = append(got, f.Field)
			}
			if strings.Join(got, ",") != strings.Join(tc.wantFields, ",") {
				t.Errorf("fields = %v, want %v", got, tc.wantFields)
			}
		})
	}
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	tests := []struct {
		name, body string
	}{
		{"not json", `email=a`},
		{"array", `["a","b"]`},
		{"empty", ``},
		{"truncated", `{"email":"a@b.c"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, []string{"email"})
			rr := h.post(t, "/auth/register", tc.body)
			expectStatus(t, rr, http.StatusBadRequest)
			if code := decodeError(t, rr).Error.Code; code != "INVALID_INPUT" {
				t.Errorf("code = %s", code)
			}
		})
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	h := newHarness(t, []string{"email"})
	body := `{"email":"a@b.c","password":"` + strings.Repeat("x", password.BcryptMaxBytes+1) + `"}`

	rr := h.post(t, "/auth/register", body)
	expectStatus(t, rr, http.StatusBadRequest)
	if msg := decodeError(t, rr).Error.Message; !strings.Contains(msg, "72 bytes") {
		t.Errorf("message = %q", msg)
	}
}

func TestRegisterDuplicateNamesField(t *testing.T) {
	h := newHarness(t, []string{"email"})
	expectStatus(t, h.post(t, "/auth/register", `{"email":"a@b.c","password":"pw-one"}`), http.StatusOK)

	rr := h.post(t, "/auth/register", `{"email":"a@b.c","password":"pw-two"}`)
	expectStatus(t, rr, http.StatusConflict)
	body := decodeError(t, rr)
	if body.Error.Details.Field != "email" || !strings.Contains(body.Error.Message, "email") {
		t.Errorf("conflict body = %+v", body.Error)
	}
}

func TestRegisterDuplicateSecondaryIdentity(t *testing.T) {
	h := newHarness(t, []string{"email", "username"})
	expectStatus(t, h.post(t, "/auth/register", `{"email":"a@b.c","username":"ann","password":"pw"}`), http.StatusOK)

	rr := h.post(t, "/auth/register", `{"email":"other@b.c","username":"ann","password":"pw"}`)
	expectStatus(t, rr, http.StatusConflict)
	if f := decodeError(t, rr).Error.Details.Field; f != "username" {
		t.Errorf("field = %q, want username", f)
	}
}

func TestRegisterNormalizesIdentities(t *testing.T) {
	h := newHarness(t, []string{"email"}, normalized())
	expectStatus(t, h.post(t, "/auth/register", `{"email":"  Ann@Example.COM ","password":"pw"}`), http.StatusOK)

	expectStatus(t, h.post(t, "/auth/register", `{"email":"ann@example.com","password":"pw"}`), http.StatusConflict)
	expectStatus(t, h.post(t, "/auth/login", `{"email":"ANN@example.com","password":"pw"}`), http.StatusOK)
}

// barrierStore holds every Create until n of them are waiting, so all
// callers pass the duplicate pre-check before any insert happens.
type barrierStore struct {
	identity.Store
	wg sync.WaitGroup
}

func newBarrierStore(inner identity.Store, n int) *barrierStore {
	b := &barrierStore{Store: inner}
	b.wg.Add(n)
	return b
}

func (b *barrierStore) Create(ctx context.Context, rec *identity.Record) (*identity.Record, error) {
	b.wg.Done()
	done := make(chan struct{})
	go func() { b.wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		return nil, errors.New("barrier timeout")
	}
	return b.Store.Create(ctx, rec)
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	spec := identity.MustSpec("email")
	store := newBarrierStore(memory.New(spec), 2)
	h := newHarness(t, []string{"email"}, withStore(store))

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"race@b.c","password":"pw"}`))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.engine.ServeHTTP(rr, req)
			codes[i] = rr.Code
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, c := range codes {
		counts[c]++
	}
	if counts[http.StatusOK] != 1 || counts[http.StatusConflict] != 1 {
		t.Errorf("status codes = %v, want one 200 and one 409", codes)
	}
}

// blindStore hides existing records from lookups until a Create reports an
// unnamed conflict, like a database that only surfaces a constraint name.
type blindStore struct {
	identity.Store
	mu    sync.Mutex
	blind bool
}

func (b *blindStore) FindByField(ctx context.Context, field, value string) (*identity.Record, error) {
	b.mu.Lock()
	blind := b.blind
	b.mu.Unlock()
	if blind {
		return nil, nil
	}
	return b.Store.FindByField(ctx, field, value)
}

func (b *blindStore) Create(context.Context, *identity.Record) (*identity.Record, error) {
	b.mu.Lock()
	b.blind = false
	b.mu.Unlock()
	return nil, &identity.ConflictError{}
}

func TestRegisterStoreConflictNamesTakenField(t *testing.T) {
	spec := identity.MustSpec("email", "username")
	inner := memory.New(spec)
	existing := identity.NewRecord(map[string]string{"email": "a@b.c", "username": "ann"}, "hash", nil)
	if _, err := inner.Create(context.Background(), existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := newHarness(t, []string{"email", "username"}, withStore(&blindStore{Store: inner, blind: true}))
	rr := h.post(t, "/auth/register", `{"email":"new@b.c","username":"ann","password":"pw"}`)
	expectStatus(t, rr, http.StatusConflict)
	if f := decodeError(t, rr).Error.Details.Field; f != "username" {
		t.Errorf("field = %q, want username", f)
	}
}

func TestRegisterStoreConflictFallsBackToPrimary(t *testing.T) {
	spec := identity.MustSpec("email", "username")
	h := newHarness(t, []string{"email", "username"}, withStore(&blindStore{Store: memory.New(spec)}))

	rr := h.post(t, "/auth/register", `{"email":"new@b.c","username":"ann","password":"pw"}`)
	expectStatus(t, rr, http.StatusConflict)
	if f := decodeError(t, rr).Error.Details.Field; f != "email" {
		t.Errorf("field = %q, want email", f)
	}
}

func TestSchemaAbsent(t *testing.T) {
	spec := identity.MustSpec("email")
	h := newHarness(t, []string{"email"}, withStore(memory.New(spec, memory.WithUnprovisioned())))

	for _, path := range []string{"/auth/register", "/auth/login"} {
		t.Run(path, func(t *testing.T) {
			rr := h.post(t, path, `{"email":"a@b.c","password":"pw"}`)
			expectStatus(t, rr, http.StatusNotFound)
			if code := decodeError(t, rr).Error.Code; code != "SCHEMA_ABSENT" {
				t.Errorf("code = %s", code)
			}
		})
	}
}

// failingStore fails every call.
type failingStore struct{ err error }

func (f failingStore) Exists(context.Context) (bool, error) { return false, f.err }
func (f failingStore) FindByField(context.Context, string, string) (*identity.Record, error) {
	return nil, f.err
}
func (f failingStore) Create(context.Context, *identity.Record) (*identity.Record, error) {
	return nil, f.err
}

func TestStoreFailureIsInternal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"unexpected", errors.New("checksum mismatch on db-7"), "INTERNAL_ERROR"},
		{"unavailable", fmt.Errorf("%w: connection refused to db-7", identity.ErrUnavailable), "DATABASE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, []string{"email"}, withStore(failingStore{err: tt.err}))

			rr := h.post(t, "/auth/register", `{"email":"a@b.c","password":"pw"}`)
			expectStatus(t, rr, http.StatusInternalServerError)
			if code := decodeError(t, rr).Error.Code; code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if strings.Contains(rr.Body.String(), "db-7") {
				t.Error("store error leaked to the client")
			}
			if !strings.Contains(h.logs.String(), "db-7") {
				t.Error("store error should be logged")
			}
			if !strings.Contains(h.logs.String(), `"stage":"schema"`) {
				t.Errorf("failure log should name the stage:\n%s", h.logs.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	h := newHarness(t, []string{"email", "username"})
	rr := h.post(t, "/auth/register", `{"email":"a@b.c","username":"ann","password":"right-pw"}`)
	expectStatus(t, rr, http.StatusOK)
	registered, _ := h.tokens.Verify(decodeToken(t, rr))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"primary identity only", `{"email":"a@b.c","password":"right-pw"}`, http.StatusOK, ""},
		{"wrong password", `{"email":"a@b.c","password":"wrong-pw"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown identity", `{"email":"nobody@b.c","password":"right-pw"}`, http.StatusNotFound, "NOT_FOUND"},
		{"missing password", `{"email":"a@b.c"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing primary", `{"username":"ann","password":"right-pw"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.post(t, "/auth/login", tc.body)
			expectStatus(t, rr, tc.wantStatus)
			if tc.wantCode == "" {
				subject, err := h.tokens.Verify(decodeToken(t, rr))
				if err != nil || subject != registered {
					t.Errorf("login subject = %q, %v; want %q", subject, err, registered)
				}
				return
			}
			if code := decodeError(t, rr).Error.Code; code != tc.wantCode {
				t.Errorf("code = %s, want %s", code, tc.wantCode)
			}
		})
	}
}

func TestLoginUniformFailure(t *testing.T) {
	h := newHarness(t, []string{"email"}, uniform())
	expectStatus(t, h.post(t, "/auth/register", `{"email":"a@b.c","password":"right-pw"}`), http.StatusOK)

	unknown := h.post(t, "/auth/login", `{"email":"nobody@b.c","password":"right-pw"}`)
	wrong := h.post(t, "/auth/login", `{"email":"a@b.c","password":"wrong-pw"}`)

	expectStatus(t, unknown, http.StatusUnauthorized)
	expectStatus(t, wrong, http.StatusUnauthorized)
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", unknown.Body.String(), wrong.Body.String())
	}
	if code := decodeError(t, wrong).Error.Code; code != "INVALID_CREDENTIALS" {
		t.Errorf("code = %s", code)
	}
	expectStatus(t, h.post(t, "/auth/login", `{"email":"a@b.c","password":"right-pw"}`), http.StatusOK)
}

func TestCredentialsNeverLogged(t *testing.T) {
	h := newHarness(t, []string{"email"})
	const secret = "hunter2-do-not-log"
	expectStatus(t, h.post(t, "/auth/register", `{"email":"a@b.c","password":"`+secret+`"}`), http.StatusOK)
	expectStatus(t, h.post(t, "/auth/login", `{"email":"a@b.c","password":"`+secret+`"}`), http.StatusOK)
	expectStatus(t, h.post(t, "/auth/login", `{"email":"a@b.c","password":"`+secret+`x"}`), http.StatusUnauthorized)

	logs := h.logs.String()
	if logs == "" {
		t.Fatal("expected some log output")
	}
	if strings.Contains(logs, secret) {
		t.Errorf("password found in logs:\n%s", logs)
	}
}

// ---------------------------------------------------------------------------
// Guard
// ---------------------------------------------------------------------------

func register(t *testing.T, h *harness) string {
	t.Helper()
	rr := h.post(t, "/auth/register", `{"email":"a@b.c","password":"pw"}`)
	expectStatus(t, rr, http.StatusOK)
	return decodeToken(t, rr)
}

func TestGuard(t *testing.T) {
	h := newHarness(t, []string{"email"})
	token := register(t, h)
	subject, _ := h.tokens.Verify(token)

	foreign, err := newTokens(t, "some-other-secret").Issue(subject)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expiredSvc := newTokens(t, testSecret, jwt.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	expired, err := jwt.NewService(&jwt.Config{Secret: testSecret, TTL: time.Hour}, jwt.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	expiredToken, err := expired.Issue(subject)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	oldButValid, err := expiredSvc.Issue(subject)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{"valid", token, http.StatusOK, "", ""},
		{"no expiry configured", oldButValid, http.StatusOK, "", ""},
		{"absent", "", http.StatusForbidden, "FORBIDDEN", ""},
		{"whitespace", "   ", http.StatusForbidden, "FORBIDDEN", ""},
		{"other secret", foreign, http.StatusUnauthorized, "INVALID_TOKEN", "signature_invalid"},
		{"garbage", "not.a.jwt", http.StatusUnauthorized, "INVALID_TOKEN", "malformed"},
		{"expired", expiredToken, http.StatusUnauthorized, "TOKEN_EXPIRED", "expired"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hdr := pipeline.DefaultTokenHeader
			if tc.token == "" {
				hdr = ""
			}
			rr := h.me(t, hdr, tc.token)
			expectStatus(t, rr, tc.wantStatus)
			if tc.wantCode == "" {
				var body map[string]string
				if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body["subject"] != subject || body["ctx_subject"] != subject {
					t.Errorf("subject = %v, want %q", body, subject)
				}
				return
			}
			body := decodeError(t, rr)
			if body.Error.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", body.Error.Code, tc.wantCode)
			}
			if body.Error.Details.Reason != tc.wantReason {
				t.Errorf("reason = %q, want %q", body.Error.Details.Reason, tc.wantReason)
			}
		})
	}
}

func TestGuardAuthorizationHeader(t *testing.T) {
	h := newHarness(t, []string{"email"}, header("Authorization"))
	token := register(t, h)

	expectStatus(t, h.me(t, "Authorization", "Bearer "+token), http.StatusOK)
	expectStatus(t, h.me(t, "Authorization", "bearer "+token), http.StatusOK)
	expectStatus(t, h.me(t, "Authorization", token), http.StatusOK)
	expectStatus(t, h.me(t, "token", token), http.StatusForbidden)

	for _, scheme := range []string{"Bearer ", "Bearer", "bearer   "} {
		rr := h.me(t, "Authorization", scheme)
		if rr.Code != http.StatusForbidden {
			t.Errorf("Authorization %q = %d, want 403 for a scheme without a token", scheme, rr.Code)
		}
	}
	expectStatus(t, h.me(t, "Authorization", "Bearer garbage"), http.StatusUnauthorized)
}
