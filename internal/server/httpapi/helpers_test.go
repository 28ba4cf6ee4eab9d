package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	identities map[string]models.Identity
	authErr    error

	registerSess *models.Session
	registerErr  error
	loginSess    *models.Session
	loginErr     error

	mu        sync.Mutex
	lastEmail string
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.Identity, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	id, ok := f.identities[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return &id, nil
}

func (f *fakeUsers) Register(_ context.Context, email, _ string) (*models.Session, error) {
	f.mu.Lock()
	f.lastEmail = email
	f.mu.Unlock()
	return f.registerSess, f.registerErr
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (*models.Session, error) {
	f.mu.Lock()
	f.lastEmail = email
	f.mu.Unlock()
	return f.loginSess, f.loginErr
}

// fakeTasks records the owner of every call and answers from fixed values.
type fakeTasks struct {
	mu     sync.Mutex
	owners []string
	patch  models.TaskPatch

	task *models.Task
	list []*models.Task
	err  error
}

func (f *fakeTasks) record(owner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners = append(f.owners, owner)
}

func (f *fakeTasks) Create(_ context.Context, ownerID, title string, description *string) (*models.Task, error) {
	f.record(ownerID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Task{ID: "t1", UserID: ownerID, Title: title, Description: description}, nil
}

func (f *fakeTasks) List(_ context.Context, ownerID string) ([]*models.Task, error) {
	f.record(ownerID)
	return f.list, f.err
}

func (f *fakeTasks) Get(_ context.Context, _, ownerID string) (*models.Task, error) {
	f.record(ownerID)
	return f.task, f.err
}

func (f *fakeTasks) Update(_ context.Context, _, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	f.record(ownerID)
	f.mu.Lock()
	f.patch = patch
	f.mu.Unlock()
	return f.task, f.err
}

func (f *fakeTasks) Delete(_ context.Context, _, ownerID string) (*models.Task, error) {
	f.record(ownerID)
	return f.task, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

const (
	aliceToken = "alice-token"
	taskUUID   = "3f0c7a52-8f61-4c55-9a0e-4a5ff7ad3d11"
)

var alice = models.Identity{ID: "alice-id", Email: "alice@example.com"}

func newTestEcho(t *testing.T, users UserService, tasks TaskService, store Pinger) (*echo.Echo, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	return NewEcho(logging.New(logging.FormatText, &logs), users, tasks, store), &logs
}

func defaultUsers() *fakeUsers {
	return &fakeUsers{identities: map[string]models.Identity{aliceToken: alice}}
}

func doRequest(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, env testEnvelope, v any) {
	t.Helper()
	require.NotEmpty(t, env.Data)
	require.NoError(t, sonic.Unmarshal(env.Data, v))
}
