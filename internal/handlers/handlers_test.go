package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/dto"
	"github.com/yukikurage/crewdesk-api/internal/middleware"
	"github.com/yukikurage/crewdesk-api/internal/services"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

type stubDistiller struct {
	result services.Distillation
	err    error
}

func (s *stubDistiller) Distill(_ context.Context, _ string) (services.Distillation, error) {
	return s.result, s.err
}

var errBoom = errors.New("boom")

type handlerTestEnv struct {
	router    *gin.Engine
	distiller *stubDistiller
	tenantID  string
}

// client carries the session cookies of one signed-in user.
type client struct {
	env     *handlerTestEnv
	cookies []*http.Cookie
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.New(nil)
	c := clock.NewFixed(time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))
	newID := clock.Sequence("id")
	distiller := &stubDistiller{result: services.Distillation{
		SuggestedTitle: "Restock shelves",
		Steps:          []string{"Count stock", "Place order"},
	}}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.Use(middleware.RequestID())
	RegisterRoutes(r, Handlers{
		Auth:         NewAuthHandler(services.NewAuthService(s, c, newID)),
		Directory:    NewDirectoryHandler(services.NewDirectoryService(s, newID, "changeme")),
		Task:         NewTaskHandler(services.NewTaskService(s, distiller, c, newID, time.Second)),
		Notification: NewNotificationHandler(services.NewNotificationService(s)),
	})

	return &handlerTestEnv{router: r, distiller: distiller}
}

func (env *handlerTestEnv) anonymous() *client {
	return &client{env: env}
}

// register opens the "Acme" workspace and returns its signed-in admin.
func (env *handlerTestEnv) register(t *testing.T) *client {
	t.Helper()

	cl := env.anonymous()
	w := cl.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"tenant_name": "Acme",
		"industry":    "Retail",
		"name":        "Olivia Owner",
		"username":    "owner",
		"password":    "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session dto.SessionDTO
	decode(t, w, &session)
	env.tenantID = session.Tenant.ID
	return cl
}

func (env *handlerTestEnv) login(t *testing.T, username, password string) *client {
	t.Helper()

	cl := env.anonymous()
	w := cl.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"tenant_id": env.tenantID,
		"username":  username,
		"password":  password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return cl
}

// onboard creates a teammate through the API and returns it.
func (cl *client) onboard(t *testing.T, payload map[string]any) dto.TeammateDTO {
	t.Helper()

	w := cl.do(t, http.MethodPost, "/api/directory/teammates", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var teammate dto.TeammateDTO
	decode(t, w, &teammate)
	return teammate
}

func (cl *client) do(t *testing.T, method, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return cl.send(req)
}

func (cl *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	cl.env.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		cl.cookies = cookies
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var apiErr struct {
		Code string `json:"code"`
	}
	decode(t, w, &apiErr)
	return apiErr.Code
}
