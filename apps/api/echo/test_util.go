package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tathmini/tathmini/core"
	"github.com/tathmini/tathmini/core/criteria"
	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/stats"
	"github.com/tathmini/tathmini/core/user"
	emailsvc "github.com/tathmini/tathmini/services/email"
	dummydb "github.com/tathmini/tathmini/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testEnv struct {
	server   Server
	usrSvc   *user.Service
	critSvc  *criteria.Service
	presSvc  *presentation.Service
	evalSvc  *evaluation.Service
	notifSvc *notification.Service
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := &core.Config{
		TestMode:                  true,
		AppName:                   "Tathmini",
		SecretKey:                 []byte("secret"),
		DefaultFromEmail:          mail.Address{Name: "Tathmini", Address: "noreply@localhost"},
		JWTExpirationDelta:        10 * time.Minute,
		JWTRefreshExpirationDelta: 4 * time.Hour,
	}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	critSvc := criteria.NewService(dummydb.NewCriteriaRepository(db))
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db), mailSvc)
	presSvc := presentation.NewService(dummydb.NewPresentationRepository(db), usrSvc, notifSvc)
	evalSvc := evaluation.NewService(dummydb.NewEvaluationRepository(db), critSvc, presSvc, usrSvc, notifSvc)
	statsSvc := stats.NewService(presSvc, evalSvc, usrSvc)

	server := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          testLogger{},
		UserSvc:         usrSvc,
		CriteriaSvc:     critSvc,
		PresentationSvc: presSvc,
		EvaluationSvc:   evalSvc,
		NotificationSvc: notifSvc,
		StatsSvc:        statsSvc,
		DisableReqLogs:  true,
	})
	return &testEnv{
		server:   server,
		usrSvc:   usrSvc,
		critSvc:  critSvc,
		presSvc:  presSvc,
		evalSvc:  evalSvc,
		notifSvc: notifSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, name, uname string, role user.Role) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(context.Background(), user.NewUser{
		Name:     name,
		Username: uname,
		Email:    uname + "@test.cd",
		Password: "s3cr3tpwd",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createCriterion(t *testing.T, name string, maxScore, weight float64) criteria.Criterion {
	t.Helper()
	crit, err := env.critSvc.Create(context.Background(), criteria.NewCriterion{
		Name:     name,
		MaxScore: maxScore,
		Weight:   weight,
	})
	if err != nil {
		t.Fatalf("createCriterion() failed: %v", err)
	}
	return crit
}

func (env *testEnv) createPresentation(t *testing.T, student user.User, title string) presentation.Presentation {
	t.Helper()
	pres, err := env.presSvc.Create(context.Background(), presentation.NewPresentation{
		Title:       title,
		StudentID:   student.ID,
		StudentName: student.Name,
		FileName:    "slides.pdf",
		FileURL:     "https://files.test.cd/slides.pdf",
	})
	if err != nil {
		t.Fatalf("createPresentation() failed: %v", err)
	}
	return pres
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
