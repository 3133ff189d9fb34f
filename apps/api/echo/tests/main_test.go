package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/hesedu/shikshya/apps/api/echo"
	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/content"
	"github.com/hesedu/shikshya/core/settings"
	"github.com/hesedu/shikshya/core/user"
	"github.com/hesedu/shikshya/services/email"
	"github.com/hesedu/shikshya/services/logger"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

var (
	app         Server
	usrRepo     user.Repository
	usrSvc      *user.Service
	billingSvc  *billing.Service
	settingsSvc *settings.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errExpired      = httpErr{Error: "session expired: signed in on another device"}
)

func setup(t *testing.T) {
	core.Conf.Debug = false // exercise the production error shapes

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	if err = inmemdb.Seed(db); err != nil {
		t.Fatalf("Seed() failed, %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db))
	usrRepo = inmemdb.NewUserRepository(db)
	usrSvc = user.NewService(usrRepo, auditSvc, mailSvc)
	billingSvc = billing.NewService(inmemdb.NewBillingRepository(db), usrSvc, auditSvc, mailSvc)
	contentSvc := content.NewService(inmemdb.NewContentRepository(db), auditSvc)
	settingsSvc = settings.NewService(inmemdb.NewSettingsRepository(db), auditSvc)

	app = NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
			UserSvc:        usrSvc,
			BillingSvc:     billingSvc,
			ContentSvc:     contentSvc,
			SettingsSvc:    settingsSvc,
			AuditSvc:       auditSvc,
		},
	)
}

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

// loginToken signs a user in and mints a token bound to the issued device.
func loginToken(t *testing.T, email string) string {
	usr, deviceID, err := usrSvc.Login(email, "password123")
	if err != nil {
		t.Fatalf("loginToken(): %v", err)
	}
	return getToken(t, usr, deviceID)
}

// studentToken provisions a device-locked session for a seeded student.
func studentToken(t *testing.T, uid string) string {
	usr, err := usrSvc.GetByUID(uid)
	if err != nil {
		t.Fatalf("studentToken(): %v", err)
	}
	usr.DeviceID = "test-device-" + uid
	if usr, err = usrRepo.UpdateUser(usr); err != nil {
		t.Fatalf("studentToken(): %v", err)
	}
	return getToken(t, usr, usr.DeviceID)
}

func getToken(t *testing.T, usr user.User, deviceID string) string {
	token, err := GenerateToken(GetUserClaims(usr, deviceID))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
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
	// lists may come back in a different order
	l1, ok1 := j1.([]interface{})
	l2, ok2 := j2.([]interface{})
	if ok1 && ok2 {
		return assert.ElementsMatch(t, l1, l2), nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if tt.wantCode == 0 {
		tt.wantCode = http.StatusOK
	}
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
