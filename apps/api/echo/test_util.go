package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/holiday"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
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
}

// testDeps bundles everything a handler test may need to seed or assert on.
type testDeps struct {
	server         Server
	conf           core.Config
	userRepo       user.Repository
	attendanceRepo attendance.Repository
	scheduleRepo   schedule.Repository
	holidayRepo    holiday.Repository
	userSvc        user.Service
	attendanceSvc  attendance.Service
}

func testConfig() core.Config {
	return core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Mahudhurio",
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Semester: core.SemesterConfig{
			TermID:    "sem-1",
			StartDate: core.Date(2021, time.January, 1),
			EndDate:   core.Date(2021, time.April, 30),
		},
	}
}

func setupServer(t *testing.T) testDeps {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setupServer() failed: %v", err)
	}

	conf := testConfig()
	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))

	userRepo := inmemdb.NewUserRepository(db)
	attendanceRepo := inmemdb.NewAttendanceRepository(db)
	scheduleRepo := inmemdb.NewScheduleRepository(db)
	holidayRepo := inmemdb.NewHolidayRepository(db)

	userSvc := user.NewService(userRepo)
	scheduleSvc := schedule.NewService(scheduleRepo, logger)
	holidaySvc := holiday.NewService(holidayRepo)
	attendanceSvc := attendance.NewService(attendanceRepo, scheduleSvc, holidaySvc, logger)

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       userSvc,
		AttendanceSvc: attendanceSvc,
		ScheduleSvc:   scheduleSvc,
		HolidaySvc:    holidaySvc,
	})
	return testDeps{
		server:         server,
		conf:           conf,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		scheduleRepo:   scheduleRepo,
		holidayRepo:    holidayRepo,
		userSvc:        userSvc,
		attendanceSvc:  attendanceSvc,
	}
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

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, division, batch, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Division:  division,
		Batch:     batch,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
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
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.Bytes(), tt.wantData)
	}
}
