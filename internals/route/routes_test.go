package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"mamamire_backend/internals/configs"
	"mamamire_backend/internals/databases/dbtest"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	authHelper "mamamire_backend/internals/features/users/auth/helper"
	helper "mamamire_backend/internals/helpers"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = "test-secret"
	configs.AccessTokenTTL = time.Hour
	configs.AppLocation = configs.LoadLocation("Asia/Tokyo")
	configs.StrictLockDaysBefore, configs.StrictLockHour = 1, 15
	configs.GraceLockDaysBefore, configs.GraceLockHour = 3, 18

	db, err := dbtest.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hash, err := authHelper.HashPassword("sakura-2024!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	kg := kgModel.KindergartenModel{
		KindergartenCode:         "KG001",
		KindergartenName:         "さくら幼稚園",
		KindergartenLoginID:      "sakura",
		KindergartenPasswordHash: hash,
		KindergartenCourseType:   "通常",
		KindergartenIsActive:     true,
	}
	// setiap hari layanan: tanggal mana pun bisa dipakai untuk uji deadline
	kg.SetServiceDays([7]bool{true, true, true, true, true, true, true})
	kg.SetServiceLabels(nil)
	if err := db.Create(&kg).Error; err != nil {
		t.Fatalf("create kg: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	SetupRoutes(app, db)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": "sakura",
		"password": "sakura-2024!",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login status %d: %v", status, body)
	}
	data, _ := body["data"].(map[string]any)
	token, _ := data["access_token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", body)
	}
	return token
}

func TestLoginAndSession(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"login_id": "sakura", "password": "salah"})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/u/me", "", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("no token: status %d", status)
	}

	token := login(t, app)
	if status, body := do(t, app, http.MethodGet, "/api/u/me", token, nil); status != fiber.StatusOK {
		t.Fatalf("me: %d %v", status, body)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/a/kindergartens", token, nil); status != fiber.StatusForbidden {
		t.Fatalf("facility on admin route: status %d", status)
	}

	if status, _ := do(t, app, http.MethodPost, "/api/auth/logout", token, nil); status != fiber.StatusOK {
		t.Fatalf("logout: status %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/u/me", token, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("blacklisted token: status %d", status)
	}
}

func TestOrderDeadlineResponses(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app)
	today := dbtime.DateOf(time.Now(), configs.AppLocation)

	tests := []struct {
		name     string
		date     time.Time
		confirm  bool
		wantCode int
		wantErr  string
	}{
		{"today is strict", today, false, fiber.StatusLocked, "STRICT_LOCKED"},
		{"today with confirm still strict", today, true, fiber.StatusLocked, "STRICT_LOCKED"},
		{"two days ahead needs confirm", today.AddDate(0, 0, 2), false, fiber.StatusPreconditionRequired, "GRACE_CONFIRMATION_REQUIRED"},
		{"two days ahead confirmed", today.AddDate(0, 0, 2), true, fiber.StatusCreated, ""},
		{"next month open", today.AddDate(0, 1, 0), false, fiber.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, "/api/u/orders", token, map[string]any{
				"date":          dbtime.FormatDate(tt.date),
				"class_name":    "共通",
				"student_count": 30,
				"confirm_grace": tt.confirm,
			})
			if status != tt.wantCode {
				t.Fatalf("status %d, want %d: %v", status, tt.wantCode, body)
			}
			if tt.wantErr != "" && body["error_code"] != tt.wantErr {
				t.Fatalf("error_code %v, want %s", body["error_code"], tt.wantErr)
			}
		})
	}

	status, body := do(t, app, http.MethodPost, "/api/u/orders", token, map[string]any{
		"date":          dbtime.FormatDate(today.AddDate(0, 1, 0)),
		"student_count": -1,
	})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("negative count: %d %v", status, body)
	}
}

func TestPatchSingleClass(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app)

	status, body := do(t, app, http.MethodPut, "/api/u/class-masters", token, map[string]any{
		"classes": []map[string]any{
			{"class_name": "ひよこ組", "default_student_count": 15, "default_teacher_count": 1},
			{"class_name": "うさぎ組", "default_student_count": 20, "default_teacher_count": 2},
		},
	})
	if status != fiber.StatusOK {
		t.Fatalf("replace roster: %d %v", status, body)
	}

	status, body = do(t, app, http.MethodPatch, "/api/u/class-masters/"+url.PathEscape("ひよこ組"), token, map[string]any{
		"default_student_count": 18,
	})
	if status != fiber.StatusOK {
		t.Fatalf("patch class: %d %v", status, body)
	}
	data, _ := body["data"].(map[string]any)
	classes, _ := data["classes"].([]any)
	counts := map[string]float64{}
	for _, raw := range classes {
		c, _ := raw.(map[string]any)
		name, _ := c["class_name"].(string)
		n, _ := c["default_student_count"].(float64)
		counts[name] = n
	}
	if len(counts) != 2 || counts["ひよこ組"] != 18 || counts["うさぎ組"] != 20 {
		t.Fatalf("patched roster = %v", counts)
	}

	status, body = do(t, app, http.MethodPatch, "/api/u/class-masters/"+url.PathEscape("ばら組"), token, map[string]any{
		"default_student_count": 3,
	})
	if status != fiber.StatusNotFound || body["error_code"] != "CLASS_NOT_FOUND" {
		t.Fatalf("unknown class: %d %v", status, body)
	}
}
