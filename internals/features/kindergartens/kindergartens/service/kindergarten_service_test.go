package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"mamamire_backend/internals/databases/dbtest"
	"mamamire_backend/internals/features/kindergartens/kindergartens/model"
	authHelper "mamamire_backend/internals/features/users/auth/helper"
	helper "mamamire_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeIcons struct {
	n       int
	deleted []string
}

func (f *fakeIcons) UploadIcon(_ context.Context, dir string, _ *multipart.FileHeader) (string, error) {
	f.n++
	return "https://cdn.example.jp/" + dir + "/" + uuid.NewString() + ".webp", nil
}

func (f *fakeIcons) DeleteByPublicURL(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func newService(t *testing.T, icons IconStore) *Service {
	t.Helper()
	db, err := dbtest.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db, icons)
}

func newKG(code, login string) *model.KindergartenModel {
	kg := &model.KindergartenModel{
		KindergartenCode:       code,
		KindergartenName:       "さくら幼稚園",
		KindergartenLoginID:    login,
		KindergartenCourseType: "通常",
		KindergartenIsActive:   true,
	}
	kg.SetServiceDays(model.DefaultServiceDays())
	return kg
}

func TestCreate(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()

	kg := newKG("KG001", " ｓａｋｕｒａ ")
	if err := s.Create(ctx, kg, "sakura-2024!"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if kg.KindergartenLoginID != "sakura" {
		t.Fatalf("login id not normalized: %q", kg.KindergartenLoginID)
	}
	if err := authHelper.CheckPasswordHash(kg.KindergartenPasswordHash, "sakura-2024!"); err != nil {
		t.Fatalf("password not hashed with bcrypt: %v", err)
	}
	if labels := kg.ServiceLabels(); labels == nil || len(labels) != 0 {
		t.Fatalf("services should default to empty list, got %v", labels)
	}

	if err := s.Create(ctx, newKG("KG002", "himawari"), "short"); !errors.Is(err, authHelper.ErrShortPassword) {
		t.Fatalf("short password: %v", err)
	}
	if err := s.Create(ctx, newKG("KG003", "  "), "long-enough"); !errors.Is(err, authHelper.ErrEmptyLoginID) {
		t.Fatalf("empty login: %v", err)
	}

	err := s.Create(ctx, newKG("KG004", "sakura"), "long-enough")
	fe := helper.MapPGError(err)
	if fe == nil || fe.Code != fiber.StatusConflict {
		t.Fatalf("duplicate login id should map to 409, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	kg := newKG("KG001", "sakura")
	if err := s.Create(ctx, kg, "sakura-2024!"); err != nil {
		t.Fatalf("create: %v", err)
	}

	pw := "new-password-1"
	out, err := s.Update(ctx, kg.KindergartenID, func(m *model.KindergartenModel) {
		m.KindergartenHasSoup = true
		m.SetServiceLabels([]string{"カレー", "パン"})
	}, &pw)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !out.KindergartenHasSoup || len(out.ServiceLabels()) != 2 {
		t.Fatalf("fields not applied: %+v", out)
	}
	if err := authHelper.CheckPasswordHash(out.KindergartenPasswordHash, pw); err != nil {
		t.Fatalf("password not changed")
	}

	if _, err := s.Update(ctx, uuid.New(), func(*model.KindergartenModel) {}, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing kg: %v", err)
	}
	bad := "x"
	if _, err := s.Update(ctx, kg.KindergartenID, func(*model.KindergartenModel) {}, &bad); !errors.Is(err, authHelper.ErrShortPassword) {
		t.Fatalf("short password: %v", err)
	}
}

func TestSetIcon(t *testing.T) {
	if _, err := newService(t, nil).SetIcon(context.Background(), uuid.New(), &multipart.FileHeader{}); !errors.Is(err, ErrNoIconStore) {
		t.Fatalf("without store: %v", err)
	}

	icons := &fakeIcons{}
	s := newService(t, icons)
	ctx := context.Background()
	kg := newKG("KG001", "sakura")
	if err := s.Create(ctx, kg, "sakura-2024!"); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := s.SetIcon(ctx, kg.KindergartenID, &multipart.FileHeader{Filename: "a.png"})
	if err != nil || first.KindergartenIconURL == nil {
		t.Fatalf("first icon: %v", err)
	}
	firstURL := *first.KindergartenIconURL

	second, err := s.SetIcon(ctx, kg.KindergartenID, &multipart.FileHeader{Filename: "b.png"})
	if err != nil {
		t.Fatalf("second icon: %v", err)
	}
	if len(icons.deleted) != 1 || icons.deleted[0] != firstURL {
		t.Fatalf("old icon should be deleted once, got %v", icons.deleted)
	}
	stored, _ := s.Get(ctx, kg.KindergartenID)
	if stored.KindergartenIconURL == nil || *stored.KindergartenIconURL != *second.KindergartenIconURL {
		t.Fatalf("stored url mismatch")
	}
}

func TestList(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	for i, login := range []string{"sakura", "himawari", "tanpopo"} {
		kg := newKG("KG00"+string(rune('1'+i)), login)
		kg.KindergartenIsActive = login != "tanpopo"
		if err := s.Create(ctx, kg, "password-123"); err != nil {
			t.Fatalf("create %s: %v", login, err)
		}
	}

	page := helper.Paging{Page: 1, PerPage: 2, Offset: 0, Limit: 2}
	rows, total, err := s.List(ctx, ListFilter{}, page)
	if err != nil || total != 3 || len(rows) != 2 || rows[0].KindergartenCode != "KG001" {
		t.Fatalf("list all: total=%d rows=%d err=%v", total, len(rows), err)
	}

	inactive := false
	rows, total, err = s.List(ctx, ListFilter{Active: &inactive}, page)
	if err != nil || total != 1 || rows[0].KindergartenLoginID != "tanpopo" {
		t.Fatalf("inactive filter: total=%d err=%v", total, err)
	}

	rows, total, _ = s.List(ctx, ListFilter{Q: "HIMA"}, page)
	if total != 1 || rows[0].KindergartenLoginID != "himawari" {
		t.Fatalf("keyword filter: total=%d", total)
	}
}
