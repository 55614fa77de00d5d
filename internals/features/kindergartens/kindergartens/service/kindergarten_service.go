package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"mamamire_backend/internals/features/kindergartens/kindergartens/model"
	authHelper "mamamire_backend/internals/features/users/auth/helper"
	helper "mamamire_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("施設が見つかりません")
	ErrNoIconStore = errors.New("アイコン保存先が設定されていません")
)

// IconStore: penyimpanan ikon (OSS di produksi)
type IconStore interface {
	UploadIcon(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type Service struct {
	DB    *gorm.DB
	Icons IconStore
}

func New(db *gorm.DB, icons IconStore) *Service {
	return &Service{DB: db, Icons: icons}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.KindergartenModel, error) {
	var kg model.KindergartenModel
	err := s.DB.WithContext(ctx).Where("kindergarten_id = ?", id).Take(&kg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kg, nil
}

type ListFilter struct {
	Q      string
	Active *bool
}

func (s *Service) List(ctx context.Context, f ListFilter, p helper.Paging) ([]model.KindergartenModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.KindergartenModel{})
	if kw := strings.TrimSpace(f.Q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where("LOWER(kindergarten_name) LIKE ? OR LOWER(kindergarten_code) LIKE ? OR LOWER(kindergarten_login_id) LIKE ?", like, like, like)
	}
	if f.Active != nil {
		q = q.Where("kindergarten_is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.KindergartenModel
	if err := q.Order("kindergarten_code ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Create: login id dinormalisasi (NFKC), password di-hash bcrypt
func (s *Service) Create(ctx context.Context, kg *model.KindergartenModel, password string) error {
	kg.KindergartenLoginID = helper.NormalizeName(kg.KindergartenLoginID)
	kg.KindergartenCode = strings.TrimSpace(kg.KindergartenCode)
	kg.KindergartenName = strings.TrimSpace(kg.KindergartenName)
	if kg.KindergartenLoginID == "" {
		return authHelper.ErrEmptyLoginID
	}
	if err := authHelper.ValidateNewPassword(password); err != nil {
		return err
	}
	hash, err := authHelper.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	kg.KindergartenPasswordHash = hash
	if len(kg.KindergartenServices) == 0 {
		kg.SetServiceLabels(nil)
	}
	return s.DB.WithContext(ctx).Create(kg).Error
}

// Update: baca (FOR UPDATE di postgres) → apply → save dalam satu transaksi.
// newPassword nil = password tidak diubah.
func (s *Service) Update(ctx context.Context, id uuid.UUID, apply func(*model.KindergartenModel), newPassword *string) (*model.KindergartenModel, error) {
	var out model.KindergartenModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("kindergarten_id = ?", id)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Take(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		apply(&out)
		out.KindergartenLoginID = helper.NormalizeName(out.KindergartenLoginID)
		if out.KindergartenLoginID == "" {
			return authHelper.ErrEmptyLoginID
		}
		if newPassword != nil {
			if err := authHelper.ValidateNewPassword(*newPassword); err != nil {
				return err
			}
			hash, err := authHelper.HashPassword(*newPassword)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			out.KindergartenPasswordHash = hash
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetIcon: upload ikon baru, simpan URL, lalu hapus ikon lama (best-effort)
func (s *Service) SetIcon(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*model.KindergartenModel, error) {
	if s.Icons == nil {
		return nil, ErrNoIconStore
	}
	kg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Icons.UploadIcon(ctx, "kindergartens/"+id.String()+"/icon", fh)
	if err != nil {
		return nil, err
	}

	old := kg.KindergartenIconURL
	if err := s.DB.WithContext(ctx).Model(kg).Update("kindergarten_icon_url", url).Error; err != nil {
		return nil, err
	}
	kg.KindergartenIconURL = &url

	if old != nil && *old != "" && *old != url {
		if err := s.Icons.DeleteByPublicURL(ctx, *old); err != nil {
			log.Printf("[WARN] hapus ikon lama gagal kg=%s: %v", id, err)
		}
	}
	return kg, nil
}
