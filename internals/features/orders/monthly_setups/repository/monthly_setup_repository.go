package repository

import (
	"context"
	"errors"
	"time"

	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	"mamamire_backend/internals/features/orders/monthly_setups/model"
	orderModel "mamamire_backend/internals/features/orders/orders/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MonthlySetupRepository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *MonthlySetupRepository { return &MonthlySetupRepository{DB: db} }

// tx boleh nil → pakai r.DB
func (r *MonthlySetupRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	db := r.DB
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx)
}

// lock: SELECT ... FOR UPDATE hanya di postgres (sqlite tidak mengenal klausa ini)
func lock(q *gorm.DB) *gorm.DB {
	if q.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// FindDraft: (nil, nil) kalau belum ada
func (r *MonthlySetupRepository) FindDraft(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, year, month int, forUpdate bool) (*model.MonthlySetupDraftModel, error) {
	q := r.conn(ctx, tx).
		Where("monthly_setup_draft_kindergarten_id = ? AND monthly_setup_draft_year = ? AND monthly_setup_draft_month = ?",
			kindergartenID, year, month)
	if forUpdate {
		q = lock(q)
	}
	var d model.MonthlySetupDraftModel
	if err := q.Take(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// SaveDraft: insert kalau id kosong, selain itu update semua kolom
func (r *MonthlySetupRepository) SaveDraft(ctx context.Context, tx *gorm.DB, d *model.MonthlySetupDraftModel) error {
	if d.MonthlySetupDraftID == uuid.Nil {
		return r.conn(ctx, tx).Create(d).Error
	}
	return r.conn(ctx, tx).Save(d).Error
}

func (r *MonthlySetupRepository) LoadKindergarten(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*kgModel.KindergartenModel, error) {
	var kg kgModel.KindergartenModel
	if err := r.conn(ctx, tx).Where("kindergarten_id = ?", id).Take(&kg).Error; err != nil {
		return nil, err
	}
	return &kg, nil
}

// CountOrders: jumlah order fasilitas di [from, to)
func (r *MonthlySetupRepository) CountOrders(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, from, to time.Time) (int64, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&orderModel.OrderModel{}).
		Where("order_kindergarten_id = ? AND order_date >= ? AND order_date < ?", kindergartenID, from, to).
		Count(&n).Error
	return n, err
}
