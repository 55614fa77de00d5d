package repository

import (
	"context"
	"time"

	"mamamire_backend/internals/features/orders/orders/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bulkBatchSize = 200

var keyColumns = []clause.Column{
	{Name: "order_kindergarten_id"},
	{Name: "order_date"},
	{Name: "order_class_name"},
}

var mutableColumns = []string{
	"order_meal_type",
	"order_student_count",
	"order_allergy_count",
	"order_teacher_count",
	"order_memo",
	"order_updated_at",
}

type OrderRepository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *OrderRepository { return &OrderRepository{DB: db} }

// tx boleh nil → pakai r.DB
func (r *OrderRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	db := r.DB
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx)
}

func (r *OrderRepository) FindByID(ctx context.Context, tx *gorm.DB, kindergartenID, orderID uuid.UUID) (*model.OrderModel, error) {
	var m model.OrderModel
	if err := r.conn(ctx, tx).
		Where("order_id = ? AND order_kindergarten_id = ?", orderID, kindergartenID).
		Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *OrderRepository) FindByKey(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, date time.Time, className string) (*model.OrderModel, error) {
	var m model.OrderModel
	if err := r.conn(ctx, tx).
		Where("order_kindergarten_id = ? AND order_date = ? AND order_class_name = ?", kindergartenID, date, className).
		Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListRange: [from, to), urut tanggal lalu kelas
func (r *OrderRepository) ListRange(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, from, to time.Time) ([]model.OrderModel, error) {
	var rows []model.OrderModel
	err := r.conn(ctx, tx).
		Where("order_kindergarten_id = ? AND order_date >= ? AND order_date < ?", kindergartenID, from, to).
		Order("order_date ASC").
		Order("order_class_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *OrderRepository) CountRange(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, from, to time.Time) (int64, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&model.OrderModel{}).
		Where("order_kindergarten_id = ? AND order_date >= ? AND order_date < ?", kindergartenID, from, to).
		Count(&n).Error
	return n, err
}

// UpdateByID: hanya kolom non-kunci
func (r *OrderRepository) UpdateByID(ctx context.Context, tx *gorm.DB, m *model.OrderModel) error {
	m.OrderUpdatedAt = time.Now().UTC()
	return r.conn(ctx, tx).Model(&model.OrderModel{}).
		Where("order_id = ? AND order_kindergarten_id = ?", m.OrderID, m.OrderKindergartenID).
		Updates(map[string]any{
			"order_meal_type":     m.OrderMealType,
			"order_student_count": m.OrderStudentCount,
			"order_allergy_count": m.OrderAllergyCount,
			"order_teacher_count": m.OrderTeacherCount,
			"order_memo":          m.OrderMemo,
			"order_updated_at":    m.OrderUpdatedAt,
		}).Error
}

// Upsert: INSERT … ON CONFLICT (kunci natural) DO UPDATE.
// order_id di struct bisa bukan id yang tersimpan; pakai FindByKey setelahnya.
func (r *OrderRepository) Upsert(ctx context.Context, tx *gorm.DB, m *model.OrderModel) error {
	return r.conn(ctx, tx).
		Clauses(clause.OnConflict{
			Columns:   keyColumns,
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		Create(m).Error
}

// BulkUpsert: batch per 200 baris; caller yang pegang transaksi.
func (r *OrderRepository) BulkUpsert(ctx context.Context, tx *gorm.DB, rows []model.OrderModel) error {
	if len(rows) == 0 {
		return nil
	}
	return r.conn(ctx, tx).
		Clauses(clause.OnConflict{
			Columns:   keyColumns,
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		CreateInBatches(&rows, bulkBatchSize).Error
}
