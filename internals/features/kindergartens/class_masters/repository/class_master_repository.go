package repository

import (
	"context"

	"mamamire_backend/internals/features/kindergartens/class_masters/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassMasterRepository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *ClassMasterRepository { return &ClassMasterRepository{DB: db} }

// tx boleh nil → pakai r.DB
func (r *ClassMasterRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	db := r.DB
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx)
}

// ListVersions: urut effective_from ASC, created_at ASC
func (r *ClassMasterRepository) ListVersions(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID) ([]model.ClassRosterVersionModel, error) {
	var rows []model.ClassRosterVersionModel
	err := r.conn(ctx, tx).
		Where("class_roster_version_kindergarten_id = ?", kindergartenID).
		Order("class_roster_version_effective_from ASC").
		Order("class_roster_version_created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ListClasses: semua versi kelas milik fasilitas (semua generasi)
func (r *ClassMasterRepository) ListClasses(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID) ([]model.ClassMasterModel, error) {
	var rows []model.ClassMasterModel
	err := r.conn(ctx, tx).
		Where("class_master_kindergarten_id = ?", kindergartenID).
		Order("class_master_effective_from ASC").
		Order("class_master_created_at ASC").
		Order("class_master_class_name ASC").
		Find(&rows).Error
	return rows, err
}

// InsertGeneration menulis header versi + seluruh kelasnya.
// Caller yang pegang transaksi.
func (r *ClassMasterRepository) InsertGeneration(ctx context.Context, tx *gorm.DB, version *model.ClassRosterVersionModel, classes []model.ClassMasterModel) error {
	db := r.conn(ctx, tx)
	if err := db.Create(version).Error; err != nil {
		return err
	}
	if len(classes) == 0 {
		return nil
	}
	for i := range classes {
		classes[i].ClassMasterRosterVersionID = version.ClassRosterVersionID
	}
	return db.CreateInBatches(&classes, 200).Error
}
