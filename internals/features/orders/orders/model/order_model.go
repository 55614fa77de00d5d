// file: internals/features/orders/orders/model/order_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderModel merepresentasikan tabel `orders`.
// Kunci natural: (kindergarten_id, date, class_name); tidak pernah di-hard-delete.
type OrderModel struct {
	OrderID             uuid.UUID `json:"order_id"              gorm:"column:order_id;type:uuid;primaryKey"`
	OrderKindergartenID uuid.UUID `json:"order_kindergarten_id" gorm:"column:order_kindergarten_id;type:uuid;not null;uniqueIndex:uq_orders_key,priority:1"`
	OrderDate           time.Time `json:"order_date"            gorm:"column:order_date;type:date;not null;uniqueIndex:uq_orders_key,priority:2"`
	OrderClassName      string    `json:"order_class_name"      gorm:"column:order_class_name;type:varchar(80);not null;uniqueIndex:uq_orders_key,priority:3"`

	OrderMealType     string `json:"order_meal_type"     gorm:"column:order_meal_type;type:varchar(40);not null"`
	OrderStudentCount int    `json:"order_student_count" gorm:"column:order_student_count;not null"`
	OrderAllergyCount int    `json:"order_allergy_count" gorm:"column:order_allergy_count;not null"`
	OrderTeacherCount int    `json:"order_teacher_count" gorm:"column:order_teacher_count;not null"`
	OrderMemo         string `json:"order_memo"          gorm:"column:order_memo;type:text"`

	OrderCreatedAt time.Time `json:"order_created_at" gorm:"column:order_created_at;autoCreateTime"`
	OrderUpdatedAt time.Time `json:"order_updated_at" gorm:"column:order_updated_at;autoUpdateTime"`
}

func (OrderModel) TableName() string { return "orders" }

func (m *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if m.OrderID == uuid.Nil {
		m.OrderID = uuid.New()
	}
	return nil
}
