package dto

import (
	"strings"

	"mamamire_backend/internals/features/orders/orders/service"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

type UpsertOrderRequest struct {
	OrderID      *string `json:"order_id"      validate:"omitempty,uuid"`
	Date         string  `json:"date"          validate:"required,datetime=2006-01-02"`
	ClassName    string  `json:"class_name"    validate:"max=80"`
	MealType     string  `json:"meal_type"     validate:"max=40"`
	StudentCount int     `json:"student_count" validate:"min=0,max=9999"`
	AllergyCount int     `json:"allergy_count" validate:"min=0,max=9999"`
	TeacherCount int     `json:"teacher_count" validate:"min=0,max=9999"`
	Memo         string  `json:"memo"          validate:"max=2000"`
	ConfirmGrace bool    `json:"confirm_grace"`
}

func (r *UpsertOrderRequest) ToInput() (service.UpsertInput, error) {
	date, err := dbtime.ParseDate(r.Date)
	if err != nil {
		return service.UpsertInput{}, err
	}
	in := service.UpsertInput{
		Date:         date,
		ClassName:    r.ClassName,
		MealType:     r.MealType,
		StudentCount: r.StudentCount,
		AllergyCount: r.AllergyCount,
		TeacherCount: r.TeacherCount,
		Memo:         strings.TrimSpace(r.Memo),
		ConfirmGrace: r.ConfirmGrace,
	}
	if r.OrderID != nil && strings.TrimSpace(*r.OrderID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*r.OrderID))
		if err != nil {
			return service.UpsertInput{}, err
		}
		in.OrderID = &id
	}
	return in, nil
}

type BulkUpsertOrderRequest struct {
	Orders       []UpsertOrderRequest `json:"orders"        validate:"required,min=1,max=3000,dive"`
	ConfirmGrace bool                 `json:"confirm_grace"`
}

func (r *BulkUpsertOrderRequest) ToInputs() ([]service.UpsertInput, error) {
	out := make([]service.UpsertInput, 0, len(r.Orders))
	for i := range r.Orders {
		in, err := r.Orders[i].ToInput()
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}
