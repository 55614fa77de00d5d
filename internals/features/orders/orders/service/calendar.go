package service

import (
	"context"
	"time"

	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	"mamamire_backend/internals/features/orders/deadline"
	"mamamire_backend/internals/features/orders/mealtype"
	"mamamire_backend/internals/features/orders/orders/model"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

type CalendarDay struct {
	Date         string             `json:"date"`
	Weekday      int                `json:"weekday"`
	IsServiceDay bool               `json:"is_service_day"`
	LockState    deadline.State     `json:"lock_state,omitempty"` // kosong untuk non-service day
	Classes      []string           `json:"classes"`
	Orders       []model.OrderModel `json:"orders"`
}

type Calendar struct {
	Year            int           `json:"year"`
	Month           int           `json:"month"`
	Submitted       bool          `json:"submitted"`
	MealTypeOptions []string      `json:"meal_type_options"`
	Days            []CalendarDay `json:"days"`
}

type MonthStatus struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	Submitted  bool  `json:"submitted"`
	OrderCount int64 `json:"order_count"`
}

type DayDefaults struct {
	Date         string                  `json:"date"`
	IsServiceDay bool                    `json:"is_service_day"`
	LockState    deadline.State          `json:"lock_state,omitempty"`
	Classless    bool                    `json:"classless"`
	Entries      []classService.Defaults `json:"entries"`
}

func (s *Service) MonthOrders(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) ([]model.OrderModel, error) {
	from, to := dbtime.MonthBounds(year, month)
	return s.Orders.ListRange(ctx, nil, kindergartenID, from, to)
}

// MonthStatus: "submitted" ⇔ minimal satu order di bulan itu
func (s *Service) MonthStatus(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) (*MonthStatus, error) {
	from, to := dbtime.MonthBounds(year, month)
	n, err := s.Orders.CountRange(ctx, nil, kindergartenID, from, to)
	if err != nil {
		return nil, err
	}
	return &MonthStatus{Year: year, Month: int(month), Submitted: n > 0, OrderCount: n}, nil
}

func (s *Service) Calendar(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) (*Calendar, error) {
	kg, err := s.LoadKindergarten(ctx, kindergartenID)
	if err != nil {
		return nil, err
	}
	gens, _, err := s.Rosters.Generations(ctx, nil, kindergartenID)
	if err != nil {
		return nil, err
	}
	orders, err := s.MonthOrders(ctx, kindergartenID, year, month)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]model.OrderModel)
	for _, o := range orders {
		k := dbtime.FormatDate(o.OrderDate)
		byDate[k] = append(byDate[k], o)
	}

	from, to := dbtime.MonthBounds(year, month)
	cal := &Calendar{
		Year:            year,
		Month:           int(month),
		Submitted:       len(orders) > 0,
		MealTypeOptions: mealtype.Options(kg.ServiceLabels()),
	}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := dbtime.FormatDate(d)
		day := CalendarDay{
			Date:         key,
			Weekday:      int(d.Weekday()),
			IsServiceDay: kg.IsServiceDay(d),
			Orders:       byDate[key],
		}
		if day.Orders == nil {
			day.Orders = []model.OrderModel{}
		}
		if day.IsServiceDay {
			day.LockState = s.State(d)
		}
		roster := classService.ActiveGeneration(gens, d)
		if roster.IsClassless() {
			day.Classes = []string{classModel.ClasslessName}
		} else {
			day.Classes = roster.ClassNames()
		}
		cal.Days = append(cal.Days, day)
	}
	return cal, nil
}

// Defaults: nilai awal per kelas untuk satu tanggal (order yang ada menang)
func (s *Service) Defaults(ctx context.Context, kindergartenID uuid.UUID, date time.Time) (*DayDefaults, error) {
	kg, err := s.LoadKindergarten(ctx, kindergartenID)
	if err != nil {
		return nil, err
	}
	date = dbtime.DateOf(date, nil)
	roster, history, err := s.Rosters.AsOf(ctx, kindergartenID, date)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders.ListRange(ctx, nil, kindergartenID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	existing := make(map[string]classService.ExistingOrder, len(orders))
	for _, o := range orders {
		existing[o.OrderClassName] = classService.ExistingOrder{
			OrderID:      o.OrderID,
			MealType:     o.OrderMealType,
			StudentCount: o.OrderStudentCount,
			AllergyCount: o.OrderAllergyCount,
			TeacherCount: o.OrderTeacherCount,
			Memo:         o.OrderMemo,
		}
	}

	out := &DayDefaults{
		Date:         dbtime.FormatDate(date),
		IsServiceDay: kg.IsServiceDay(date),
		Classless:    roster.IsClassless(),
		Entries:      classService.ResolveDay(roster, history, date, existing),
	}
	if out.IsServiceDay {
		out.LockState = s.State(date)
	}
	return out, nil
}
