package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	notifModel "mamamire_backend/internals/features/notifications/model"
	"mamamire_backend/internals/features/orders/deadline"
	"mamamire_backend/internals/features/orders/orders/model"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BulkOptions struct {
	// SkipDeadline: jalur Monthly Setup (seeding bulan penuh)
	SkipDeadline bool
	ConfirmGrace bool
	// Roster: kalau diisi, semua baris divalidasi terhadap roster ini
	// (roster yang baru dikonfirmasi di Monthly Setup), bukan riwayat per tanggal
	Roster *classService.Generation
}

type BulkResult struct {
	Count      int      `json:"count"`
	GraceDates []string `json:"grace_dates,omitempty"`
}

type orderKey struct {
	date  string
	class string
}

// PrepareBulk memvalidasi semua input lalu membangun baris; tidak menulis apa pun.
// Satu input gagal → seluruh batch ditolak. Duplikat kunci: yang terakhir menang.
func (s *Service) PrepareBulk(ctx context.Context, tx *gorm.DB, sess authMw.Session, kg *kgModel.KindergartenModel, inputs []UpsertInput, opts BulkOptions) ([]model.OrderModel, []string, error) {
	var gens []classService.Generation
	if opts.Roster == nil {
		var err error
		if gens, _, err = s.Rosters.Generations(ctx, tx, kg.KindergartenID); err != nil {
			return nil, nil, err
		}
	}

	index := make(map[orderKey]int, len(inputs))
	rows := make([]model.OrderModel, 0, len(inputs))
	graceSeen := map[string]bool{}
	var graceDates []string

	for i, raw := range inputs {
		in, err := normalize(kg, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("baris %d: %w", i+1, err)
		}
		day := dbtime.FormatDate(in.Date)
		if !kg.IsServiceDay(in.Date) {
			return nil, nil, fmt.Errorf("baris %d: %w (%s)", i+1, ErrNotServiceDay, day)
		}
		if !opts.SkipDeadline {
			st, err := s.checkDeadline(sess, in.Date, opts.ConfirmGrace || in.ConfirmGrace)
			if err != nil {
				return nil, nil, fmt.Errorf("baris %d: %w", i+1, err)
			}
			if st == deadline.GraceLocked && !sess.IsAdmin() && !graceSeen[day] {
				graceSeen[day] = true
				graceDates = append(graceDates, day)
			}
		}
		roster := opts.Roster
		if roster == nil {
			roster = classService.ActiveGeneration(gens, in.Date)
		}
		if in.ClassName, err = resolveClass(roster, in.ClassName); err != nil {
			return nil, nil, fmt.Errorf("baris %d: %w", i+1, err)
		}

		row := model.OrderModel{
			OrderKindergartenID: kg.KindergartenID,
			OrderDate:           in.Date,
			OrderClassName:      in.ClassName,
			OrderMealType:       in.MealType,
			OrderStudentCount:   in.StudentCount,
			OrderAllergyCount:   in.AllergyCount,
			OrderTeacherCount:   in.TeacherCount,
			OrderMemo:           in.Memo,
		}
		k := orderKey{date: day, class: in.ClassName}
		if at, ok := index[k]; ok {
			rows[at] = row
			continue
		}
		index[k] = len(rows)
		rows = append(rows, row)
	}
	return rows, graceDates, nil
}

// BulkUpsertTx: validasi + tulis di dalam tx milik caller (Monthly Setup submit).
// Notifikasi tidak dikirim di sini.
func (s *Service) BulkUpsertTx(ctx context.Context, tx *gorm.DB, sess authMw.Session, kg *kgModel.KindergartenModel, inputs []UpsertInput, opts BulkOptions) (*BulkResult, error) {
	rows, graceDates, err := s.PrepareBulk(ctx, tx, sess, kg, inputs, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.BulkUpsert(ctx, tx, rows); err != nil {
		return nil, err
	}
	return &BulkResult{Count: len(rows), GraceDates: graceDates}, nil
}

// BulkUpsert: satu transaksi; gagal di tengah → tidak ada baris yang tersimpan.
func (s *Service) BulkUpsert(ctx context.Context, sess authMw.Session, kindergartenID uuid.UUID, inputs []UpsertInput, opts BulkOptions) (*BulkResult, error) {
	kg, err := s.LoadKindergarten(ctx, kindergartenID)
	if err != nil {
		return nil, err
	}

	var res *BulkResult
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = s.BulkUpsertTx(ctx, tx, sess, kg, inputs, opts)
		return err
	}); err != nil {
		return nil, err
	}

	if len(res.GraceDates) > 0 && s.Notifier != nil {
		kgID := kg.KindergartenID
		details := fmt.Sprintf("対象日: %s\n件数: %d", strings.Join(res.GraceDates, ", "), res.Count)
		if err := s.Notifier.NotifyAdmins(ctx, nil, notifModel.KindLateChange, kg.KindergartenName, &kgID, "直前変更（一括）", details); err != nil {
			log.Printf("[WARN] notifikasi bulk gagal: %v", err)
		}
	}
	return res, nil
}
