package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	notifModel "mamamire_backend/internals/features/notifications/model"
	"mamamire_backend/internals/features/orders/deadline"
	"mamamire_backend/internals/features/orders/mealtype"
	"mamamire_backend/internals/features/orders/monthly_setups/model"
	"mamamire_backend/internals/features/orders/monthly_setups/repository"
	orderService "mamamire_backend/internals/features/orders/orders/service"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrDraftNotFound  = errors.New("月次設定の下書きが見つかりません")
	ErrMonthSubmitted = errors.New("この月の注文は提出済みです。カレンダーから変更してください")
)

// RosterReplacer: baca riwayat + full-replace roster (ikut tx caller)
type RosterReplacer interface {
	Generations(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID) ([]classService.Generation, []classModel.ClassMasterModel, error)
	Replace(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, in []classService.ClassInput, effectiveFrom *time.Time) (*classService.Generation, error)
}

// OrderWriter: bulk upsert order di dalam tx caller + status deadline per tanggal
type OrderWriter interface {
	State(d time.Time) deadline.State
	BulkUpsertTx(ctx context.Context, tx *gorm.DB, sess authMw.Session, kg *kgModel.KindergartenModel, inputs []orderService.UpsertInput, opts orderService.BulkOptions) (*orderService.BulkResult, error)
}

type Payload struct {
	Roster []RosterClass `json:"roster"`
	Days   []DayChoice   `json:"days"`
	Memo   string        `json:"memo"`
}

type Draft struct {
	ID              uuid.UUID     `json:"monthly_setup_draft_id"`
	KindergartenID  uuid.UUID     `json:"kindergarten_id"`
	Year            int           `json:"year"`
	Month           int           `json:"month"`
	State           Step          `json:"state"`
	Classless       bool          `json:"classless"`
	Roster          []RosterClass `json:"roster"`
	Days            []DayChoice   `json:"days"`
	Memo            string        `json:"memo"`
	MealTypeOptions []string      `json:"meal_type_options"`
	OrderCount      int           `json:"order_count"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type SubmitResult struct {
	Draft           *Draft    `json:"draft"`
	RosterVersionID uuid.UUID `json:"roster_version_id"`
	ServiceDays     int       `json:"service_days"`
	LockedDays      int       `json:"locked_days"`
	OrderCount      int       `json:"order_count"`
}

type Service struct {
	DB       *gorm.DB
	Repo     *repository.MonthlySetupRepository
	Rosters  RosterReplacer
	Orders   OrderWriter
	Notifier orderService.AdminNotifier
	Now      func() time.Time
}

func New(db *gorm.DB, rosters RosterReplacer, orders OrderWriter, notifier orderService.AdminNotifier) *Service {
	return &Service{
		DB:       db,
		Repo:     repository.New(db),
		Rosters:  rosters,
		Orders:   orders,
		Notifier: notifier,
		Now:      time.Now,
	}
}

/* ===================== payload (sonic) ===================== */

func decodePayload(raw datatypes.JSON) (Payload, error) {
	var p Payload
	if len(raw) == 0 {
		return p, nil
	}
	if err := sonic.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decode payload draft: %w", err)
	}
	return p, nil
}

func encodePayload(p Payload) (datatypes.JSON, error) {
	if p.Roster == nil {
		p.Roster = []RosterClass{}
	}
	if p.Days == nil {
		p.Days = []DayChoice{}
	}
	b, err := sonic.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload draft: %w", err)
	}
	return datatypes.JSON(b), nil
}

func toDraft(m *model.MonthlySetupDraftModel, p Payload, kg *kgModel.KindergartenModel) *Draft {
	d := &Draft{
		ID:              m.MonthlySetupDraftID,
		KindergartenID:  m.MonthlySetupDraftKindergartenID,
		Year:            m.MonthlySetupDraftYear,
		Month:           m.MonthlySetupDraftMonth,
		State:           Step(m.MonthlySetupDraftState),
		Classless:       len(p.Roster) == 0,
		Roster:          p.Roster,
		Days:            p.Days,
		Memo:            p.Memo,
		MealTypeOptions: mealtype.Options(kg.ServiceLabels()),
		SubmittedAt:     m.MonthlySetupDraftSubmittedAt,
		UpdatedAt:       m.MonthlySetupDraftUpdatedAt,
	}
	classes := len(p.Roster)
	if classes == 0 {
		classes = 1
	}
	d.OrderCount = len(p.Days) * classes
	return d
}

/* ===================== seed ===================== */

// seedPayload: roster yang berlaku di tanggal 1 bulan target + semua hari layanan 通常
func (s *Service) seedPayload(ctx context.Context, tx *gorm.DB, kg *kgModel.KindergartenModel, year int, month time.Month) (Payload, error) {
	gens, _, err := s.Rosters.Generations(ctx, tx, kg.KindergartenID)
	if err != nil {
		return Payload{}, err
	}
	first, _ := dbtime.MonthBounds(year, month)
	p := Payload{Roster: []RosterClass{}, Days: DefaultDays(year, month, kg.ServiceDays())}
	if g := classService.ActiveGeneration(gens, first); !g.IsClassless() {
		for _, c := range g.Classes {
			p.Roster = append(p.Roster, RosterClass{
				ClassName:    c.ClassMasterClassName,
				Grade:        c.ClassMasterGrade,
				Floor:        c.ClassMasterFloor,
				StudentCount: c.ClassMasterDefaultStudentCount,
				AllergyCount: c.AllergyOrZero(),
				TeacherCount: c.ClassMasterDefaultTeacherCount,
			})
		}
	}
	return p, nil
}

func (s *Service) loadKindergarten(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*kgModel.KindergartenModel, error) {
	kg, err := s.Repo.LoadKindergarten(ctx, tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orderService.ErrKindergartenNotFound
	}
	return kg, err
}

// ensureNotSubmitted: bulan yang sudah punya order pindah ke tampilan kalender
func (s *Service) ensureNotSubmitted(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, year int, month time.Month) error {
	from, to := dbtime.MonthBounds(year, month)
	n, err := s.Repo.CountOrders(ctx, tx, kindergartenID, from, to)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w (%d年%d月)", ErrMonthSubmitted, year, int(month))
	}
	return nil
}

/* ===================== operasi draft ===================== */

// Open: ambil draft bulan itu; belum ada → dibuat dari roster & kalender.
// Bulan yang sudah punya order ditolak (ErrMonthSubmitted). Draft Submitted yang
// order-nya sudah tidak ada dibuka ulang di langkah roster dengan payload terakhir.
func (s *Service) Open(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) (*Draft, error) {
	var out *Draft
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kg, err := s.loadKindergarten(ctx, tx, kindergartenID)
		if err != nil {
			return err
		}
		if err := s.ensureNotSubmitted(ctx, tx, kindergartenID, year, month); err != nil {
			return err
		}
		m, err := s.Repo.FindDraft(ctx, tx, kindergartenID, year, int(month), true)
		if err != nil {
			return err
		}

		var p Payload
		switch {
		case m == nil:
			if p, err = s.seedPayload(ctx, tx, kg, year, month); err != nil {
				return err
			}
			m = &model.MonthlySetupDraftModel{
				MonthlySetupDraftKindergartenID: kindergartenID,
				MonthlySetupDraftYear:           year,
				MonthlySetupDraftMonth:          int(month),
			}
		case Step(m.MonthlySetupDraftState) == StepSubmitted:
			if p, err = decodePayload(m.MonthlySetupDraftPayload); err != nil {
				return err
			}
		default:
			if p, err = decodePayload(m.MonthlySetupDraftPayload); err != nil {
				return err
			}
			out = toDraft(m, p, kg)
			return nil
		}

		m.MonthlySetupDraftState = string(StepRosterEdit)
		if m.MonthlySetupDraftPayload, err = encodePayload(p); err != nil {
			return err
		}
		if err := s.Repo.SaveDraft(ctx, tx, m); err != nil {
			return err
		}
		out = toDraft(m, p, kg)
		return nil
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) (*Draft, error) {
	kg, err := s.loadKindergarten(ctx, nil, kindergartenID)
	if err != nil {
		return nil, err
	}
	m, err := s.Repo.FindDraft(ctx, nil, kindergartenID, year, int(month), false)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrDraftNotFound
	}
	p, err := decodePayload(m.MonthlySetupDraftPayload)
	if err != nil {
		return nil, err
	}
	return toDraft(m, p, kg), nil
}

// mutate: load (lock) → fn → simpan, satu transaksi
func (s *Service) mutate(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month,
	fn func(kg *kgModel.KindergartenModel, step *Step, p *Payload) error) (*Draft, error) {

	var out *Draft
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kg, err := s.loadKindergarten(ctx, tx, kindergartenID)
		if err != nil {
			return err
		}
		m, err := s.Repo.FindDraft(ctx, tx, kindergartenID, year, int(month), true)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrDraftNotFound
		}
		p, err := decodePayload(m.MonthlySetupDraftPayload)
		if err != nil {
			return err
		}

		step := Step(m.MonthlySetupDraftState)
		if err := fn(kg, &step, &p); err != nil {
			return err
		}
		m.MonthlySetupDraftState = string(step)
		if m.MonthlySetupDraftPayload, err = encodePayload(p); err != nil {
			return err
		}
		if err := s.Repo.SaveDraft(ctx, tx, m); err != nil {
			return err
		}
		out = toDraft(m, p, kg)
		return nil
	})
	return out, err
}

// PatchRoster: ganti roster draft (langkah roster saja). Roster kosong = classless.
func (s *Service) PatchRoster(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month, roster []RosterClass) (*Draft, error) {
	normalized, err := NormalizeRoster(roster)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, kindergartenID, year, month, func(_ *kgModel.KindergartenModel, step *Step, p *Payload) error {
		if err := step.Require(StepRosterEdit); err != nil {
			return err
		}
		p.Roster = normalized
		return nil
	})
}

// ToggleDay: mealType nil → maju ke opsi berikutnya (wrap); selain itu set langsung.
func (s *Service) ToggleDay(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month, date string, mealType *string) (*Draft, error) {
	return s.mutate(ctx, kindergartenID, year, month, func(kg *kgModel.KindergartenModel, step *Step, p *Payload) error {
		if err := step.Require(StepMealTypeSelection); err != nil {
			return err
		}
		options := mealtype.Options(kg.ServiceLabels())
		for i := range p.Days {
			if p.Days[i].Date != date {
				continue
			}
			if mealType == nil {
				p.Days[i].MealType = mealtype.Next(p.Days[i].MealType, options)
				return nil
			}
			if !mealtype.IsAllowed(*mealType, kg.ServiceLabels()) {
				return fmt.Errorf("%w: %s", orderService.ErrInvalidMealType, *mealType)
			}
			p.Days[i].MealType = *mealType
			return nil
		}
		return fmt.Errorf("%w: %s", orderService.ErrNotServiceDay, date)
	})
}

func (s *Service) SetMemo(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month, memo string) (*Draft, error) {
	return s.mutate(ctx, kindergartenID, year, month, func(_ *kgModel.KindergartenModel, step *Step, p *Payload) error {
		if err := step.Require(StepRosterEdit, StepMealTypeSelection, StepReview); err != nil {
			return err
		}
		p.Memo = memo
		return nil
	})
}

func (s *Service) Next(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) (*Draft, error) {
	return s.mutate(ctx, kindergartenID, year, month, func(_ *kgModel.KindergartenModel, step *Step, _ *Payload) error {
		next, err := step.Next()
		*step = next
		return err
	})
}

func (s *Service) Back(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month) (*Draft, error) {
	return s.mutate(ctx, kindergartenID, year, month, func(_ *kgModel.KindergartenModel, step *Step, _ *Payload) error {
		prev, err := step.Back()
		*step = prev
		return err
	})
}

/* ===================== submit ===================== */

func planInput(kg *kgModel.KindergartenModel, year int, month time.Month, p Payload) PlanInput {
	return PlanInput{
		Year:         year,
		Month:        month,
		ServiceFlags: kg.ServiceDays(),
		Roster:       p.Roster,
		MealTypes:    MealTypeMap(p.Days),
		Memo:         p.Memo,
	}
}

func toUpsertInputs(planned []PlannedOrder) []orderService.UpsertInput {
	out := make([]orderService.UpsertInput, 0, len(planned))
	for _, o := range planned {
		out = append(out, orderService.UpsertInput{
			Date:         o.Date,
			ClassName:    o.ClassName,
			MealType:     o.MealType,
			StudentCount: o.StudentCount,
			AllergyCount: o.AllergyCount,
			TeacherCount: o.TeacherCount,
			Memo:         o.Memo,
		})
	}
	return out
}

// openDays: buang hari StrictLocked dari rencana. GraceLocked tetap ikut:
// submit setelah Review dihitung sebagai konfirmasi.
func (s *Service) openDays(planned []PlannedOrder) (kept []PlannedOrder, dropped int) {
	kept = make([]PlannedOrder, 0, len(planned))
	seen := map[string]bool{}
	for _, o := range planned {
		if s.Orders.State(o.Date) == deadline.StrictLocked {
			if !seen[o.DateStr] {
				seen[o.DateStr] = true
				dropped++
			}
			continue
		}
		kept = append(kept, o)
	}
	return kept, dropped
}

// Submit: roster full-replace + bulk upsert order + status draft, semuanya dalam
// SATU transaksi. Gagal di mana pun → semua di-rollback.
// Hari StrictLocked tidak ditulis; roster baru berlaku dari tanggal 1, atau dari
// hari pertama yang masih terbuka kalau bulan sudah berjalan.
func (s *Service) Submit(ctx context.Context, sess authMw.Session, kindergartenID uuid.UUID, year int, month time.Month) (*SubmitResult, error) {
	var (
		res *SubmitResult
		kg  *kgModel.KindergartenModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if kg, err = s.loadKindergarten(ctx, tx, kindergartenID); err != nil {
			return err
		}
		m, err := s.Repo.FindDraft(ctx, tx, kindergartenID, year, int(month), true)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrDraftNotFound
		}
		if err := s.ensureNotSubmitted(ctx, tx, kindergartenID, year, month); err != nil {
			return err
		}
		if err := Step(m.MonthlySetupDraftState).Require(StepReview); err != nil {
			return err
		}
		p, err := decodePayload(m.MonthlySetupDraftPayload)
		if err != nil {
			return err
		}

		planned, dropped := s.openDays(Plan(planInput(kg, year, month, p)))
		if len(planned) == 0 && dropped > 0 {
			return fmt.Errorf("%w: %d年%d月の配食日はすべて締切済みです", orderService.ErrStrictLocked, year, int(month))
		}

		effective, _ := dbtime.MonthBounds(year, month)
		if dropped > 0 {
			effective = planned[0].Date
		}
		gen, err := s.Rosters.Replace(ctx, tx, kindergartenID, RosterInputs(p.Roster), &effective)
		if err != nil {
			return fmt.Errorf("roster: %w", err)
		}

		// validasi kelas terhadap roster yang baru dikonfirmasi; versi roster yang
		// berlaku belakangan di bulan ini tidak ikut menentukan order bulanan
		bulk, err := s.Orders.BulkUpsertTx(ctx, tx, sess, kg, toUpsertInputs(planned), orderService.BulkOptions{
			SkipDeadline: true,
			Roster:       gen,
		})
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}

		now := s.Now().UTC()
		m.MonthlySetupDraftState = string(StepSubmitted)
		m.MonthlySetupDraftSubmittedAt = &now
		if err := s.Repo.SaveDraft(ctx, tx, m); err != nil {
			return err
		}

		res = &SubmitResult{
			Draft:           toDraft(m, p, kg),
			RosterVersionID: gen.Version.ClassRosterVersionID,
			ServiceDays:     len(ServiceDays(year, month, kg.ServiceDays())),
			LockedDays:      dropped,
			OrderCount:      bulk.Count,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifySubmission(ctx, kg, year, month, res)
	return res, nil
}

func (s *Service) notifySubmission(ctx context.Context, kg *kgModel.KindergartenModel, year int, month time.Month, res *SubmitResult) {
	if s.Notifier == nil {
		return
	}
	kgID := kg.KindergartenID
	details := fmt.Sprintf("対象月: %d年%d月\n配食日数: %d\n注文件数: %d", year, int(month), res.ServiceDays, res.OrderCount)
	if err := s.Notifier.NotifyAdmins(ctx, nil, notifModel.KindMonthlySubmission, kg.KindergartenName, &kgID, "月次注文の提出", details); err != nil {
		log.Printf("[WARN] notifikasi monthly submit gagal kg=%s: %v", kgID, err)
	}
}

// Preview: rencana order tanpa menulis apa pun
func (s *Service) Preview(ctx context.Context, kindergartenID uuid.UUID, year int, month time.Month, p Payload) ([]PlannedOrder, error) {
	kg, err := s.loadKindergarten(ctx, nil, kindergartenID)
	if err != nil {
		return nil, err
	}
	roster, err := NormalizeRoster(p.Roster)
	if err != nil {
		return nil, err
	}
	p.Roster = roster
	return Plan(planInput(kg, year, month, p)), nil
}

/* ===================== roster helpers ===================== */

func RosterInputs(roster []RosterClass) []classService.ClassInput {
	out := make([]classService.ClassInput, 0, len(roster))
	for _, c := range roster {
		allergy := c.AllergyCount
		out = append(out, classService.ClassInput{
			ClassName:    c.ClassName,
			Grade:        c.Grade,
			Floor:        c.Floor,
			StudentCount: c.StudentCount,
			AllergyCount: &allergy,
			TeacherCount: c.TeacherCount,
		})
	}
	return out
}

// NormalizeRoster: aturan nama kelas sama dengan ReplaceClassMasters
func NormalizeRoster(roster []RosterClass) ([]RosterClass, error) {
	inputs, err := classService.NormalizeClasses(RosterInputs(roster))
	if err != nil {
		return nil, err
	}
	out := make([]RosterClass, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, RosterClass{
			ClassName:    in.ClassName,
			Grade:        in.Grade,
			Floor:        in.Floor,
			StudentCount: in.StudentCount,
			AllergyCount: *in.AllergyCount,
			TeacherCount: in.TeacherCount,
		})
	}
	return out, nil
}
