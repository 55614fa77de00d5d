package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mamamire_backend/internals/databases/dbtest"
	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	"mamamire_backend/internals/features/orders/deadline"
	"mamamire_backend/internals/features/orders/orders/model"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeNotifier) NotifyAdmins(_ context.Context, _ *gorm.DB, kind, _ string, _ *uuid.UUID, action, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind+":"+action)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	kg       *kgModel.KindergartenModel
	notifier *fakeNotifier
	sess     authMw.Session
	admin    authMw.Session
}

func jst() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

func intPtr(v int) *int { return &v }

// now = Senin 2024-03-04 10:00 JST
//   03-04 → strict, 03-06 → grace, 03-11 → open, 03-09 (Sabtu) → bukan hari layanan
func newFixture(t *testing.T, withRoster bool) *fixture {
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

	loc := jst()
	kg := &kgModel.KindergartenModel{
		KindergartenCode:         "KG-" + uuid.NewString()[:8],
		KindergartenName:         "テスト幼稚園",
		KindergartenLoginID:      "login-" + uuid.NewString()[:8],
		KindergartenPasswordHash: "x",
		KindergartenCourseType:   "通常",
		KindergartenIsActive:     true,
	}
	kg.SetServiceDays(kgModel.DefaultServiceDays())
	kg.SetServiceLabels([]string{"カレー"})
	if err := db.Create(kg).Error; err != nil {
		t.Fatalf("create kg: %v", err)
	}

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, loc)
	rosters := classService.NewRosterService(db, loc)
	rosters.Now = func() time.Time { return now }
	if withRoster {
		eff := dbtime.Date(2024, 3, 1)
		_, err := rosters.Replace(context.Background(), nil, kg.KindergartenID, []classService.ClassInput{
			{ClassName: "ひよこ組", StudentCount: 15, AllergyCount: intPtr(1), TeacherCount: 1},
			{ClassName: "うさぎ組", StudentCount: 20, TeacherCount: 2},
		}, &eff)
		if err != nil {
			t.Fatalf("seed roster: %v", err)
		}
	}

	n := &fakeNotifier{}
	svc := New(db, rosters, n, deadline.DefaultPolicy(loc))
	svc.Now = func() time.Time { return now }

	return &fixture{
		db:       db,
		svc:      svc,
		kg:       kg,
		notifier: n,
		sess:     authMw.Session{SubjectID: kg.KindergartenID, Role: authMw.RoleKindergarten, KindergartenID: kg.KindergartenID},
		admin:    authMw.Session{SubjectID: uuid.New(), Role: authMw.RoleAdmin},
	}
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.OrderModel{}).Where("order_kindergarten_id = ?", f.kg.KindergartenID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestUpsert_OneRowPerKey(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	in := UpsertInput{Date: dbtime.Date(2024, 3, 11), ClassName: "ひよこ組", StudentCount: 10}

	first, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, in)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !first.Created || first.Deadline != deadline.Open {
		t.Fatalf("want created/open, got %+v", first)
	}

	in.StudentCount = 12
	in.MealType = "カレー"
	second, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, in)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Created {
		t.Fatalf("second upsert should update")
	}
	if second.Order.OrderID != first.Order.OrderID {
		t.Fatalf("order id changed: %s → %s", first.Order.OrderID, second.Order.OrderID)
	}
	if second.Order.OrderStudentCount != 12 || second.Order.OrderMealType != "カレー" {
		t.Fatalf("values not updated: %+v", second.Order)
	}
	if n := f.countOrders(t); n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
	if f.notifier.count() != 0 {
		t.Fatalf("open date must not notify")
	}
}

func TestUpsert_ByOrderID(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	date := dbtime.Date(2024, 3, 11)

	res, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{Date: date, ClassName: "ひよこ組", StudentCount: 5})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	id := res.Order.OrderID

	upd, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{OrderID: &id, Date: date, ClassName: "ひよこ組", StudentCount: 7, Memo: "遠足"})
	if err != nil {
		t.Fatalf("update by id: %v", err)
	}
	if upd.Order.OrderStudentCount != 7 || upd.Order.OrderMemo != "遠足" {
		t.Fatalf("not updated: %+v", upd.Order)
	}

	_, err = f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{OrderID: &id, Date: date, ClassName: "うさぎ組"})
	if !errors.Is(err, ErrOrderKeyMismatch) {
		t.Fatalf("want key mismatch, got %v", err)
	}

	missing := uuid.New()
	_, err = f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{OrderID: &missing, Date: date, ClassName: "ひよこ組"})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestUpsert_Deadlines(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	strictDay := dbtime.Date(2024, 3, 4)
	graceDay := dbtime.Date(2024, 3, 6)

	_, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{Date: strictDay, ClassName: "ひよこ組"})
	if !errors.Is(err, ErrStrictLocked) {
		t.Fatalf("want strict locked, got %v", err)
	}

	// konfirmasi grace tidak membuka strict
	_, err = f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{Date: strictDay, ClassName: "ひよこ組", ConfirmGrace: true})
	if !errors.Is(err, ErrStrictLocked) {
		t.Fatalf("confirm must not bypass strict, got %v", err)
	}

	_, err = f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{Date: graceDay, ClassName: "ひよこ組"})
	if !errors.Is(err, ErrGraceConfirmationRequired) {
		t.Fatalf("want grace confirmation, got %v", err)
	}
	if n := f.countOrders(t); n != 0 {
		t.Fatalf("refused writes must not persist, got %d rows", n)
	}

	res, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, UpsertInput{Date: graceDay, ClassName: "ひよこ組", ConfirmGrace: true})
	if err != nil {
		t.Fatalf("confirmed grace: %v", err)
	}
	if res.Deadline != deadline.GraceLocked {
		t.Fatalf("want grace state, got %s", res.Deadline)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("grace change should notify admins once, got %d", f.notifier.count())
	}

	// admin (telepon) melewati deadline, tanpa notifikasi
	if _, err := f.svc.Upsert(ctx, f.admin, f.kg.KindergartenID, UpsertInput{Date: strictDay, ClassName: "ひよこ組"}); err != nil {
		t.Fatalf("admin bypass: %v", err)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("admin change must not notify")
	}
}

func TestUpsert_NotifierFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t, true)
	f.notifier.err = errors.New("smtp down")
	_, err := f.svc.Upsert(context.Background(), f.sess, f.kg.KindergartenID,
		UpsertInput{Date: dbtime.Date(2024, 3, 6), ClassName: "ひよこ組", ConfirmGrace: true})
	if err != nil {
		t.Fatalf("write should succeed: %v", err)
	}
	if n := f.countOrders(t); n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
}

func TestUpsert_Rejections(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	open := dbtime.Date(2024, 3, 11)

	tests := []struct {
		name string
		in   UpsertInput
		want error
	}{
		{"saturday", UpsertInput{Date: dbtime.Date(2024, 3, 9), ClassName: "ひよこ組"}, ErrNotServiceDay},
		{"unknown class", UpsertInput{Date: open, ClassName: "きりん組"}, ErrUnknownClass},
		{"meal type not offered", UpsertInput{Date: open, ClassName: "ひよこ組", MealType: "パン"}, ErrInvalidMealType},
		{"negative", UpsertInput{Date: open, ClassName: "ひよこ組", AllergyCount: -1}, ErrNegativeCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Upsert(ctx, f.sess, f.kg.KindergartenID, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := f.svc.Upsert(ctx, f.sess, uuid.New(), UpsertInput{Date: open}); !errors.Is(err, ErrKindergartenNotFound) {
		t.Fatalf("want kindergarten not found, got %v", err)
	}
	if n := f.countOrders(t); n != 0 {
		t.Fatalf("rejected inputs persisted %d rows", n)
	}
}

func TestUpsert_ClasslessForcesCommonClass(t *testing.T) {
	f := newFixture(t, false)
	res, err := f.svc.Upsert(context.Background(), f.sess, f.kg.KindergartenID,
		UpsertInput{Date: dbtime.Date(2024, 3, 11), ClassName: "どこか", StudentCount: 40})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Order.OrderClassName != classModel.ClasslessName {
		t.Fatalf("want 共通, got %q", res.Order.OrderClassName)
	}
}

func TestBulkUpsert_AllOrNothing(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	open := dbtime.Date(2024, 3, 11)

	_, err := f.svc.BulkUpsert(ctx, f.sess, f.kg.KindergartenID, []UpsertInput{
		{Date: open, ClassName: "ひよこ組", StudentCount: 1},
		{Date: open, ClassName: "きりん組", StudentCount: 1},
	}, BulkOptions{})
	if !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("want unknown class, got %v", err)
	}
	if n := f.countOrders(t); n != 0 {
		t.Fatalf("failed batch persisted %d rows", n)
	}

	res, err := f.svc.BulkUpsert(ctx, f.sess, f.kg.KindergartenID, []UpsertInput{
		{Date: open, ClassName: "ひよこ組", StudentCount: 1},
		{Date: open, ClassName: "うさぎ組", StudentCount: 2},
		{Date: open, ClassName: "ひよこ組", StudentCount: 3}, // duplikat: terakhir menang
	}, BulkOptions{})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("want 2 rows, got %d", res.Count)
	}
	got, err := f.svc.Orders.FindByKey(ctx, nil, f.kg.KindergartenID, open, "ひよこ組")
	if err != nil || got.OrderStudentCount != 3 {
		t.Fatalf("last duplicate should win: %+v %v", got, err)
	}
}

func TestBulkUpsert_GraceBatchConfirm(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	inputs := []UpsertInput{
		{Date: dbtime.Date(2024, 3, 6), ClassName: "ひよこ組"},
		{Date: dbtime.Date(2024, 3, 11), ClassName: "ひよこ組"},
	}
	if _, err := f.svc.BulkUpsert(ctx, f.sess, f.kg.KindergartenID, inputs, BulkOptions{}); !errors.Is(err, ErrGraceConfirmationRequired) {
		t.Fatalf("want grace confirmation, got %v", err)
	}
	res, err := f.svc.BulkUpsert(ctx, f.sess, f.kg.KindergartenID, inputs, BulkOptions{ConfirmGrace: true})
	if err != nil {
		t.Fatalf("confirmed bulk: %v", err)
	}
	if len(res.GraceDates) != 1 || res.GraceDates[0] != "2024-03-06" {
		t.Fatalf("grace dates = %v", res.GraceDates)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("want one batch notification, got %d", f.notifier.count())
	}

	// jalur monthly setup: deadline dilewati
	res, err = f.svc.BulkUpsert(ctx, f.sess, f.kg.KindergartenID,
		[]UpsertInput{{Date: dbtime.Date(2024, 3, 4), ClassName: "うさぎ組"}}, BulkOptions{SkipDeadline: true})
	if err != nil || res.Count != 1 {
		t.Fatalf("skip deadline: %+v %v", res, err)
	}
}

func TestCalendarDefaultsAndStatus(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	id := f.kg.KindergartenID

	if _, err := f.svc.Upsert(ctx, f.sess, id, UpsertInput{Date: dbtime.Date(2024, 3, 11), ClassName: "ひよこ組", StudentCount: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	cal, err := f.svc.Calendar(ctx, id, 2024, time.March)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(cal.Days) != 31 || !cal.Submitted || len(cal.MealTypeOptions) != 3 {
		t.Fatalf("unexpected calendar: days=%d submitted=%v options=%v", len(cal.Days), cal.Submitted, cal.MealTypeOptions)
	}
	wantLock := map[int]deadline.State{4: deadline.StrictLocked, 6: deadline.GraceLocked, 9: "", 11: deadline.Open}
	for day, want := range wantLock {
		if got := cal.Days[day-1].LockState; got != want {
			t.Errorf("03-%02d lock = %q, want %q", day, got, want)
		}
	}
	if cal.Days[8].IsServiceDay {
		t.Errorf("saturday should not be a service day")
	}
	if len(cal.Days[10].Orders) != 1 || len(cal.Days[10].Classes) != 2 {
		t.Fatalf("03-11: orders=%d classes=%d", len(cal.Days[10].Orders), len(cal.Days[10].Classes))
	}

	def, err := f.svc.Defaults(ctx, id, dbtime.Date(2024, 3, 11))
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	byClass := map[string]classService.Defaults{}
	for _, e := range def.Entries {
		byClass[e.ClassName] = e
	}
	if e := byClass["ひよこ組"]; !e.FromOrder || e.StudentCount != 10 {
		t.Fatalf("existing order should win: %+v", e)
	}
	if e := byClass["うさぎ組"]; e.FromOrder || e.StudentCount != 20 || e.TeacherCount != 2 {
		t.Fatalf("roster defaults expected: %+v", e)
	}

	st, err := f.svc.MonthStatus(ctx, id, 2024, time.April)
	if err != nil || st.Submitted || st.OrderCount != 0 {
		t.Fatalf("april status: %+v %v", st, err)
	}
}
