package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tabi/internal/infra"
	dbm "tabi/internal/models/db_models"
	"tabi/internal/testkit"
)

func seedDay(t *testing.T, db *gorm.DB) (*dbm.Plan, *dbm.DailyPlan) {
	t.Helper()
	ctx := context.Background()
	user := &dbm.User{Email: "owner@example.com", Nickname: "owner", PasswordHash: "x"}
	if err := NewUserRepository(db).Insert(ctx, user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	day := datatypes.Date(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	plan := &dbm.Plan{UserID: user.ID, Title: "Kyoto", StartDate: day, EndDate: day}
	if err := NewPlanRepository(db).Create(ctx, plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	dp := &dbm.DailyPlan{PlanID: plan.ID, VisitDate: day}
	if err := NewDailyPlanRepository(db).Create(ctx, dp); err != nil {
		t.Fatalf("create day: %v", err)
	}
	return plan, dp
}

func TestSpotOrderKeysAndMax(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	_, day := seedDay(t, db)
	spots := NewSpotRepository(db)

	top, err := spots.MaxOrder(ctx, day.ID)
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if top != -1 {
		t.Fatalf("expected -1 for empty day, got %d", top)
	}

	for i, name := range []string{"Kinkakuji", "Ginkakuji", "Fushimi"} {
		s := &dbm.Spot{DailyPlanID: day.ID, Name: name, VisitOrder: 2 - i}
		if err := spots.Create(ctx, s); err != nil {
			t.Fatalf("create spot: %v", err)
		}
	}
	keys, err := spots.ListOrderKeys(ctx, day.ID)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	for i, k := range keys {
		if k.Order != i {
			t.Fatalf("expected ascending orders, got %+v", keys)
		}
		if k.ID == uuid.Nil {
			t.Fatal("expected scanned id")
		}
	}
	if top, _ := spots.MaxOrder(ctx, day.ID); top != 2 {
		t.Fatalf("expected max 2, got %d", top)
	}

	if err := spots.SetOrder(ctx, keys[0].ID, 7); err != nil {
		t.Fatalf("set order: %v", err)
	}
	got, _ := spots.FindByID(ctx, keys[0].ID)
	if got.VisitOrder != 7 {
		t.Fatalf("expected order 7, got %d", got.VisitOrder)
	}
}

func TestDeletingPlanCascadesToDaysAndSpots(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	plan, day := seedDay(t, db)
	spots := NewSpotRepository(db)
	a := &dbm.Spot{DailyPlanID: day.ID, Name: "A"}
	b := &dbm.Spot{DailyPlanID: day.ID, Name: "B", VisitOrder: 1}
	_ = spots.Create(ctx, a)
	_ = spots.Create(ctx, b)
	segs := NewTravelSegmentRepository(db)
	if err := segs.Create(ctx, &dbm.TravelSegment{DailyPlanID: day.ID, FromSpotID: a.ID, ToSpotID: b.ID, TravelMode: dbm.TravelModeWalk}); err != nil {
		t.Fatalf("create segment: %v", err)
	}

	if err := NewPlanRepository(db).Delete(ctx, plan.ID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	if d, _ := NewDailyPlanRepository(db).FindByID(ctx, day.ID); d != nil {
		t.Fatal("expected daily plan to cascade")
	}
	if s, _ := spots.FindByID(ctx, a.ID); s != nil {
		t.Fatal("expected spot to cascade")
	}
	if left, _ := segs.ListByDailyPlan(ctx, day.ID); len(left) != 0 {
		t.Fatalf("expected segments to cascade, got %d", len(left))
	}
}

func TestDailyPlanUniquePerDate(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	plan, day := seedDay(t, db)
	err := NewDailyPlanRepository(db).Create(ctx, &dbm.DailyPlan{PlanID: plan.ID, VisitDate: day.VisitDate})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key, got %v", err)
	}
	found, err := NewDailyPlanRepository(db).FindByPlanAndDate(ctx, plan.ID, day.VisitDate)
	if err != nil || found == nil || found.ID != day.ID {
		t.Fatalf("expected lookup by date, got %v %v", found, err)
	}
}

func TestTransactorRollsBack(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	_, day := seedDay(t, db)
	spots := NewSpotRepository(db)
	tx := infra.NewTransactor(db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := spots.Create(ctx, &dbm.Spot{DailyPlanID: day.ID, Name: "temp"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if left, _ := spots.ListByDailyPlan(ctx, day.ID); len(left) != 0 {
		t.Fatalf("expected rollback, found %d spots", len(left))
	}
}

func TestInvitationDeleteByPlanAndEmailIgnoresCase(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	plan, _ := seedDay(t, db)
	repo := NewInvitationRepository(db)
	inv := &dbm.PlanInvitation{
		PlanID: plan.ID, InviteeEmail: "b@x.com", InviterID: plan.UserID, Token: "t1",
		Role: dbm.RoleEditor, Status: dbm.InvitationAccepted, ExpiresAt: time.Now().Unix(),
	}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := repo.DeleteByPlanAndEmail(ctx, plan.ID, " B@X.com ")
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted row, got %d %v", n, err)
	}
}

func TestVerificationCodeRepository(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	repo := NewVerificationCodeRepository(db)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	if err := repo.Put(ctx, "signup:a@example.com", "111111", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "signup:a@example.com", "222222", time.Minute); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := repo.GetAndConsume(ctx, "signup:a@example.com")
	if err != nil || !ok || v != "222222" {
		t.Fatalf("expected latest code, got %q %v %v", v, ok, err)
	}
	if _, ok, _ := repo.GetAndConsume(ctx, "signup:a@example.com"); ok {
		t.Fatal("expected code to be single use")
	}

	_ = repo.Put(ctx, "signup:b@example.com", "333333", time.Minute)
	repo.now = func() time.Time { return base.Add(5 * time.Minute) }
	if _, ok, _ := repo.GetAndConsume(ctx, "signup:b@example.com"); ok {
		t.Fatal("expected expired code to miss")
	}
}
