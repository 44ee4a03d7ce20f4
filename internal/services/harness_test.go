package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/internal/testkit"
	mem "tabi/pkg/memcache"
	"tabi/pkg/utils"
)

type harness struct {
	t      *testing.T
	ctx    context.Context
	clock  time.Time
	mailer *testkit.FakeMailer
	codes  *mem.CodeStore

	userRepo       repositories.UserRepository
	memberRepo     repositories.MemberRepository
	invitationRepo repositories.InvitationRepository
	spotRepo       repositories.SpotRepository
	segmentRepo    repositories.TravelSegmentRepository
	expenseRepo    repositories.ExpenseRepository

	perms       PermissionServiceInterface
	plans       PlanServiceInterface
	days        DailyPlanServiceInterface
	spots       SpotServiceInterface
	segments    TravelSegmentServiceInterface
	expenses    ExpenseServiceInterface
	warikan     WarikanServiceInterface
	members     MemberServiceInterface
	invitations *InvitationService
	accounts    AccountServiceInterface
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testkit.NewDB(t)
	log := zap.NewNop()
	tx := infra.NewTransactor(db)

	h := &harness{
		t:      t,
		ctx:    context.Background(),
		clock:  time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		mailer: &testkit.FakeMailer{},
		codes:  mem.NewCodeStore(),

		userRepo:       repositories.NewUserRepository(db),
		memberRepo:     repositories.NewMemberRepository(db),
		invitationRepo: repositories.NewInvitationRepository(db),
		spotRepo:       repositories.NewSpotRepository(db),
		segmentRepo:    repositories.NewTravelSegmentRepository(db),
		expenseRepo:    repositories.NewExpenseRepository(db),
	}
	planRepo := repositories.NewPlanRepository(db)
	dayRepo := repositories.NewDailyPlanRepository(db)
	ordering := NewOrderingEngine()

	h.perms = NewPermissionService(h.memberRepo, log)
	h.plans = NewPlanService(planRepo, dayRepo, h.memberRepo, h.invitationRepo, h.expenseRepo, h.perms, tx, log, 30)
	h.days = NewDailyPlanService(planRepo, dayRepo, h.spotRepo, h.segmentRepo, h.expenseRepo, h.perms, tx, log)
	h.spots = NewSpotService(h.spotRepo, h.segmentRepo, h.expenseRepo, dayRepo, h.perms, ordering, tx, log)
	h.segments = NewTravelSegmentService(h.segmentRepo, h.spotRepo, dayRepo, h.perms, ordering, tx, log)
	h.expenses = NewExpenseService(h.expenseRepo, planRepo, dayRepo, h.spotRepo, h.perms, tx, log)
	h.warikan = NewWarikanService(planRepo, h.memberRepo, h.expenseRepo, h.perms, h.mailer, log)
	h.members = NewMemberService(h.memberRepo, planRepo, h.perms, tx, log)

	h.invitations = NewInvitationService(h.invitationRepo, h.memberRepo, h.userRepo, planRepo, h.perms, tx, h.mailer, log,
		InvitationSettings{TTL: 7 * 24 * time.Hour, DeleteAfterAccept: true})
	h.invitations.now = func() time.Time { return h.clock }

	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	h.accounts = NewAccountService(h.userRepo, h.codes, h.invitations, h.mailer, issuer, log, 10*time.Minute)
	return h
}

func (h *harness) user(email, nickname string) *db_models.User {
	h.t.Helper()
	u := &db_models.User{Email: email, Nickname: nickname, PasswordHash: "x"}
	if err := h.userRepo.Insert(h.ctx, u); err != nil {
		h.t.Fatalf("insert user %s: %v", email, err)
	}
	return u
}

// plan creates a three day plan owned by owner.
func (h *harness) plan(owner *db_models.User) *response_models.PlanDetailResponse {
	h.t.Helper()
	p, err := h.plans.CreatePlan(h.ctx, owner.ID, request_models.CreatePlanRequest{
		Title:       "Kyoto",
		StartDate:   "2025-05-01",
		EndDate:     "2025-05-03",
		TotalBudget: 100000,
	})
	if err != nil {
		h.t.Fatalf("create plan: %v", err)
	}
	return p
}

func (h *harness) join(planID string, u *db_models.User, role db_models.MemberRole) {
	h.t.Helper()
	m := &db_models.PlanMember{PlanID: mustUUID(h.t, planID), UserID: u.ID, Role: role}
	if err := h.memberRepo.Create(h.ctx, m); err != nil {
		h.t.Fatalf("add member: %v", err)
	}
}

func (h *harness) addSpot(dayID string, userID uuid.UUID, name string, order int) *response_models.SpotResponse {
	h.t.Helper()
	s, err := h.spots.AddSpot(h.ctx, mustUUID(h.t, dayID), userID, request_models.AddSpotRequest{Name: name, Order: order})
	if err != nil {
		h.t.Fatalf("add spot %s: %v", name, err)
	}
	return s
}

// assertDense checks the day's spot and segment orders are exactly 0..n-1.
func (h *harness) assertDense(dayID string) {
	h.t.Helper()
	id := mustUUID(h.t, dayID)
	for name, repo := range map[string]repositories.OrderedRepository{"spots": h.spotRepo, "segments": h.segmentRepo} {
		items, err := repo.ListOrderKeys(h.ctx, id)
		if err != nil {
			h.t.Fatalf("list %s: %v", name, err)
		}
		for i, it := range items {
			if it.Order != i {
				h.t.Fatalf("%s: position %d has order %d (%+v)", name, i, it.Order, items)
			}
		}
	}
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}
	return id
}

func ptr[T any](v T) *T { return &v }
