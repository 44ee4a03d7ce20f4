package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tabi/internal/api/controllers"
	"tabi/internal/infra"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/internal/services"
	"tabi/internal/testkit"
	mem "tabi/pkg/memcache"
	"tabi/pkg/utils"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	router *gin.Engine
	mailer *testkit.FakeMailer
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testkit.NewDB(t)
	log := zap.NewNop()
	tx := infra.NewTransactor(db)
	mailer := &testkit.FakeMailer{}

	userRepo := repositories.NewUserRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	dayRepo := repositories.NewDailyPlanRepository(db)
	spotRepo := repositories.NewSpotRepository(db)
	segmentRepo := repositories.NewTravelSegmentRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	invitationRepo := repositories.NewInvitationRepository(db)

	ordering := services.NewOrderingEngine()
	perms := services.NewPermissionService(memberRepo, log)
	invitations := services.NewInvitationService(invitationRepo, memberRepo, userRepo, planRepo, perms, tx, mailer, log,
		services.InvitationSettings{TTL: 7 * 24 * time.Hour, DeleteAfterAccept: true})
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)

	ctrl := Controllers{
		Account: controllers.NewAccountController(
			services.NewAccountService(userRepo, mem.NewCodeStore(), invitations, mailer, tokens, log, 10*time.Minute)),
		Plan: controllers.NewPlanController(
			services.NewPlanService(planRepo, dayRepo, memberRepo, invitationRepo, expenseRepo, perms, tx, log, 30),
			services.NewDailyPlanService(planRepo, dayRepo, spotRepo, segmentRepo, expenseRepo, perms, tx, log)),
		Itinerary: controllers.NewItineraryController(
			services.NewSpotService(spotRepo, segmentRepo, expenseRepo, dayRepo, perms, ordering, tx, log),
			services.NewTravelSegmentService(segmentRepo, spotRepo, dayRepo, perms, ordering, tx, log)),
		Expense: controllers.NewExpenseController(
			services.NewExpenseService(expenseRepo, planRepo, dayRepo, spotRepo, perms, tx, log),
			services.NewWarikanService(planRepo, memberRepo, expenseRepo, perms, mailer, log)),
		Member:     controllers.NewMemberController(services.NewMemberService(memberRepo, planRepo, perms, tx, log)),
		Invitation: controllers.NewInvitationController(invitations),
	}

	return &server{
		t:      t,
		router: NewRouter(ctrl, tokens, log, nil),
		mailer: mailer,
	}
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func (s *server) expect(code int, method, path, token string, body any, out any) envelope {
	s.t.Helper()
	w, env := s.do(method, path, token, body)
	if w.Code != code {
		s.t.Fatalf("%s %s: status %d, want %d (%s)", method, path, w.Code, code, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

// signup registers an account through the code flow and returns its token.
func (s *server) signup(email, nickname, invitationToken string) response_models.AccountLoginResponse {
	s.t.Helper()
	s.expect(http.StatusOK, http.MethodPost, "/api/auth/signup-code", "", gin.H{"email": email}, nil)
	code := s.mailer.Codes[len(s.mailer.Codes)-1].Code

	var resp response_models.AccountLoginResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "nickname": nickname, "password": "secret1", "code": code,
		"invitation_token": invitationToken,
	}, &resp)
	return resp
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)

	_, env := s.do(http.MethodGet, "/api/plans", "", nil)
	if env.Code != http.StatusUnauthorized || env.Status != "error" {
		t.Fatalf("no token: %+v", env)
	}
	w, _ := s.do(http.MethodGet, "/api/me", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", w.Code)
	}
	if w.Header().Get("X-Trace-ID") == "" {
		t.Fatal("missing trace id header")
	}
}

func TestItineraryOverHTTP(t *testing.T) {
	s := newServer(t)
	owner := s.signup("owner@x.com", "owner", "")

	var me response_models.UserResponse
	s.expect(http.StatusOK, http.MethodGet, "/api/me", owner.Token, nil, &me)
	if me.Email != "owner@x.com" {
		t.Fatalf("me = %+v", me)
	}

	var plan response_models.PlanDetailResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/plans", owner.Token, gin.H{
		"title": "Osaka", "start_date": "2025-05-01", "end_date": "2025-05-02",
	}, &plan)
	if len(plan.DailyPlans) != 2 || plan.Role != "OWNER" {
		t.Fatalf("plan = %+v", plan)
	}
	dayPath := "/api/days/" + plan.DailyPlans[0].ID

	var first, second response_models.SpotResponse
	s.expect(http.StatusCreated, http.MethodPost, dayPath+"/spots", owner.Token, gin.H{"name": "Castle", "visit_order": 0}, &first)
	s.expect(http.StatusCreated, http.MethodPost, dayPath+"/spots", owner.Token, gin.H{"name": "Market", "visit_order": 0}, &second)
	if first.VisitOrder != 0 || second.VisitOrder != 1 {
		t.Fatalf("orders = %d, %d", first.VisitOrder, second.VisitOrder)
	}

	s.expect(http.StatusOK, http.MethodDelete, "/api/spots/"+first.ID, owner.Token, nil, nil)

	var spots []response_models.SpotResponse
	s.expect(http.StatusOK, http.MethodGet, dayPath+"/spots", owner.Token, nil, &spots)
	if len(spots) != 1 || spots[0].ID != second.ID || spots[0].VisitOrder != 0 {
		t.Fatalf("spots = %+v", spots)
	}

	s.expect(http.StatusBadRequest, http.MethodGet, "/api/spots/not-a-uuid", owner.Token, nil, nil)
	s.expect(http.StatusBadRequest, http.MethodPost, dayPath+"/segments", owner.Token, gin.H{
		"from_spot_id": second.ID, "to_spot_id": second.ID, "travel_mode": "WALK",
	}, nil)
}

func TestInvitationFlowOverHTTP(t *testing.T) {
	s := newServer(t)
	owner := s.signup("owner@x.com", "owner", "")

	var plan response_models.PlanDetailResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/plans", owner.Token, gin.H{
		"title": "Sapporo", "start_date": "2025-02-01", "end_date": "2025-02-01",
	}, &plan)

	var inv response_models.InvitationResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/plans/"+plan.ID+"/invitations", owner.Token,
		gin.H{"email": "guest@x.com", "role": "VIEWER"}, &inv)

	var check response_models.InvitationCheckResponse
	s.expect(http.StatusOK, http.MethodGet, "/api/invitations/"+inv.Token, "", nil, &check)
	if check.Next != services.InvitationNextSignup || check.PlanTitle != "Sapporo" {
		t.Fatalf("anonymous check = %+v", check)
	}
	s.expect(http.StatusNotFound, http.MethodGet, "/api/invitations/unknown", "", nil, nil)

	// the owner is not the invitee
	s.expect(http.StatusForbidden, http.MethodPost, "/api/invitations/"+inv.Token+"/accept", owner.Token, nil, nil)

	guest := s.signup("guest@x.com", "guest", "")
	var accepted response_models.AcceptInvitationResponse
	s.expect(http.StatusOK, http.MethodPost, "/api/invitations/"+inv.Token+"/accept", guest.Token, nil, &accepted)
	if accepted.RedirectPath != "/plans/"+plan.ID {
		t.Fatalf("accepted = %+v", accepted)
	}

	var members []response_models.MemberResponse
	s.expect(http.StatusOK, http.MethodGet, "/api/plans/"+plan.ID+"/members", guest.Token, nil, &members)
	if len(members) != 2 || members[0].Role != "OWNER" {
		t.Fatalf("members = %+v", members)
	}

	// viewers cannot change roles, nobody can touch the owner
	s.expect(http.StatusForbidden, http.MethodPatch, "/api/plans/"+plan.ID+"/members/"+guest.User.ID, guest.Token, gin.H{"role": "EDITOR"}, nil)
	s.expect(http.StatusForbidden, http.MethodDelete, "/api/plans/"+plan.ID+"/members/"+owner.User.ID, owner.Token, nil, nil)
	s.expect(http.StatusBadRequest, http.MethodPatch, "/api/plans/"+plan.ID+"/members/"+guest.User.ID, owner.Token, gin.H{"role": "ADMIN"}, nil)
}

func TestSignupWithInvitationToken(t *testing.T) {
	s := newServer(t)
	owner := s.signup("owner@x.com", "owner", "")

	var plan response_models.PlanDetailResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/plans", owner.Token, gin.H{
		"title": "Nagoya", "start_date": "2025-03-01", "end_date": "2025-03-02",
	}, &plan)
	var inv response_models.InvitationResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/plans/"+plan.ID+"/invitations", owner.Token,
		gin.H{"email": "new@x.com", "role": "EDITOR"}, &inv)

	resp := s.signup("new@x.com", "newbie", inv.Token)
	if resp.AcceptedPlanID != plan.ID {
		t.Fatalf("register resp = %+v", resp)
	}
	s.expect(http.StatusOK, http.MethodGet, "/api/plans/"+plan.ID, resp.Token, nil, nil)
}

func TestExpensesAndWarikanOverHTTP(t *testing.T) {
	s := newServer(t)
	owner := s.signup("owner@x.com", "owner", "")
	outsider := s.signup("out@x.com", "out", "")

	var plan response_models.PlanDetailResponse
	s.expect(http.StatusCreated, http.MethodPost, "/api/plans", owner.Token, gin.H{
		"title": "Fukuoka", "start_date": "2025-04-01", "end_date": "2025-04-01", "total_budget": 5000,
	}, &plan)
	base := "/api/plans/" + plan.ID

	s.expect(http.StatusCreated, http.MethodPost, base+"/expenses", owner.Token, gin.H{"item": "Ramen", "amount": 1200, "category": "FOOD"}, nil)

	var summary response_models.BudgetSummaryResponse
	s.expect(http.StatusOK, http.MethodGet, base+"/budget", owner.Token, nil, &summary)
	if summary.Spent != 1200 || summary.Remaining != 3800 {
		t.Fatalf("summary = %+v", summary)
	}

	var split response_models.WarikanResponse
	s.expect(http.StatusOK, http.MethodGet, base+"/warikan", owner.Token, nil, &split)
	if split.Total != 1200 || split.MemberCount != 1 || split.PerPerson != 1200 {
		t.Fatalf("split = %+v", split)
	}
	s.expect(http.StatusForbidden, http.MethodGet, base+"/warikan", outsider.Token, nil, nil)

	var notify response_models.WarikanNotifyResponse
	s.expect(http.StatusOK, http.MethodPost, base+"/warikan/notify", owner.Token, nil, &notify)
	if notify.Sent != 1 {
		t.Fatalf("notify = %+v", notify)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/plans", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("headers = %v", w.Header())
	}
}
