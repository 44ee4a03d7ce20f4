package services

import (
	"errors"
	"testing"

	"tabi/internal/models/request_models"
	"tabi/pkg/utils"
)

func (h *harness) signupCode(email string) string {
	h.t.Helper()
	if _, err := h.accounts.RequestSignupCode(h.ctx, request_models.SignupCodeRequest{Email: email}); err != nil {
		h.t.Fatalf("request code: %v", err)
	}
	if len(h.mailer.Codes) == 0 {
		h.t.Fatal("no code mailed")
	}
	return h.mailer.Codes[len(h.mailer.Codes)-1].Code
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	code := h.signupCode("New@X.com")
	if len(code) != signupCodeLength {
		t.Fatalf("code = %q", code)
	}

	resp, err := h.accounts.Register(h.ctx, request_models.SignUpRequest{
		Email: "new@x.com", Nickname: "newbie", Password: "secret1", Code: code,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.User.Email != "new@x.com" || resp.AcceptedPlanID != "" {
		t.Fatalf("register resp = %+v", resp)
	}

	login, err := h.accounts.Login(h.ctx, request_models.LoginRequest{Email: "new@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	me, err := h.accounts.Me(h.ctx, mustUUID(t, login.User.ID))
	if err != nil || me.Nickname != "newbie" {
		t.Fatalf("me = %+v, err = %v", me, err)
	}

	if _, err := h.accounts.Login(h.ctx, request_models.LoginRequest{Email: "new@x.com", Password: "wrong-pass"}); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("bad password: err = %v", err)
	}
	if _, err := h.accounts.Login(h.ctx, request_models.LoginRequest{Email: "ghost@x.com", Password: "secret1"}); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestRegisterRejectsBadCode(t *testing.T) {
	h := newHarness(t)
	code := h.signupCode("c@x.com")

	req := request_models.SignUpRequest{Email: "c@x.com", Nickname: "cee", Password: "secret1", Code: "000000"}
	if code == req.Code {
		req.Code = "111111"
	}
	if _, err := h.accounts.Register(h.ctx, req); !errors.Is(err, utils.ErrInvalidVerification) {
		t.Fatalf("wrong code: err = %v", err)
	}

	// a failed attempt consumes the code
	req.Code = code
	if _, err := h.accounts.Register(h.ctx, req); !errors.Is(err, utils.ErrInvalidVerification) {
		t.Fatalf("consumed code: err = %v", err)
	}
}

func TestRegisterConflicts(t *testing.T) {
	h := newHarness(t)
	h.user("taken@x.com", "taken")

	if _, err := h.accounts.RequestSignupCode(h.ctx, request_models.SignupCodeRequest{Email: "TAKEN@x.com"}); !errors.Is(err, utils.ErrEmailAlreadyExists) {
		t.Fatalf("code for existing email: err = %v", err)
	}

	code := h.signupCode("free@x.com")
	_, err := h.accounts.Register(h.ctx, request_models.SignUpRequest{Email: "free@x.com", Nickname: "taken", Password: "secret1", Code: code})
	if !errors.Is(err, utils.ErrNicknameTaken) {
		t.Fatalf("nickname: err = %v", err)
	}
	// the nickname check runs before the code is consumed
	if _, err := h.accounts.Register(h.ctx, request_models.SignUpRequest{Email: "free@x.com", Nickname: "free", Password: "secret1", Code: code}); err != nil {
		t.Fatalf("retry with free nickname: %v", err)
	}
}

func TestRegisterAcceptsInvitation(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	planID := mustUUID(t, h.plan(owner).ID)
	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "guest@x.com", Role: "EDITOR"})
	if err != nil {
		t.Fatal(err)
	}

	code := h.signupCode("guest@x.com")
	resp, err := h.accounts.Register(h.ctx, request_models.SignUpRequest{
		Email: "guest@x.com", Nickname: "guest", Password: "secret1", Code: code, InvitationToken: inv.Token,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.AcceptedPlanID != planID.String() || resp.RedirectPath != PlanRedirectPath(planID) {
		t.Fatalf("resp = %+v", resp)
	}
	if ok, _ := h.perms.IsMember(h.ctx, planID, mustUUID(t, resp.User.ID)); !ok {
		t.Fatal("guest not added to the plan")
	}
}

func TestRegisterIgnoresBadInvitation(t *testing.T) {
	h := newHarness(t)
	code := h.signupCode("solo@x.com")
	resp, err := h.accounts.Register(h.ctx, request_models.SignUpRequest{
		Email: "solo@x.com", Nickname: "solo", Password: "secret1", Code: code, InvitationToken: "no-such-token",
	})
	if err != nil {
		t.Fatalf("register with bad token: %v", err)
	}
	if resp.AcceptedPlanID != "" || resp.Token == "" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRequestSignupCodeMailFailure(t *testing.T) {
	h := newHarness(t)
	h.mailer.Fail = true
	if _, err := h.accounts.RequestSignupCode(h.ctx, request_models.SignupCodeRequest{Email: "m@x.com"}); err == nil {
		t.Fatal("expected error when mail is down")
	}
}
