package services

import (
	"errors"
	"testing"
	"time"

	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/pkg/utils"
)

func TestInviteAcceptScenario(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	userB := h.user("b@x.com", "bee")
	plan := h.plan(owner)
	planID := mustUUID(t, plan.ID)

	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "b@x.com", Role: "EDITOR"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if inv.Status != string(db_models.InvitationPending) || inv.Token == "" {
		t.Fatalf("invitation = %+v", inv)
	}
	if len(h.mailer.Invitations) != 1 || h.mailer.Invitations[0].Token != inv.Token || h.mailer.Invitations[0].PlanTitle != "Kyoto" {
		t.Fatalf("mail = %+v", h.mailer.Invitations)
	}

	accepted, err := h.invitations.Accept(h.ctx, inv.Token, userB.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.PlanID != plan.ID || accepted.RedirectPath != "/plans/"+plan.ID {
		t.Fatalf("accepted = %+v", accepted)
	}

	member, err := h.memberRepo.Find(h.ctx, planID, userB.ID)
	if err != nil || member == nil || member.Role != db_models.RoleEditor {
		t.Fatalf("member = %+v, err = %v", member, err)
	}
	if row, _ := h.invitationRepo.FindByToken(h.ctx, inv.Token); row != nil {
		t.Fatalf("invitation row kept after accept: %+v", row)
	}
}

func TestReinviteReplacesPendingRow(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	planID := mustUUID(t, h.plan(owner).ID)

	first, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "c@x.com", Role: "VIEWER"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: " C@X.com ", Role: "EDITOR"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Token == second.Token {
		t.Fatal("re-invite reused the token")
	}

	rows, err := h.invitationRepo.ListByPlan(h.ctx, planID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Token != second.Token || rows[0].Status != db_models.InvitationPending || rows[0].Role != db_models.RoleEditor {
		t.Fatalf("rows = %+v", rows)
	}
	if _, err := h.invitations.Accept(h.ctx, first.Token, owner.ID); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("old token: err = %v", err)
	}
}

func TestAcceptRequiresMatchingEmail(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	intruder := h.user("eve@x.com", "eve")
	invitee := h.user("Dave@X.com", "dave")
	planID := mustUUID(t, h.plan(owner).ID)

	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "dave@x.com", Role: "VIEWER"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.invitations.Accept(h.ctx, inv.Token, intruder.ID); !errors.Is(err, utils.ErrPermissionDenied) {
		t.Fatalf("mismatch: err = %v", err)
	}
	if ok, _ := h.invitations.EmailMatches(h.ctx, inv.Token, " DAVE@x.COM"); !ok {
		t.Fatal("EmailMatches should ignore case and spaces")
	}
	if _, err := h.invitations.Accept(h.ctx, inv.Token, invitee.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
}

func TestAcceptExpiredInvitation(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	invitee := h.user("late@x.com", "late")
	planID := mustUUID(t, h.plan(owner).ID)

	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: invitee.Email, Role: "VIEWER"})
	if err != nil {
		t.Fatal(err)
	}
	h.clock = h.clock.Add(7*24*time.Hour + time.Second)

	if _, err := h.invitations.Accept(h.ctx, inv.Token, invitee.ID); !errors.Is(err, utils.ErrInvitationExpired) {
		t.Fatalf("accept: err = %v", err)
	}
	if _, err := h.invitations.CheckByToken(h.ctx, inv.Token); !errors.Is(err, utils.ErrInvitationExpired) {
		t.Fatalf("check: err = %v", err)
	}

	// expiry wins even over a non-pending status
	if err := h.invitationRepo.UpdateStatus(h.ctx, mustUUID(t, inv.ID), db_models.InvitationRejected); err != nil {
		t.Fatal(err)
	}
	if _, err := h.invitations.Accept(h.ctx, inv.Token, invitee.ID); !errors.Is(err, utils.ErrInvitationExpired) {
		t.Fatalf("accept rejected+expired: err = %v", err)
	}

	list, err := h.invitations.ListInvitations(h.ctx, planID, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Status != string(db_models.InvitationRejected) {
		t.Fatalf("list = %+v", list)
	}
}

func TestRejectedInvitationCannotBeAccepted(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	invitee := h.user("r@x.com", "r")
	planID := mustUUID(t, h.plan(owner).ID)

	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: invitee.Email, Role: "VIEWER"})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.invitations.Reject(h.ctx, inv.Token, invitee.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := h.invitations.Accept(h.ctx, inv.Token, invitee.ID); !errors.Is(err, utils.ErrInvitationNotActive) {
		t.Fatalf("err = %v", err)
	}
}

func TestInviteGuards(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	viewer := h.user("v@x.com", "v")
	plan := h.plan(owner)
	planID := mustUUID(t, plan.ID)
	h.join(plan.ID, viewer, db_models.RoleViewer)

	cases := []struct {
		name  string
		actor *db_models.User
		req   request_models.InviteRequest
		want  error
	}{
		{"viewer invites", viewer, request_models.InviteRequest{Email: "n@x.com", Role: "VIEWER"}, utils.ErrPermissionDenied},
		{"owner role", owner, request_models.InviteRequest{Email: "n@x.com", Role: "OWNER"}, utils.ErrInvalidInput},
		{"unknown role", owner, request_models.InviteRequest{Email: "n@x.com", Role: "ADMIN"}, utils.ErrInvalidRole},
		{"already member", owner, request_models.InviteRequest{Email: "V@x.com", Role: "EDITOR"}, utils.ErrAlreadyMember},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := h.invitations.Invite(h.ctx, planID, c.actor.ID, c.req)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestInviteSurvivesMailFailure(t *testing.T) {
	h := newHarness(t)
	h.mailer.Fail = true
	owner := h.user("owner@x.com", "owner")
	planID := mustUUID(t, h.plan(owner).ID)

	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "m@x.com", Role: "VIEWER"})
	if err != nil {
		t.Fatalf("invite with mail down: %v", err)
	}
	if row, _ := h.invitationRepo.FindByToken(h.ctx, inv.Token); row == nil {
		t.Fatal("invitation not stored")
	}
	if len(h.mailer.Invitations) != 0 {
		t.Fatalf("mails recorded while down: %+v", h.mailer.Invitations)
	}
}

func TestResolveInvitation(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	known := h.user("known@x.com", "known")
	planID := mustUUID(t, h.plan(owner).ID)

	forKnown, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: known.Email, Role: "EDITOR"})
	if err != nil {
		t.Fatal(err)
	}
	forNew, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "new@x.com", Role: "VIEWER"})
	if err != nil {
		t.Fatal(err)
	}

	check, err := h.invitations.ResolveInvitation(h.ctx, forNew.Token, nil)
	if err != nil {
		t.Fatal(err)
	}
	if check.Next != InvitationNextSignup || check.UserExists {
		t.Fatalf("new user check = %+v", check)
	}

	check, err = h.invitations.ResolveInvitation(h.ctx, forKnown.Token, &Principal{UserID: owner.ID, Email: owner.Email})
	if err != nil {
		t.Fatal(err)
	}
	if check.Next != InvitationNextLogin || !check.UserExists || check.InviterName != "owner" {
		t.Fatalf("wrong principal check = %+v", check)
	}

	check, err = h.invitations.ResolveInvitation(h.ctx, forKnown.Token, &Principal{UserID: known.ID, Email: "KNOWN@x.com"})
	if err != nil {
		t.Fatal(err)
	}
	if check.Next != InvitationNextAccepted || check.RedirectPath != PlanRedirectPath(planID) {
		t.Fatalf("matching principal check = %+v", check)
	}
	if ok, _ := h.perms.IsMember(h.ctx, planID, known.ID); !ok {
		t.Fatal("auto-accept did not add the member")
	}
}

func TestCancelInvitation(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	planID := mustUUID(t, h.plan(owner).ID)
	otherPlan := mustUUID(t, h.plan(owner).ID)

	inv, err := h.invitations.Invite(h.ctx, planID, owner.ID, request_models.InviteRequest{Email: "z@x.com", Role: "VIEWER"})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.invitations.CancelInvitation(h.ctx, otherPlan, mustUUID(t, inv.ID), owner.ID); !errors.Is(err, utils.ErrInvitationNotFound) {
		t.Fatalf("cancel via other plan: err = %v", err)
	}
	if err := h.invitations.CancelInvitation(h.ctx, planID, mustUUID(t, inv.ID), owner.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := h.invitations.CheckByToken(h.ctx, inv.Token); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("check after cancel: err = %v", err)
	}
}
