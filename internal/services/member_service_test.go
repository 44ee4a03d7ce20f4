package services

import (
	"errors"
	"testing"

	"tabi/internal/models/db_models"
	"tabi/pkg/utils"
)

func TestChangeRoleGate(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	editor := h.user("e@x.com", "e")
	viewer := h.user("v@x.com", "v")
	plan := h.plan(owner)
	planID := mustUUID(t, plan.ID)
	h.join(plan.ID, editor, db_models.RoleEditor)
	h.join(plan.ID, viewer, db_models.RoleViewer)

	cases := []struct {
		name          string
		actor, target *db_models.User
		role          string
		want          error
	}{
		{"viewer changes role", viewer, editor, "VIEWER", utils.ErrOwnerOrEditorOnly},
		{"target is owner", editor, owner, "VIEWER", utils.ErrOwnerImmutable},
		{"grant owner", owner, editor, "OWNER", utils.ErrOwnerNotGrantable},
		{"unknown role", owner, editor, "SUPERUSER", utils.ErrInvalidRole},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := h.members.ChangeRole(h.ctx, planID, c.actor.ID, c.target.ID, c.role)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}

	got, err := h.members.ChangeRole(h.ctx, planID, editor.ID, viewer.ID, "editor")
	if err != nil {
		t.Fatalf("editor promotes viewer: %v", err)
	}
	if got.Role != string(db_models.RoleEditor) || got.Nickname != "v" {
		t.Fatalf("member = %+v", got)
	}
}

func TestRemoveMemberGate(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	editor := h.user("e@x.com", "e")
	viewer := h.user("v@x.com", "v")
	plan := h.plan(owner)
	planID := mustUUID(t, plan.ID)
	h.join(plan.ID, editor, db_models.RoleEditor)
	h.join(plan.ID, viewer, db_models.RoleViewer)

	if err := h.members.RemoveMember(h.ctx, planID, viewer.ID, editor.ID); !errors.Is(err, utils.ErrPermissionDenied) {
		t.Fatalf("viewer removes: err = %v", err)
	}
	if err := h.members.RemoveMember(h.ctx, planID, editor.ID, owner.ID); !errors.Is(err, utils.ErrOwnerImmutable) {
		t.Fatalf("remove owner: err = %v", err)
	}
	if err := h.members.RemoveMember(h.ctx, planID, editor.ID, viewer.ID); err != nil {
		t.Fatalf("editor removes viewer: %v", err)
	}
	if ok, _ := h.perms.IsMember(h.ctx, planID, viewer.ID); ok {
		t.Fatal("viewer still a member")
	}
	if err := h.members.RemoveMember(h.ctx, planID, owner.ID, viewer.ID); !errors.Is(err, utils.ErrMemberNotFound) {
		t.Fatalf("remove twice: err = %v", err)
	}
}

func TestLeavePlan(t *testing.T) {
	h := newHarness(t)
	owner := h.user("owner@x.com", "owner")
	viewer := h.user("v@x.com", "v")
	plan := h.plan(owner)
	planID := mustUUID(t, plan.ID)
	h.join(plan.ID, viewer, db_models.RoleViewer)

	if err := h.members.LeavePlan(h.ctx, planID, owner.ID); !errors.Is(err, utils.ErrOwnerImmutable) {
		t.Fatalf("owner leaves: err = %v", err)
	}
	if err := h.members.LeavePlan(h.ctx, planID, viewer.ID); err != nil {
		t.Fatal(err)
	}
	members, err := h.members.ListMembers(h.ctx, planID, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0].Role != string(db_models.RoleOwner) {
		t.Fatalf("members = %+v", members)
	}
}
