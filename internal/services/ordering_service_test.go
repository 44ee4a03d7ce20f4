package services

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/pkg/utils"
)

func TestEffectiveOrder(t *testing.T) {
	cases := []struct {
		requested, currentMax, want int
	}{
		{0, -1, 0},
		{0, 0, 1},
		{1, 3, 4},
		{3, 3, 4},
		{4, 3, 4},
		{9, 3, 9},
	}
	for _, c := range cases {
		if got := EffectiveOrder(c.requested, c.currentMax); got != c.want {
			t.Errorf("EffectiveOrder(%d, %d) = %d, want %d", c.requested, c.currentMax, got, c.want)
		}
	}
}

func TestRenumberClosesGapsAndBreaksTies(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	items := []db_models.OrderedItem{
		{ID: a, Order: 0, CreatedAt: 1},
		{ID: b, Order: 2, CreatedAt: 2},
		{ID: c, Order: 2, CreatedAt: 3},
	}
	changes := Renumber(items, nil)
	want := map[uuid.UUID]int{b: 1, c: 2}
	if len(changes) != 1 || changes[0].ID != b || changes[0].Order != want[b] {
		t.Fatalf("changes = %+v, want only b -> 1", changes)
	}

	// c moved up onto b's slot: c goes first among the tie
	changes = Renumber(items, &MoveHint{ID: c, Up: true})
	got := map[uuid.UUID]int{a: 0, b: 2, c: 2}
	for _, ch := range changes {
		got[ch.ID] = ch.Order
	}
	if got[c] != 1 || got[b] != 2 {
		t.Fatalf("move up: got %+v", got)
	}
}

func TestInsertBelowMaxAppends(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", "a")
	plan := h.plan(owner)
	day := plan.DailyPlans[0].ID

	first := h.addSpot(day, owner.ID, "Kinkaku-ji", 0)
	second := h.addSpot(day, owner.ID, "Ginkaku-ji", 0)
	if first.VisitOrder != 0 || second.VisitOrder != 1 {
		t.Fatalf("orders = %d, %d; want 0, 1", first.VisitOrder, second.VisitOrder)
	}
	third := h.addSpot(day, owner.ID, "Nanzen-ji", 1)
	if third.VisitOrder != 2 {
		t.Fatalf("requested 1 below max 1: got %d, want 2", third.VisitOrder)
	}
	far := h.addSpot(day, owner.ID, "Fushimi Inari", 10)
	if far.VisitOrder != 3 {
		t.Fatalf("requested past the end: got %d, want 3", far.VisitOrder)
	}
	h.assertDense(day)
}

func TestUpdateOrderMovesToRequestedPosition(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", "a")
	day := h.plan(owner).DailyPlans[0].ID

	var ids []uuid.UUID
	for i, name := range []string{"s0", "s1", "s2", "s3"} {
		ids = append(ids, mustUUID(t, h.addSpot(day, owner.ID, name, i).ID))
	}

	// s3 to the front
	moved, err := h.spots.UpdateSpot(h.ctx, ids[3], owner.ID, request_models.UpdateSpotRequest{Order: ptr(0)})
	if err != nil {
		t.Fatalf("move up: %v", err)
	}
	if moved.VisitOrder != 0 {
		t.Fatalf("moved up to %d, want 0", moved.VisitOrder)
	}
	// s0 (now at 1) to position 3
	moved, err = h.spots.UpdateSpot(h.ctx, ids[0], owner.ID, request_models.UpdateSpotRequest{Order: ptr(3)})
	if err != nil {
		t.Fatalf("move down: %v", err)
	}
	if moved.VisitOrder != 3 {
		t.Fatalf("moved down to %d, want 3", moved.VisitOrder)
	}

	spots, err := h.spots.ListSpots(h.ctx, mustUUID(t, day), owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range spots {
		names = append(names, s.Name)
	}
	want := []string{"s3", "s1", "s2", "s0"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
	h.assertDense(day)
}

func TestUpdateOrderRejectsNegative(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", "a")
	day := h.plan(owner).DailyPlans[0].ID
	s := h.addSpot(day, owner.ID, "s0", 0)

	_, err := h.spots.UpdateSpot(h.ctx, mustUUID(t, s.ID), owner.ID, request_models.UpdateSpotRequest{Order: ptr(-1)})
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestOrdersStayDenseUnderRandomEdits(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", "a")
	day := h.plan(owner).DailyPlans[0].ID
	dayID := mustUUID(t, day)
	rng := rand.New(rand.NewSource(7))

	var spots []uuid.UUID
	for step := 0; step < 60; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(spots) < 2:
			s := h.addSpot(day, owner.ID, "spot", rng.Intn(len(spots)+2))
			spots = append(spots, mustUUID(t, s.ID))
		case op == 1:
			i := rng.Intn(len(spots))
			if err := h.spots.DeleteSpot(h.ctx, spots[i], owner.ID); err != nil {
				t.Fatalf("step %d delete: %v", step, err)
			}
			spots = append(spots[:i], spots[i+1:]...)
		case op == 2:
			i := rng.Intn(len(spots))
			_, err := h.spots.UpdateSpot(h.ctx, spots[i], owner.ID, request_models.UpdateSpotRequest{Order: ptr(rng.Intn(len(spots) + 1))})
			if err != nil {
				t.Fatalf("step %d move: %v", step, err)
			}
		default:
			from, to := rng.Intn(len(spots)), rng.Intn(len(spots))
			if from == to {
				continue
			}
			_, err := h.segments.AddSegment(h.ctx, dayID, owner.ID, request_models.AddTravelSegmentRequest{
				FromSpotID: spots[from].String(),
				ToSpotID:   spots[to].String(),
				Order:      rng.Intn(3),
				TravelMode: "WALK",
			})
			if err != nil {
				t.Fatalf("step %d segment: %v", step, err)
			}
		}
		h.assertDense(day)
	}
}
