package repository_test

import (
	"context"
	"testing"

	"MindBalance/internal/model"
	"MindBalance/internal/repository"
	"MindBalance/internal/testutil"
)

func TestGormStore_SeedDefaultsIsIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	if err := store.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if err := store.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults again: %v", err)
	}

	users, err := store.Users().List(ctx)
	if err != nil || len(users) != 5 {
		t.Fatalf("users=%d err=%v, want 5", len(users), err)
	}

	categories, err := store.Resources().Categories(ctx)
	if err != nil || len(categories) == 0 {
		t.Fatalf("categories=%v err=%v", categories, err)
	}
	for i := 1; i < len(categories); i++ {
		if categories[i-1] > categories[i] {
			t.Fatalf("categories not sorted: %v", categories)
		}
	}
}

func TestGormCheckIns_InsertionOrderAndScope(t *testing.T) {
	db := testutil.OpenTestDB(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	inputs := []model.CheckIn{
		{ID: "ck001", UserID: "user001", Date: "2026-10-12", Time: "09:00:00", Mood: 2, Energy: 2, Workload: model.WorkloadHeavy,
			RecommendedResources: []int{3, 6}, SuggestedActions: []string{"talk to your manager"}},
		{ID: "ck002", UserID: "user002", Date: "2026-10-11", Time: "10:00:00", Mood: 4, Energy: 3, Workload: model.WorkloadAdequate},
		{ID: "ck003", UserID: "user001", Date: "2026-10-13", Time: "08:30:00", Mood: 3, Energy: 4, Workload: model.WorkloadLight},
	}
	for i := range inputs {
		if err := store.CheckIns().Create(ctx, &inputs[i]); err != nil {
			t.Fatalf("Create %s: %v", inputs[i].ID, err)
		}
	}

	mine, err := store.CheckIns().ListByUser(ctx, "user001")
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByUser len=%d err=%v", len(mine), err)
	}
	if mine[0].ID != "ck001" || mine[1].ID != "ck003" {
		t.Fatalf("unexpected order %s, %s", mine[0].ID, mine[1].ID)
	}
	if len(mine[0].RecommendedResources) != 2 || mine[0].SuggestedActions[0] != "talk to your manager" {
		t.Fatalf("json columns not round-tripped: %+v", mine[0])
	}

	scoped, err := store.CheckIns().ListByUsers(ctx, []string{"user002"})
	if err != nil || len(scoped) != 1 || scoped[0].ID != "ck002" {
		t.Fatalf("ListByUsers=%v err=%v", scoped, err)
	}

	empty, err := store.CheckIns().ListByUsers(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("ListByUsers(nil)=%v err=%v", empty, err)
	}

	all, err := store.CheckIns().ListAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListAll len=%d err=%v", len(all), err)
	}
}

func TestGormUsersAndResources_NotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	if _, err := store.Users().GetByEmail(ctx, "nobody@company.com"); !repository.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Resources().GetByID(ctx, 42); !repository.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	u, err := store.Users().GetByEmail(ctx, "mariana.silva@company.com")
	if err != nil || u.Department != "Marketing" {
		t.Fatalf("GetByEmail=%+v err=%v", u, err)
	}

	heavy, err := store.Resources().List(ctx, repository.ResourceFilter{Category: "Stress Management"})
	if err != nil || len(heavy) != 2 {
		t.Fatalf("List filtered=%v err=%v", heavy, err)
	}
}
