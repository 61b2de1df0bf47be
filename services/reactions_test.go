package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"inkwell/models"
)

func TestToggleLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	in := ToggleInput{
		SubjectType: models.SubjectPost,
		SubjectID:   "trip-1",
		UserID:      "u1",
		Kind:        models.ReactionLove,
		Anonymous:   true,
	}

	out, err := svc.Toggle(ctx, in)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if out != ToggleAdded {
		t.Errorf("first toggle = %s, want added", out)
	}

	sum, err := svc.Aggregate(ctx, models.SubjectPost, "trip-1", "u1", false)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if sum.Kinds[models.ReactionLove].Count != 1 {
		t.Errorf("love count = %d, want 1", sum.Kinds[models.ReactionLove].Count)
	}
	if sum.Mine != models.ReactionLove {
		t.Errorf("mine = %q, want love", sum.Mine)
	}

	// Different kind switches in place; still one row.
	in.Kind = models.ReactionLaugh
	out, err = svc.Toggle(ctx, in)
	if err != nil {
		t.Fatalf("switch toggle: %v", err)
	}
	if out != ToggleChanged {
		t.Errorf("switch toggle = %s, want changed", out)
	}
	sum, _ = svc.Aggregate(ctx, models.SubjectPost, "trip-1", "u1", false)
	if sum.Kinds[models.ReactionLove].Count != 0 || sum.Kinds[models.ReactionLaugh].Count != 1 {
		t.Errorf("after switch: love=%d laugh=%d", sum.Kinds[models.ReactionLove].Count, sum.Kinds[models.ReactionLaugh].Count)
	}

	// Same kind removes.
	out, err = svc.Toggle(ctx, in)
	if err != nil {
		t.Fatalf("remove toggle: %v", err)
	}
	if out != ToggleRemoved {
		t.Errorf("remove toggle = %s, want removed", out)
	}
	sum, _ = svc.Aggregate(ctx, models.SubjectPost, "trip-1", "u1", false)
	if sum.Kinds[models.ReactionLaugh].Count != 0 {
		t.Errorf("laugh count after removal = %d, want 0", sum.Kinds[models.ReactionLaugh].Count)
	}
	if sum.Mine != "" {
		t.Errorf("mine after removal = %q, want empty", sum.Mine)
	}
}

func TestToggleUnknownKind(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)

	_, err := svc.Toggle(context.Background(), ToggleInput{
		SubjectType: models.SubjectPost,
		SubjectID:   "trip-1",
		UserID:      "u1",
		Kind:        "sparkle",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAggregateAllKindsPresent(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)

	sum, err := svc.Aggregate(context.Background(), models.SubjectPost, "empty-post", "", false)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(sum.Kinds) != len(models.ReactionKinds) {
		t.Fatalf("kinds = %d, want %d", len(sum.Kinds), len(models.ReactionKinds))
	}
	for _, k := range models.ReactionKinds {
		ks, ok := sum.Kinds[k]
		if !ok {
			t.Errorf("kind %s missing from aggregate", k)
			continue
		}
		if ks.Count != 0 {
			t.Errorf("kind %s count = %d, want 0", k, ks.Count)
		}
	}
}

func TestSetDisplayWithoutReaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)

	err := svc.SetDisplay(context.Background(), models.SubjectPost, "trip-1", "stranger", false, "Alice")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	var count int64
	db.Model(&models.Reaction{}).Count(&count)
	if count != 0 {
		t.Errorf("row count = %d, want 0 after failed SetDisplay", count)
	}
}

func TestSetDisplayUpdatesPreferenceOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, ToggleInput{
		SubjectType: models.SubjectPost, SubjectID: "trip-1", UserID: "u1",
		Kind: models.ReactionWow, Anonymous: true,
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := svc.SetDisplay(ctx, models.SubjectPost, "trip-1", "u1", false, "Bob"); err != nil {
		t.Fatalf("set display: %v", err)
	}

	sum, err := svc.Aggregate(ctx, models.SubjectPost, "trip-1", "u1", true)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if sum.Mine != models.ReactionWow {
		t.Errorf("kind changed by SetDisplay: %q", sum.Mine)
	}
	wow := sum.Kinds[models.ReactionWow]
	if len(wow.Names) != 1 || wow.Names[0] != "Bob" {
		t.Errorf("names = %v, want [Bob]", wow.Names)
	}
}

func TestNamesExcludeAnonymous(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	// Anonymous reactor supplies a name; it must never surface.
	_, err := svc.Toggle(ctx, ToggleInput{
		SubjectType: models.SubjectPost, SubjectID: "trip-1", UserID: "anon",
		Kind: models.ReactionLike, Anonymous: true, DisplayName: "Hidden Harry",
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	_, err = svc.Toggle(ctx, ToggleInput{
		SubjectType: models.SubjectPost, SubjectID: "trip-1", UserID: "named",
		Kind: models.ReactionLike, Anonymous: false, DisplayName: "Visible Vera",
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	sum, err := svc.Aggregate(ctx, models.SubjectPost, "trip-1", "", true)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	like := sum.Kinds[models.ReactionLike]
	if like.Count != 2 {
		t.Errorf("count = %d, want 2", like.Count)
	}
	if len(like.Names) != 1 || like.Names[0] != "Visible Vera" {
		t.Errorf("names = %v, want only Visible Vera", like.Names)
	}
}

func TestNamesCappedWithIndicator(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Toggle(ctx, ToggleInput{
			SubjectType: models.SubjectPost, SubjectID: "popular", UserID: fmt.Sprintf("u%d", i),
			Kind: models.ReactionLove, Anonymous: false, DisplayName: fmt.Sprintf("Reader %d", i),
		})
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	sum, err := svc.Aggregate(ctx, models.SubjectPost, "popular", "", true)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	love := sum.Kinds[models.ReactionLove]
	if love.Count != 12 {
		t.Errorf("count = %d, want 12", love.Count)
	}
	if len(love.Names) != 10 {
		t.Errorf("len(names) = %d, want 10", len(love.Names))
	}
	if !love.MoreNames {
		t.Error("MoreNames = false, want true")
	}
}

func TestNamesRecencyOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, u := range []string{"first", "second", "third"} {
		_, err := svc.Toggle(ctx, ToggleInput{
			SubjectType: models.SubjectPost, SubjectID: "trip-1", UserID: u,
			Kind: models.ReactionSad, Anonymous: false, DisplayName: u,
		})
		if err != nil {
			t.Fatalf("toggle %s: %v", u, err)
		}
		// Pin distinct update times so the ordering is deterministic.
		db.Model(&models.Reaction{}).Where("user_id = ?", u).
			Update("updated_at", base.Add(time.Duration(i)*time.Minute))
	}

	sum, err := svc.Aggregate(ctx, models.SubjectPost, "trip-1", "", true)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	names := sum.Kinds[models.ReactionSad].Names
	want := []string{"third", "second", "first"}
	if len(names) != 3 {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestDisplayNameTruncated(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	long := ""
	for i := 0; i < 60; i++ {
		long += "x"
	}
	_, err := svc.Toggle(ctx, ToggleInput{
		SubjectType: models.SubjectPost, SubjectID: "trip-1", UserID: "u1",
		Kind: models.ReactionAngry, Anonymous: false, DisplayName: long,
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	sum, _ := svc.Aggregate(ctx, models.SubjectPost, "trip-1", "", true)
	names := sum.Kinds[models.ReactionAngry].Names
	if len(names) != 1 || len([]rune(names[0])) != 40 {
		t.Errorf("names = %v, want one 40-rune name", names)
	}
}

func TestSubjectsIsolated(t *testing.T) {
	db := newTestDB(t)
	svc := NewReactionService(db)
	ctx := context.Background()

	// Same user on the same id under two subject types holds two rows.
	for _, st := range []models.SubjectType{models.SubjectPost, models.SubjectComment} {
		_, err := svc.Toggle(ctx, ToggleInput{
			SubjectType: st, SubjectID: "shared-id", UserID: "u1", Kind: models.ReactionLike,
		})
		if err != nil {
			t.Fatalf("toggle %s: %v", st, err)
		}
	}

	var count int64
	db.Model(&models.Reaction{}).Count(&count)
	if count != 2 {
		t.Errorf("rows = %d, want 2", count)
	}
}
