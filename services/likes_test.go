package services

import (
	"context"
	"errors"
	"testing"
)

func TestLikeToggle(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)
	ctx := context.Background()

	state, err := svc.Toggle(ctx, "trip-1", "u1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !state.Liked || state.Count != 1 {
		t.Errorf("state = %+v, want liked with count 1", state)
	}

	state, err = svc.Toggle(ctx, "trip-1", "u1")
	if err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if state.Liked || state.Count != 0 {
		t.Errorf("state = %+v, want unliked with count 0", state)
	}
}

func TestLikeCountsPerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		if _, err := svc.Toggle(ctx, "trip-1", u); err != nil {
			t.Fatalf("toggle %s: %v", u, err)
		}
	}

	state, err := svc.State(ctx, "trip-1", "u2")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Count != 3 || !state.Liked {
		t.Errorf("state = %+v, want count 3 and liked", state)
	}

	state, _ = svc.State(ctx, "trip-1", "outsider")
	if state.Liked {
		t.Error("outsider shown as having liked")
	}
}

func TestLikeInvalidSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db)

	_, err := svc.Toggle(context.Background(), "Bad Slug", "u1")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
