package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inkwell/models"
)

func TestAskCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAskService(db, nil)

	sub, err := svc.Create(context.Background(), CreateAskInput{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Visiting in spring",
		Message: "Which month has the best weather for hiking?",
		Ref:     "/posts/trip-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.ID == 0 {
		t.Error("submission not persisted")
	}

	rows, total, err := svc.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Subject != "Visiting in spring" {
		t.Errorf("list = %v total = %d", rows, total)
	}
}

func TestAskValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAskService(db, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    CreateAskInput
		field string
	}{
		{"bad email", CreateAskInput{Name: "Ada", Email: "not-an-email", Subject: "Hello there", Message: "A long enough question body"}, "email"},
		{"short subject", CreateAskInput{Name: "Ada", Email: "a@b.com", Subject: "Hi", Message: "A long enough question body"}, "subject"},
		{"long subject", CreateAskInput{Name: "Ada", Email: "a@b.com", Subject: strings.Repeat("s", 201), Message: "A long enough question body"}, "subject"},
		{"short message", CreateAskInput{Name: "Ada", Email: "a@b.com", Subject: "Hello there", Message: "too short"}, "message"},
		{"empty name", CreateAskInput{Name: "", Email: "a@b.com", Subject: "Hello there", Message: "A long enough question body"}, "name"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(ctx, c.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if _, ok := ve.Fields[c.field]; !ok {
				t.Errorf("fields = %v, want %s flagged", ve.Fields, c.field)
			}
		})
	}

	var count int64
	db.Model(&models.AskSubmission{}).Count(&count)
	if count != 0 {
		t.Errorf("rows = %d, want 0 after rejected inputs", count)
	}
}
