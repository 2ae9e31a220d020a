package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	sess := &domain.Session{ID: "s1", Title: "রাজবাড়ী চ্যাট", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := store.CreateSession(ctx, sess); !errors.Is(err, domain.ErrSessionExists) {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}

	sess.UpdatedAt = now.Add(time.Minute)
	if err := store.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Title != sess.Title || !got.UpdatedAt.Equal(sess.UpdatedAt) || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected session %+v", got)
	}

	if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.UpdateSession(ctx, &domain.Session{ID: "missing"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on update, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	if err := store.CreateSession(ctx, &domain.Session{ID: "s1", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	msgs := []*domain.Message{
		{ID: "m1", SessionID: "s1", Role: domain.RoleModel, Text: "স্বাগতম", Mode: domain.ModeLive, CreatedAt: now},
		{ID: "m2", SessionID: "s1", Role: domain.RoleUser, Text: "ট্রেন কখন?", CreatedAt: now},
		{ID: "m3", SessionID: "s1", Role: domain.RoleModel, Text: "দুঃখিত", Mode: domain.ModeFallback, IsError: true, CreatedAt: now},
		{ID: "m4", SessionID: "s1", Role: domain.RoleModel, Text: "৭টায়", Mode: domain.ModeLiveSearch, CreatedAt: now,
			Sources: []domain.Source{{Title: "Rail", URI: "https://railway.gov.bd"}}},
	}
	for _, m := range msgs {
		if err := store.AppendMessage(ctx, m); err != nil {
			t.Fatalf("AppendMessage(%s): %v", m.ID, err)
		}
	}

	all, err := store.GetMessagesBySession(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("GetMessagesBySession: %v", err)
	}
	if len(all) != 4 || all[0].ID != "m1" || all[3].ID != "m4" {
		t.Fatalf("expected insertion order, got %d messages", len(all))
	}
	if !all[2].IsError || all[2].Mode != domain.ModeFallback {
		t.Fatalf("fallback flags not persisted: %+v", all[2])
	}
	if len(all[3].Sources) != 1 || all[3].Sources[0].URI != "https://railway.gov.bd" {
		t.Fatalf("sources not persisted: %+v", all[3].Sources)
	}
	if all[0].Sources != nil {
		t.Fatalf("expected nil sources, got %+v", all[0].Sources)
	}

	last, _ := store.GetMessagesBySession(ctx, "s1", 2)
	if len(last) != 2 || last[0].ID != "m3" || last[1].ID != "m4" {
		t.Fatalf("expected the last two messages, got %+v", last)
	}

	if err := store.DeleteMessagesBySession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteMessagesBySession: %v", err)
	}
	if left, _ := store.GetMessagesBySession(ctx, "s1", 0); len(left) != 0 {
		t.Fatalf("expected empty history, got %d", len(left))
	}
}
