// File: internal/repository/repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatpal/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}, &domain.PromptTemplate{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := &domain.User{Username: "alice"}
	if err := user.HashPassword("long-enough-password"); err != nil {
		t.Fatalf("HashPassword error = %v", err)
	}
	created, err := repo.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create did not assign an ID")
	}

	byName, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername error = %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("FindByUsername ID = %d; want %d", byName.ID, created.ID)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); err == nil {
		t.Fatal("FindByUsername(nobody) error = nil; want not-found")
	}
}

func TestChatRepository_DeleteScopedToOwner(t *testing.T) {
	db := testDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	chat, err := repo.Create(ctx, &domain.Chat{UserID: 1, Title: "mine"})
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	// A different user cannot delete it.
	if err := repo.Delete(ctx, chat.ID, 2); err != nil {
		t.Fatalf("Delete(other user) error = %v", err)
	}
	if _, err := repo.FindByID(ctx, chat.ID); err != nil {
		t.Fatal("chat deleted by non-owner")
	}

	if err := repo.Delete(ctx, chat.ID, 1); err != nil {
		t.Fatalf("Delete(owner) error = %v", err)
	}
	if _, err := repo.FindByID(ctx, chat.ID); err == nil {
		t.Fatal("chat still present after owner delete")
	}
}

func TestChatRepository_FindByUserIDOrdersByActivity(t *testing.T) {
	db := testDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, &domain.Chat{UserID: 1, Title: "first"})
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if _, err := repo.Create(ctx, &domain.Chat{UserID: 1, Title: "second"}); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	// Touching the older chat bumps it to the top.
	time.Sleep(10 * time.Millisecond)
	if err := repo.TouchUpdatedAt(ctx, first.ID); err != nil {
		t.Fatalf("TouchUpdatedAt error = %v", err)
	}

	chats, err := repo.FindByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByUserID error = %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("len(chats) = %d; want 2", len(chats))
	}
	if chats[0].Title != "first" {
		t.Fatalf("chats[0].Title = %q; want the recently touched chat first", chats[0].Title)
	}
}

func TestMessageRepository_FindRecentNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"one", "two", "three"} {
		msg := &domain.Message{ChatID: 1, Role: domain.RoleUser, Content: content, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if _, err := repo.Create(ctx, msg); err != nil {
			t.Fatalf("Create error = %v", err)
		}
	}

	recent, err := repo.FindRecent(ctx, 1, 2)
	if err != nil {
		t.Fatalf("FindRecent error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d; want 2", len(recent))
	}
	if recent[0].Content != "three" || recent[1].Content != "two" {
		t.Fatalf("recent = [%q, %q]; want newest first [three, two]", recent[0].Content, recent[1].Content)
	}

	all, err := repo.FindByChatID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByChatID error = %v", err)
	}
	if len(all) != 3 || all[0].Content != "one" {
		t.Fatalf("FindByChatID order wrong: %v", all)
	}
}

func TestTemplateRepository_IncrementUsage(t *testing.T) {
	db := testDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	tmpl, err := repo.Create(ctx, &domain.PromptTemplate{UserID: 1, Name: "terse", Template: "Be terse: {user_prompt}"})
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	if err := repo.IncrementUsage(ctx, tmpl.ID); err != nil {
		t.Fatalf("IncrementUsage error = %v", err)
	}
	if err := repo.IncrementUsage(ctx, tmpl.ID); err != nil {
		t.Fatalf("IncrementUsage error = %v", err)
	}

	got, err := repo.FindByID(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("FindByID error = %v", err)
	}
	if got.UsageCount != 2 {
		t.Fatalf("UsageCount = %d; want 2", got.UsageCount)
	}
}

func TestTemplateRepository_DeleteScopedToOwner(t *testing.T) {
	db := testDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	tmpl, err := repo.Create(ctx, &domain.PromptTemplate{UserID: 1, Name: "t", Template: "x"})
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	if err := repo.Delete(ctx, tmpl.ID, 99); err != nil {
		t.Fatalf("Delete(other user) error = %v", err)
	}
	if _, err := repo.FindByID(ctx, tmpl.ID); err != nil {
		t.Fatal("template deleted by non-owner")
	}

	if err := repo.Delete(ctx, tmpl.ID, 1); err != nil {
		t.Fatalf("Delete(owner) error = %v", err)
	}
	if _, err := repo.FindByID(ctx, tmpl.ID); err == nil {
		t.Fatal("template still present after owner delete")
	}
}
