package lecture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) lecture.LectureRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// every pooled connection would get its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&LectureEntity{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormLectureRepo(db)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	l := lecture.NewLecture(lecture.SubmitRequest{Filename: "thermo.wav", TargetLanguage: "fr"})
	l.AudioDigest = "abc"
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID.String())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Filename != "thermo.wav" || got.Status != lecture.StatusQueued || got.TargetLanguage != "fr" {
		t.Errorf("unexpected lecture %+v", got)
	}
	if got.AudioDigest != "abc" {
		t.Errorf("digest not stored: %q", got.AudioDigest)
	}
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, lecture.ErrLectureNotFound) {
		t.Errorf("expected ErrLectureNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	l := lecture.NewLecture(lecture.SubmitRequest{Filename: "a.mp3"})
	if err := repo.Create(ctx, l); err != nil {
		t.Fatal(err)
	}
	l.Status = lecture.StatusCompleted
	l.Transcript = "Today we discuss entropy."
	l.Summary = "### Summary\n- Entropy\n"
	if err := repo.Update(ctx, l); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.GetByID(ctx, l.ID.String())
	if got.Status != lecture.StatusCompleted || got.Transcript != l.Transcript || got.Summary != l.Summary {
		t.Errorf("update not persisted: %+v", got)
	}

	// clearing a field must persist too
	l.Error = ""
	l.Summary = ""
	if err := repo.Update(ctx, l); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(ctx, l.ID.String())
	if got.Summary != "" {
		t.Errorf("expected cleared summary, got %q", got.Summary)
	}

	missing := lecture.NewLecture(lecture.SubmitRequest{Filename: "b.mp3"})
	if err := repo.Update(ctx, missing); !errors.Is(err, lecture.ErrLectureNotFound) {
		t.Errorf("expected ErrLectureNotFound, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, name := range []string{"one.wav", "two.wav", "three.wav"} {
		l := lecture.NewLecture(lecture.SubmitRequest{Filename: name})
		l.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if i == 1 {
			l.Status = lecture.StatusCompleted
		}
		if err := repo.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	all, total, err := repo.List(ctx, lecture.ListLecturesRequest{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 2 {
		t.Fatalf("unexpected page %d/%d", len(all), total)
	}
	if all[0].Filename != "three.wav" {
		t.Errorf("expected newest first, got %s", all[0].Filename)
	}

	done, total, err := repo.List(ctx, lecture.ListLecturesRequest{Status: "completed", Limit: 10})
	if err != nil || total != 1 || done[0].Filename != "two.wav" {
		t.Errorf("unexpected filtered list %v %d %v", done, total, err)
	}

	if err := repo.Delete(ctx, done[0].ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, done[0].ID.String()); !errors.Is(err, lecture.ErrLectureNotFound) {
		t.Errorf("expected ErrLectureNotFound on second delete, got %v", err)
	}
}
