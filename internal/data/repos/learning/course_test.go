package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/cecredit-backend/internal/data/repos/testutil"
)

func TestCourseRepoGetWithContent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, "Ethics 101", 0)
	m2 := testutil.SeedModule(t, ctx, tx, c.ID, 2, 0)
	m1 := testutil.SeedModule(t, ctx, tx, c.ID, 1, 30)
	testutil.SeedLesson(t, ctx, tx, m2.ID, 2, 15)
	testutil.SeedLesson(t, ctx, tx, m2.ID, 1, 45)

	got, err := repo.GetWithContent(ctx, tx, c.ID)
	if err != nil {
		t.Fatalf("GetWithContent: %v", err)
	}
	if len(got.Modules) != 2 || got.Modules[0].ID != m1.ID {
		t.Fatalf("modules not ordered by index: %+v", got.Modules)
	}
	lessons := got.Modules[1].Lessons
	if len(lessons) != 2 || lessons[0].DurationMinutes != 45 {
		t.Fatalf("lessons not loaded in order: %+v", lessons)
	}
}

func TestCourseRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	tag := uuid.NewString()[:8]
	testutil.SeedCourse(t, ctx, tx, "Ethics 101 "+tag, 6)
	testutil.SeedCourse(t, ctx, tx, "Pharmacology "+tag, 3)
	testutil.SeedCourse(t, ctx, tx, "100% Compliance "+tag, 1)

	rows, err := repo.Search(ctx, tx, "ETHICS 101 "+tag, 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Search: err=%v len=%d", err, len(rows))
	}
	rows, err = repo.Search(ctx, tx, "100%", 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Search(literal percent): err=%v len=%d", err, len(rows))
	}
}
