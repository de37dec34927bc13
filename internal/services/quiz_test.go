package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/cecredit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cecredit-backend/internal/domain"
	"github.com/yungbote/cecredit-backend/internal/learning/quiz"
)

func (d *deps) quizService() QuizService {
	return NewQuizService(d.db, d.log, d.lessons, d.courses, d.questions, d.attempts)
}

func TestQuizSubmit(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, d.db, uniqueEmail())
	c := testutil.SeedCourse(t, ctx, d.db, "Ethics 101", 6)
	m := testutil.SeedModule(t, ctx, d.db, c.ID, 0, 30)
	l := testutil.SeedLesson(t, ctx, d.db, m.ID, 0, 30)
	q1 := testutil.SeedQuizQuestion(t, ctx, d.db, l.ID, 0, quiz.KindMultipleChoice, `"B"`, 1)
	q2 := testutil.SeedQuizQuestion(t, ctx, d.db, l.ID, 1, quiz.KindShortAnswer, `"its fine"`, 1)
	q3 := testutil.SeedQuizQuestion(t, ctx, d.db, l.ID, 2, quiz.KindMultipleSelect, `["A","C"]`, 2)

	sub, err := d.quizService().Submit(asUser(u.ID), l.ID, map[string]quiz.Values{
		q1.ID.String(): {"B"},
		q2.ID.String(): {"It's Fine!"},
		q3.ID.String(): {"C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, sub.Score)
	assert.False(t, sub.Passed)
	assert.False(t, sub.CEEligible)
	require.Len(t, sub.Breakdown, 3)
	assert.True(t, sub.Breakdown[1].Correct)

	sub, err = d.quizService().Submit(asUser(u.ID), l.ID, map[string]quiz.Values{
		q1.ID.String(): {"B"},
		q2.ID.String(): {"its fine"},
		q3.ID.String(): {"A", "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, sub.Score)
	assert.True(t, sub.Passed)
	assert.True(t, sub.CEEligible)

	saved, err := d.attempts.ListByUserAndLesson(ctx, nil, u.ID, l.ID)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestQuizSubmitNoCreditCourse(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, d.db, uniqueEmail())
	c := testutil.SeedCourse(t, ctx, d.db, "Orientation", 0)
	m := testutil.SeedModule(t, ctx, d.db, c.ID, 0, 0)
	l := testutil.SeedLesson(t, ctx, d.db, m.ID, 0, 0)
	q := testutil.SeedQuizQuestion(t, ctx, d.db, l.ID, 0, quiz.KindTrueFalse, `"true"`, 1)

	sub, err := d.quizService().Submit(asUser(u.ID), l.ID, map[string]quiz.Values{q.ID.String(): {"true"}})
	require.NoError(t, err)
	assert.True(t, sub.Passed)
	assert.False(t, sub.CEEligible, "passing a zero-credit course earns no CE")
}

func TestQuizSubmitErrors(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, d.db, uniqueEmail())
	c := testutil.SeedCourse(t, ctx, d.db, "Ethics 101", 6)
	m := testutil.SeedModule(t, ctx, d.db, c.ID, 0, 0)
	l := testutil.SeedLesson(t, ctx, d.db, m.ID, 0, 0)
	svc := d.quizService()

	_, err := svc.Submit(asUser(u.ID), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = svc.Submit(asUser(u.ID), l.ID, nil)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = svc.Submit(ctx, l.ID, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	var count int64
	require.NoError(t, d.db.Model(&types.QuizAttempt{}).Count(&count).Error)
	assert.Zero(t, count)
}
