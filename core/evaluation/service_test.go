package evaluation_test

import (
	"context"
	"net/mail"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tathmini/tathmini/core"
	"github.com/tathmini/tathmini/core/criteria"
	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/user"
	emailsvc "github.com/tathmini/tathmini/services/email"
	dummydb "github.com/tathmini/tathmini/storage/database/dummy"
)

type testEnv struct {
	usrSvc   *user.Service
	critSvc  *criteria.Service
	presSvc  *presentation.Service
	evalSvc  *evaluation.Service
	notifSvc *notification.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := &core.Config{
		AppName:          "Tathmini",
		DefaultFromEmail: mail.Address{Name: "Tathmini", Address: "noreply@localhost"},
	}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	critSvc := criteria.NewService(dummydb.NewCriteriaRepository(db))
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db), mailSvc)
	presSvc := presentation.NewService(dummydb.NewPresentationRepository(db), usrSvc, notifSvc)
	evalSvc := evaluation.NewService(dummydb.NewEvaluationRepository(db), critSvc, presSvc, usrSvc, notifSvc)
	return &testEnv{
		usrSvc:   usrSvc,
		critSvc:  critSvc,
		presSvc:  presSvc,
		evalSvc:  evalSvc,
		notifSvc: notifSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, name, uname string, role user.Role) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(context.Background(), user.NewUser{
		Name:     name,
		Username: uname,
		Email:    uname + "@test.cd",
		Password: "s3cr3tpwd",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createCriterion(t *testing.T, name string, maxScore, weight float64) criteria.Criterion {
	t.Helper()
	crit, err := env.critSvc.Create(context.Background(), criteria.NewCriterion{
		Name:     name,
		MaxScore: maxScore,
		Weight:   weight,
	})
	if err != nil {
		t.Fatalf("createCriterion() failed: %v", err)
	}
	return crit
}

func (env *testEnv) createPresentation(t *testing.T, student user.User, title string) presentation.Presentation {
	t.Helper()
	pres, err := env.presSvc.Create(context.Background(), presentation.NewPresentation{
		Title:       title,
		StudentID:   student.ID,
		StudentName: student.Name,
		FileName:    "slides.pdf",
		FileURL:     "https://files.test.cd/slides.pdf",
	})
	if err != nil {
		t.Fatalf("createPresentation() failed: %v", err)
	}
	return pres
}

func TestService_Create(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	student := env.createUser(t, "Awe Mbenza", "awe", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)
	critA := env.createCriterion(t, "Originality", 10, 0.6)
	critB := env.createCriterion(t, "Delivery", 5, 0.4)
	pres := env.createPresentation(t, student, "Solar Car")

	eval, err := env.evalSvc.Create(ctx, evaluation.NewEvaluation{
		PresentationID: pres.ID,
		TeacherID:      teacher.ID,
		TeacherName:    teacher.Name,
		Scores: []evaluation.NewScore{
			{CriterionID: critA.ID, Score: 8},
			{CriterionID: critB.ID, Score: 5},
		},
		Comments: "solid work",
	})
	require.NoError(t, err)

	// snapshots frozen in
	require.Len(t, eval.Criteria, 2)
	assert.Equal(t, critA.Name, eval.Criteria[0].CriterionName)
	assert.Equal(t, critA.MaxScore, eval.Criteria[0].MaxScore)
	assert.Equal(t, critA.Weight, eval.Criteria[0].Weight)
	// 100 * (0.8*0.6 + 1.0*0.4)
	assert.InDelta(t, 88, eval.TotalScore, 1e-9)

	// first evaluation advances the presentation
	pres, err = env.presSvc.GetByID(ctx, pres.ID)
	require.NoError(t, err)
	assert.Equal(t, presentation.StatusReviewed, pres.Status)

	// student was notified
	notifs, err := env.notifSvc.QueryByUser(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, notification.KindSuccess, notifs[0].Kind)
	assert.Equal(t, pres.ID, notifs[0].RelatedID)

	// a second evaluation leaves the reviewed status untouched
	_, err = env.evalSvc.Create(ctx, evaluation.NewEvaluation{
		PresentationID: pres.ID,
		TeacherID:      teacher.ID,
		TeacherName:    teacher.Name,
		Scores:         []evaluation.NewScore{{CriterionID: critA.ID, Score: 5}},
	})
	require.NoError(t, err)
	pres, err = env.presSvc.GetByID(ctx, pres.ID)
	require.NoError(t, err)
	assert.Equal(t, presentation.StatusReviewed, pres.Status)
}

func TestService_Create_snapshotIsolation(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	student := env.createUser(t, "Awe Mbenza", "awe", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)
	crit := env.createCriterion(t, "Originality", 10, 1)
	pres := env.createPresentation(t, student, "Solar Car")

	eval, err := env.evalSvc.Create(ctx, evaluation.NewEvaluation{
		PresentationID: pres.ID,
		TeacherID:      teacher.ID,
		TeacherName:    teacher.Name,
		Scores:         []evaluation.NewScore{{CriterionID: crit.ID, Score: 10}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100, eval.TotalScore, 1e-9)

	// rubric edits after the fact never rewrite history
	newWeight := 0.5
	newMax := 20.0
	_, err = env.critSvc.Update(ctx, crit.ID, criteria.UpdateCriterion{Weight: &newWeight, MaxScore: &newMax})
	require.NoError(t, err)

	eval, err = env.evalSvc.GetByID(ctx, eval.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, eval.TotalScore, 1e-9)
	assert.Equal(t, 10.0, eval.Criteria[0].MaxScore)
	assert.Equal(t, 1.0, eval.Criteria[0].Weight)
}

func TestService_Create_invalidInputs(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	student := env.createUser(t, "Awe Mbenza", "awe", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)
	crit := env.createCriterion(t, "Originality", 10, 1)
	pres := env.createPresentation(t, student, "Solar Car")

	t.Run("unknown presentation", func(t *testing.T) {
		_, err := env.evalSvc.Create(ctx, evaluation.NewEvaluation{
			PresentationID: "nope",
			TeacherID:      teacher.ID,
			Scores:         []evaluation.NewScore{{CriterionID: crit.ID, Score: 5}},
		})
		assert.Equal(t, presentation.ErrNotFound, pkgerrors.Cause(err))
	})

	t.Run("unknown criterion", func(t *testing.T) {
		_, err := env.evalSvc.Create(ctx, evaluation.NewEvaluation{
			PresentationID: pres.ID,
			TeacherID:      teacher.ID,
			Scores:         []evaluation.NewScore{{CriterionID: "nope", Score: 5}},
		})
		vErr, ok := pkgerrors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "scores", vErr.Fields[0].Field)
	})

	t.Run("score above max", func(t *testing.T) {
		_, err := env.evalSvc.Create(ctx, evaluation.NewEvaluation{
			PresentationID: pres.ID,
			TeacherID:      teacher.ID,
			Scores:         []evaluation.NewScore{{CriterionID: crit.ID, Score: 11}},
		})
		vErr, ok := pkgerrors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
		assert.Contains(t, vErr.Fields[0].Error, "exceeds its maximum")
	})
}

func TestService_Update(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	student := env.createUser(t, "Awe Mbenza", "awe", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)
	crit := env.createCriterion(t, "Originality", 10, 1)
	pres := env.createPresentation(t, student, "Solar Car")

	eval, err := env.evalSvc.Create(ctx, evaluation.NewEvaluation{
		PresentationID: pres.ID,
		TeacherID:      teacher.ID,
		TeacherName:    teacher.Name,
		Scores:         []evaluation.NewScore{{CriterionID: crit.ID, Score: 10}},
	})
	require.NoError(t, err)

	t.Run("unknown evaluation", func(t *testing.T) {
		_, err := env.evalSvc.Update(ctx, "nope", evaluation.UpdateEvaluation{})
		assert.Equal(t, evaluation.ErrNotFound, pkgerrors.Cause(err))
	})

	t.Run("criterion not in the evaluation", func(t *testing.T) {
		_, err := env.evalSvc.Update(ctx, eval.ID, evaluation.UpdateEvaluation{
			Scores: []evaluation.NewScore{{CriterionID: "nope", Score: 5}},
		})
		_, ok := pkgerrors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
	})

	t.Run("score above snapshotted max", func(t *testing.T) {
		_, err := env.evalSvc.Update(ctx, eval.ID, evaluation.UpdateEvaluation{
			Scores: []evaluation.NewScore{{CriterionID: crit.ID, Score: 11}},
		})
		_, ok := pkgerrors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
	})

	t.Run("correction recomputes the total", func(t *testing.T) {
		comments := "adjusted after moderation"
		updated, err := env.evalSvc.Update(ctx, eval.ID, evaluation.UpdateEvaluation{
			Scores:   []evaluation.NewScore{{CriterionID: crit.ID, Score: 5}},
			Comments: &comments,
		})
		require.NoError(t, err)
		assert.InDelta(t, 50, updated.TotalScore, 1e-9)
		assert.Equal(t, comments, updated.Comments)
	})
}
