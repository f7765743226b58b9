package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/user"
)

func TestEvaluationAPI(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	student := env.createUser(t, "Awe Mbenza", "awe", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)
	admin := env.createUser(t, "Root", "root", user.RoleAdmin)

	studentToken := getToken(t, student)
	teacherToken := getToken(t, teacher)
	adminToken := getToken(t, admin)

	crit := env.createCriterion(t, "Originality", 10, 1)
	pres := env.createPresentation(t, student, "Solar Car")

	forbiddenData := marchallObj(t, httpErr{Error: "permission denied"})
	newEval := func(score float64) []byte {
		return marchallObj(t, evaluation.NewEvaluation{
			PresentationID: pres.ID,
			Scores:         []evaluation.NewScore{{CriterionID: crit.ID, Score: score}},
			Comments:       "solid work",
		})
	}

	tests := []httpTest{
		{
			name:     "create requires auth",
			method:   http.MethodPost,
			path:     "/v1/evaluations",
			body:     newEval(8),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "students cannot evaluate",
			method:   http.MethodPost,
			path:     "/v1/evaluations",
			token:    studentToken,
			body:     newEval(8),
			wantCode: http.StatusForbidden,
			wantData: forbiddenData,
		},
		{
			name:     "score above criterion max is rejected",
			method:   http.MethodPost,
			path:     "/v1/evaluations",
			token:    teacherToken,
			body:     newEval(11),
			wantCode: http.StatusBadRequest,
			extra:    "skipData",
		},
		{
			name:     "unknown presentation is 404",
			method:   http.MethodPost,
			path:     "/v1/evaluations",
			token:    teacherToken,
			body: marchallObj(t, evaluation.NewEvaluation{
				PresentationID: "nope",
				Scores:         []evaluation.NewScore{{CriterionID: crit.ID, Score: 8}},
			}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: presentation.ErrNotFound.Error()}),
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/v1/evaluations",
			token:    teacherToken,
			body:     newEval(8),
			wantCode: http.StatusCreated,
			extra:    "checkCreate",
		},
		{
			name:     "query is for teachers",
			method:   http.MethodGet,
			path:     "/v1/evaluations",
			token:    studentToken,
			wantCode: http.StatusForbidden,
			wantData: forbiddenData,
		},
		{
			name:     "query",
			method:   http.MethodGet,
			path:     "/v1/evaluations?presentation=" + pres.ID,
			token:    teacherToken,
			wantCode: http.StatusOK,
			extra:    "checkQuery",
		},
		{
			name:     "malformed query is rejected",
			method:   http.MethodGet,
			path:     "/v1/evaluations?teacher=abc",
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
			extra:    "skipData",
		},
		{
			name:     "update is admin only",
			method:   http.MethodPut,
			path:     "/v1/evaluations/some-id",
			token:    teacherToken,
			body:     marchallObj(t, map[string]interface{}{"comments": "revised"}),
			wantCode: http.StatusForbidden,
			wantData: forbiddenData,
		},
		{
			name:     "destroy is admin only",
			method:   http.MethodDelete,
			path:     "/v1/evaluations/some-id",
			token:    teacherToken,
			wantCode: http.StatusForbidden,
			wantData: forbiddenData,
		},
		{
			name:     "destroy unknown is 404",
			method:   http.MethodDelete,
			path:     "/v1/evaluations/some-id",
			token:    adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: evaluation.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			switch tt.extra {
			case "skipData":
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
			case "checkCreate":
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var eval evaluation.Evaluation
				if err := json.Unmarshal(rec.Body.Bytes(), &eval); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if eval.TeacherID != teacher.ID {
					t.Errorf("teacher_id = %v; want %v", eval.TeacherID, teacher.ID)
				}
				if eval.TotalScore != 80 {
					t.Errorf("total_score = %v; want 80", eval.TotalScore)
				}
				// the first evaluation moves the presentation to reviewed
				got, err := env.presSvc.GetByID(ctx, pres.ID)
				if err != nil {
					t.Fatalf("GetByID() failed: %v", err)
				}
				if got.Status != presentation.StatusReviewed {
					t.Errorf("status = %v; want %v", got.Status, presentation.StatusReviewed)
				}
			case "checkQuery":
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var evals []evaluation.Evaluation
				if err := json.Unmarshal(rec.Body.Bytes(), &evals); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if len(evals) != 1 {
					t.Errorf("len(evals) = %d; want 1", len(evals))
				}
			default:
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func TestPresentationAPI_delete(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	alice := env.createUser(t, "Alice", "alice", user.RoleStudent)
	bob := env.createUser(t, "Bob", "bob", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)
	admin := env.createUser(t, "Root", "root", user.RoleAdmin)

	presA := env.createPresentation(t, alice, "Solar Car")
	presB := env.createPresentation(t, alice, "Wind Turbine")

	tests := []httpTest{
		{
			name:     "strangers cannot delete",
			method:   http.MethodDelete,
			path:     "/v1/presentations/" + presA.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "teachers cannot delete",
			method:   http.MethodDelete,
			path:     "/v1/presentations/" + presA.ID,
			token:    getToken(t, teacher),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "owners retract their uploads",
			method:   http.MethodDelete,
			path:     "/v1/presentations/" + presA.ID,
			token:    getToken(t, alice),
			wantCode: http.StatusNoContent,
			extra:    "skipData",
		},
		{
			name:     "admins delete anything",
			method:   http.MethodDelete,
			path:     "/v1/presentations/" + presB.ID,
			token:    getToken(t, admin),
			wantCode: http.StatusNoContent,
			extra:    "skipData",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			if tt.extra == "skipData" {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	press, err := env.presSvc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(press) != 0 {
		t.Errorf("len(press) = %d; want 0", len(press))
	}
}

func TestPresentationAPI_visibility(t *testing.T) {
	env := setup(t)

	alice := env.createUser(t, "Alice", "alice", user.RoleStudent)
	bob := env.createUser(t, "Bob", "bob", user.RoleStudent)
	teacher := env.createUser(t, "Hei Matau", "hei", user.RoleTeacher)

	alicePres := env.createPresentation(t, alice, "Solar Car")

	tests := []httpTest{
		{
			name:     "students cannot see each other's uploads",
			method:   http.MethodGet,
			path:     "/v1/presentations/" + alicePres.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "owners see their uploads",
			method:   http.MethodGet,
			path:     "/v1/presentations/" + alicePres.ID,
			token:    getToken(t, alice),
			wantCode: http.StatusOK,
			extra:    "skipData",
		},
		{
			name:     "teachers see all uploads",
			method:   http.MethodGet,
			path:     "/v1/presentations/" + alicePres.ID,
			token:    getToken(t, teacher),
			wantCode: http.StatusOK,
			extra:    "skipData",
		},
		{
			name:     "approve straight from pending conflicts",
			method:   http.MethodPost,
			path:     "/v1/presentations/" + alicePres.ID + "/approve",
			token:    getToken(t, teacher),
			wantCode: http.StatusConflict,
			extra:    "skipData",
		},
		{
			name:     "students cannot approve",
			method:   http.MethodPost,
			path:     "/v1/presentations/" + alicePres.ID + "/approve",
			token:    getToken(t, alice),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "stats are for teachers",
			method:   http.MethodGet,
			path:     "/v1/stats/overview",
			token:    getToken(t, bob),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "stats overview",
			method:   http.MethodGet,
			path:     "/v1/stats/overview",
			token:    getToken(t, teacher),
			wantCode: http.StatusOK,
			extra:    "skipData",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			if tt.extra == "skipData" {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
