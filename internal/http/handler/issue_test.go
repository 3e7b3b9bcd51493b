package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"syncflow.app/server/internal/http/handler"
	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/service"
	"syncflow.app/server/internal/store"
)

var _ = Describe("IssueHandler", func() {
	var (
		router *gin.Engine
		svc    *mockIssueService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockIssueService{}
		h := handler.NewIssueHandler(svc)
		router.GET("/issues", h.List)
		router.POST("/issues", h.Create)
		router.PATCH("/issues/:id", h.Update)
		router.DELETE("/issues/:id", h.Delete)
	})

	Describe("List", func() {
		It("returns 200 with issues and forwards the filters", func() {
			var got store.IssueFilter
			svc.listFn = func(_ context.Context, filter store.IssueFilter) ([]model.Issue, error) {
				got = filter
				return []model.Issue{{ID: 1, ProjectID: 10, Title: "Fix login"}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/issues?projectId=10&status=open&search=login", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(*got.ProjectID).To(Equal(int64(10)))
			Expect(*got.Status).To(Equal(model.IssueStatusOpen))
			Expect(got.Search).To(Equal("login"))

			var resp []map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(HaveLen(1))
			Expect(resp[0]["id"]).To(Equal("1"))
			Expect(resp[0]["project_id"]).To(Equal("10"))
		})

		It("returns 400 on an unknown status value", func() {
			req := httptest.NewRequest(http.MethodGet, "/issues?status=archived", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 on a non-numeric projectId", func() {
			req := httptest.NewRequest(http.MethodGet, "/issues?projectId=apollo", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the service fails", func() {
			svc.listFn = func(_ context.Context, _ store.IssueFilter) ([]model.Issue, error) {
				return nil, errors.New("boom")
			}

			req := httptest.NewRequest(http.MethodGet, "/issues", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Create", func() {
		It("returns 201 with the created issue", func() {
			svc.createFn = func(_ context.Context, in service.CreateIssueInput) (*model.Issue, error) {
				Expect(in.ProjectID).To(Equal(int64(10)))
				Expect(in.Title).To(Equal("Fix login"))
				return &model.Issue{ID: 7, ProjectID: in.ProjectID, Title: in.Title, Status: model.IssueStatusOpen, Priority: model.IssuePriorityMedium}, nil
			}

			body, _ := json.Marshal(map[string]any{"project_id": "10", "title": "Fix login"})
			req := httptest.NewRequest(http.MethodPost, "/issues", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("7"))
			Expect(resp["status"]).To(Equal("open"))
		})

		It("returns 400 when the title is missing", func() {
			body, _ := json.Marshal(map[string]any{"project_id": "10"})
			req := httptest.NewRequest(http.MethodPost, "/issues", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when the project does not exist", func() {
			svc.createFn = func(_ context.Context, _ service.CreateIssueInput) (*model.Issue, error) {
				return nil, service.ErrProjectNotFound
			}

			body, _ := json.Marshal(map[string]any{"project_id": "99", "title": "Fix login"})
			req := httptest.NewRequest(http.MethodPost, "/issues", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("project does not exist"))
		})

		It("returns 500 when the service fails", func() {
			svc.createFn = func(_ context.Context, _ service.CreateIssueInput) (*model.Issue, error) {
				return nil, errors.New("boom")
			}

			body, _ := json.Marshal(map[string]any{"project_id": "10", "title": "Fix login"})
			req := httptest.NewRequest(http.MethodPost, "/issues", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Update", func() {
		It("returns 200 with the full post-update record", func() {
			svc.updateFn = func(_ context.Context, issueID int64, patch store.IssuePatch) (*model.Issue, error) {
				Expect(issueID).To(Equal(int64(7)))
				Expect(*patch.Status).To(Equal(model.IssueStatusDone))
				Expect(patch.Title).To(BeNil())
				return &model.Issue{ID: 7, ProjectID: 10, Title: "Fix login", Status: model.IssueStatusDone, Priority: model.IssuePriorityMedium}, nil
			}

			body, _ := json.Marshal(map[string]any{"status": "done"})
			req := httptest.NewRequest(http.MethodPatch, "/issues/7", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("done"))
			Expect(resp["title"]).To(Equal("Fix login"))
		})

		It("returns 404 for a missing issue", func() {
			svc.updateFn = func(_ context.Context, _ int64, _ store.IssuePatch) (*model.Issue, error) {
				return nil, store.ErrNotFound
			}

			body, _ := json.Marshal(map[string]any{"status": "done"})
			req := httptest.NewRequest(http.MethodPatch, "/issues/404", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 404 for a non-numeric id", func() {
			body, _ := json.Marshal(map[string]any{"status": "done"})
			req := httptest.NewRequest(http.MethodPatch, "/issues/apollo", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 on an invalid status value", func() {
			body, _ := json.Marshal(map[string]any{"status": "archived"})
			req := httptest.NewRequest(http.MethodPatch, "/issues/7", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Delete", func() {
		It("returns 204 with no body", func() {
			svc.deleteFn = func(_ context.Context, issueID int64) error {
				Expect(issueID).To(Equal(int64(7)))
				return nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/issues/7", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Body.Len()).To(BeZero())
		})

		It("returns 404 for a missing issue", func() {
			svc.deleteFn = func(_ context.Context, _ int64) error {
				return store.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodDelete, "/issues/404", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 500 when the service fails", func() {
			svc.deleteFn = func(_ context.Context, _ int64) error {
				return errors.New("boom")
			}

			req := httptest.NewRequest(http.MethodDelete, "/issues/7", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
