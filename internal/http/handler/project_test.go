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
	"syncflow.app/server/internal/http/middleware"
	"syncflow.app/server/internal/model"
)

var _ = Describe("ProjectHandler", func() {
	var (
		router *gin.Engine
		svc    *mockProjectService
		auth   *mockAuthService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockProjectService{}
		auth = &mockAuthService{
			verifyTokenFn: func(_ string) (int64, error) { return 42, nil },
		}
		h := handler.NewProjectHandler(svc)
		group := router.Group("/projects", middleware.RequireAuth(auth))
		group.GET("", h.List)
		group.POST("", h.Create)
	})

	authorized := func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer any-token")
		return req
	}

	It("scopes the listing to the authenticated user", func() {
		svc.listByOwnerFn = func(_ context.Context, ownerID int64) ([]model.Project, error) {
			Expect(ownerID).To(Equal(int64(42)))
			return []model.Project{{ID: 1, Name: "Apollo", OwnerID: 42}}, nil
		}

		req := authorized(httptest.NewRequest(http.MethodGet, "/projects", nil))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp []map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp).To(HaveLen(1))
		Expect(resp[0]["owner_id"]).To(Equal("42"))
	})

	It("creates a project owned by the authenticated user", func() {
		svc.createFn = func(_ context.Context, name string, ownerID int64) (*model.Project, error) {
			Expect(name).To(Equal("Apollo"))
			Expect(ownerID).To(Equal(int64(42)))
			return &model.Project{ID: 1, Name: name, OwnerID: ownerID}, nil
		}

		body, _ := json.Marshal(map[string]any{"name": "Apollo"})
		req := authorized(httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBuffer(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("returns 400 when the name is missing", func() {
		body, _ := json.Marshal(map[string]any{})
		req := authorized(httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBuffer(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 when the service fails", func() {
		svc.listByOwnerFn = func(_ context.Context, _ int64) ([]model.Project, error) {
			return nil, errors.New("boom")
		}

		req := authorized(httptest.NewRequest(http.MethodGet, "/projects", nil))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
