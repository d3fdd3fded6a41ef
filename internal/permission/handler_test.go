package permission_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/user-management/internal/permission"
	"github.com/frahmantamala/user-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Permission Handler", func() {
	var (
		mockRepo  *MockRepository
		mockGraph *MockGraph
		handler   *permission.Handler
		router    *chi.Mux
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockGraph = NewMockGraph()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := permission.NewService(mockRepo, mockGraph, logger)
		handler = permission.NewHandler(service)

		router = chi.NewRouter()
		router.Get("/permissions", handler.List)
		router.Post("/permissions", handler.Create)
		router.Get("/permissions/grouped", handler.Grouped)
		router.Get("/permissions/{id}", handler.Get)
		router.Delete("/permissions/{id}", handler.Delete)
	})

	It("should list permissions in the page envelope", func() {
		mockRepo.AddPermission("view users", time.Now())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/permissions", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))

		var env transport.Envelope
		Expect(json.NewDecoder(rec.Body).Decode(&env)).To(Succeed())
		Expect(env.Success).To(BeTrue())

		page := env.Data.(map[string]interface{})
		Expect(page["total"]).To(BeEquivalentTo(1))
		Expect(page["items"]).To(HaveLen(1))
	})

	It("should create a permission and return 201", func() {
		body := strings.NewReader(`{"name": "publish articles"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/permissions", body))

		Expect(rec.Code).To(Equal(http.StatusCreated))

		var env transport.Envelope
		Expect(json.NewDecoder(rec.Body).Decode(&env)).To(Succeed())
		Expect(env.Success).To(BeTrue())
		Expect(env.Data.(map[string]interface{})["name"]).To(Equal("publish articles"))
	})

	It("should return 422 with field errors for an empty name", func() {
		body := strings.NewReader(`{"name": ""}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/permissions", body))

		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

		var env transport.Envelope
		Expect(json.NewDecoder(rec.Body).Decode(&env)).To(Succeed())
		Expect(env.Success).To(BeFalse())
		Expect(env.Errors).To(HaveKey("name"))
	})

	It("should return 400 for a non-numeric id", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/permissions/abc", nil))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for a missing permission", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/permissions/999", nil))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should return 409 when deleting a referenced permission", func() {
		p := mockRepo.AddPermission("view users", time.Now())
		mockGraph.roleRefs[p.ID] = 1

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/permissions/1", nil))

		Expect(rec.Code).To(Equal(http.StatusConflict))

		var env transport.Envelope
		Expect(json.NewDecoder(rec.Body).Decode(&env)).To(Succeed())
		Expect(env.Error).To(Equal("PERMISSION_IN_USE"))
	})

	It("should serve the grouped catalog", func() {
		now := time.Now()
		mockRepo.AddPermission("view users", now)
		mockRepo.AddPermission("edit users", now)
		mockRepo.AddPermission("view news", now)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/permissions/grouped", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))

		var env transport.Envelope
		Expect(json.NewDecoder(rec.Body).Decode(&env)).To(Succeed())
		grouped := env.Data.(map[string]interface{})
		Expect(grouped).To(HaveKey("users"))
		Expect(grouped).To(HaveKey("news"))
		Expect(grouped["users"]).To(HaveLen(2))
	})
})
