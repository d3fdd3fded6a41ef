package authz_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/authz"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Guard", func() {
	var (
		guard *authz.Guard
		next  http.Handler
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		guard = authz.NewGuard(logger)
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(identity *internal.Identity) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if identity != nil {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), identity))
		}
		return req
	}

	It("should return 401 when no identity is present", func() {
		rec := httptest.NewRecorder()
		guard.Require(authz.AnyOf("view users"))(next).ServeHTTP(rec, request(nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should return 403 when the identity lacks every required permission", func() {
		rec := httptest.NewRecorder()
		identity := &internal.Identity{ID: 1, Permissions: []string{"view news"}}
		guard.Require(authz.AnyOf("view users"))(next).ServeHTTP(rec, request(identity))
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should pass through when any required permission is held", func() {
		rec := httptest.NewRecorder()
		identity := &internal.Identity{ID: 1, Permissions: []string{"view roles"}}
		guard.Require(authz.AnyOf("manage roles", "view roles"))(next).ServeHTTP(rec, request(identity))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should deny an empty requirement even for a permissive identity", func() {
		rec := httptest.NewRecorder()
		identity := &internal.Identity{ID: 1, Permissions: []string{"view users", "manage roles"}}
		guard.Require(authz.AnyOf())(next).ServeHTTP(rec, request(identity))
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
