package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"parcel/internal/domain"
	"parcel/internal/handler"
	"parcel/internal/middleware"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// ──────────────────────────────────────────────
// 5. IDENTITY GATE
// ──────────────────────────────────────────────

func newGateRouter(verifier *StubVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.Authenticate(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": middleware.CallerEmail(c)})
	})
	return router
}

func TestAuthenticate_MissingHeader_Unauthorized(t *testing.T) {
	t.Parallel()

	router := newGateRouter(&StubVerifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticate_MalformedHeader_Unauthorized(t *testing.T) {
	t.Parallel()

	router := newGateRouter(&StubVerifier{Tokens: map[string]string{"good": "alice@example.com"}})

	testCases := []struct {
		name   string
		header string
	}{
		{name: "no scheme", header: "good"},
		{name: "wrong scheme", header: "Basic good"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tc.header)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 for header %q, got %d", tc.header, w.Code)
			}
		})
	}
}

func TestAuthenticate_RejectedToken_Forbidden(t *testing.T) {
	t.Parallel()

	router := newGateRouter(&StubVerifier{Tokens: map[string]string{"good": "alice@example.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer forged")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAuthenticate_ValidToken_ResolvesCaller(t *testing.T) {
	t.Parallel()

	router := newGateRouter(&StubVerifier{Tokens: map[string]string{"good": "alice@example.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"email":"alice@example.com"}` {
		t.Errorf("expected resolved caller email, got %s", body)
	}
}

func TestRequireAdmin_GatesOnDirectoryRole(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "u-1", Email: "admin@example.com", Role: domain.RoleAdmin})
	userRepo.AddUser(&domain.User{ID: "u-2", Email: "plain@example.com", Role: domain.RoleUser})

	verifier := &StubVerifier{Tokens: map[string]string{
		"admin-token": "admin@example.com",
		"plain-token": "plain@example.com",
	}}
	roleCache := NewMockRoleCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin",
		middleware.Authenticate(verifier),
		middleware.RequireAdmin(userRepo, roleCache),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	testCases := []struct {
		name     string
		token    string
		wantCode int
	}{
		{name: "admin passes", token: "admin-token", wantCode: http.StatusOK},
		{name: "plain user forbidden", token: "plain-token", wantCode: http.StatusForbidden},
	}

	for _, tc := range testCases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		router.ServeHTTP(w, req)

		if w.Code != tc.wantCode {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.wantCode, w.Code)
		}
	}

	// The admin role is now cached; a repeat passes without the
	// directory lookup.
	if cached, _ := roleCache.Get(context.Background(), "admin@example.com"); cached != "admin" {
		t.Errorf("expected admin role to be cached, got %q", cached)
	}
}

func TestRequireAdmin_ServesCachedRole(t *testing.T) {
	t.Parallel()

	// Empty directory: the cache alone grants access.
	userRepo := NewMockUserRepository()
	roleCache := NewMockRoleCache()
	_ = roleCache.Set(context.Background(), "cached@example.com", "admin")

	verifier := &StubVerifier{Tokens: map[string]string{"t": "cached@example.com"}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin",
		middleware.Authenticate(verifier),
		middleware.RequireAdmin(userRepo, roleCache),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.Header.Set("Authorization", "Bearer t")
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("expected cached role to grant access, got %d", w.Code)
	}
}

func TestPaymentHistory_CallerMayOnlyReadOwnLedger(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	_ = paymentRepo.Create(context.Background(), &domain.Payment{
		ID: "pay-1", ParcelID: "p-1", Email: "alice@example.com",
	})
	_ = paymentRepo.Create(context.Background(), &domain.Payment{
		ID: "pay-2", ParcelID: "p-2", Email: "bob@example.com",
	})
	paymentService := service.NewPaymentService(paymentRepo, NewMockAtomic(repository.RepositorySet{
		Users:    NewMockUserRepository(),
		Parcels:  NewMockParcelRepository(),
		Riders:   NewMockRiderRepository(),
		Payments: paymentRepo,
	}), service.NewMockGateway())
	paymentHandler := handler.NewPaymentHandler(paymentService)

	verifier := &StubVerifier{Tokens: map[string]string{"alice-token": "alice@example.com"}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/payments", middleware.Authenticate(verifier), paymentHandler.History)

	// A verified caller asking for another identity's ledger is refused.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/payments?email=bob@example.com", nil)
	r.Header.Set("Authorization", "Bearer alice-token")
	router.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a mismatched payer email, got %d", w.Code)
	}

	// The same caller reading their own ledger succeeds and sees only
	// their records.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/payments?email=alice@example.com", nil)
	r.Header.Set("Authorization", "Bearer alice-token")
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for the caller's own ledger, got %d", w.Code)
	}
	var payments []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payments); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(payments) != 1 || payments[0]["id"] != "pay-1" {
		t.Errorf("expected only alice's record, got %v", payments)
	}
}

func TestParcelList_OwnerFilterBoundToCallerIdentity(t *testing.T) {
	t.Parallel()

	parcelRepo := NewMockParcelRepository()
	parcelRepo.AddParcel(&domain.Parcel{ID: "p-alice", SenderEmail: "alice@example.com"})
	parcelRepo.AddParcel(&domain.Parcel{ID: "p-bob", SenderEmail: "bob@example.com"})
	parcelHandler := handler.NewParcelHandler(service.NewParcelService(parcelRepo))

	verifier := &StubVerifier{Tokens: map[string]string{"alice-token": "alice@example.com"}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/parcels", middleware.AuthenticateOptional(verifier), parcelHandler.List)

	// Anonymous owner-scoped listing is unauthenticated.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parcels?userEmail=bob@example.com", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous owner-scoped listing, got %d", w.Code)
	}

	// A verified caller cannot page through another identity's parcels
	// by varying the owner filter.
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/parcels?userEmail=bob@example.com", nil)
	r.Header.Set("Authorization", "Bearer alice-token")
	router.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a mismatched owner filter, got %d", w.Code)
	}

	// The owner listing their own parcels sees exactly those.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/parcels?userEmail=alice@example.com", nil)
	r.Header.Set("Authorization", "Bearer alice-token")
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for the owner's own listing, got %d", w.Code)
	}
	var parcels []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &parcels); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(parcels) != 1 || parcels[0]["id"] != "p-alice" {
		t.Errorf("expected only alice's parcel, got %v", parcels)
	}

	// The unfiltered administrative form stays open.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parcels", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for the unfiltered listing, got %d", w.Code)
	}
}
