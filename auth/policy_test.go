package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPolicy() *RoutePolicy {
	return NewRoutePolicy(
		Rule{Method: http.MethodPost, Pattern: "/auth/login"},
		Rule{Method: http.MethodGet, Pattern: "/api/users"},
		Rule{Method: http.MethodPost, Pattern: "/api/users/register"},
		Rule{Method: http.MethodPost, Pattern: "/api/users", Authority: "ROLE_ADMIN"},
		Rule{Pattern: "*", Authority: AuthorityAny},
	)
}

func TestRoutePolicy_Required(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{name: "login is public", method: http.MethodPost, path: "/auth/login", want: ""},
		{name: "user list is public", method: http.MethodGet, path: "/api/users", want: ""},
		{name: "register is public", method: http.MethodPost, path: "/api/users/register", want: ""},
		{name: "user create needs admin", method: http.MethodPost, path: "/api/users", want: "ROLE_ADMIN"},
		{name: "everything else needs authentication", method: http.MethodGet, path: "/api/products", want: AuthorityAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := policy.Required(tt.method, tt.path)
			if !ok {
				t.Fatalf("Required(%s %s) matched no rule", tt.method, tt.path)
			}
			if got != tt.want {
				t.Errorf("Required(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestRoutePolicy_Handler(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name       string
		method     string
		path       string
		identity   *Identity
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "anonymous on public route",
			method:     http.MethodGet,
			path:       "/api/users",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "anonymous on protected route",
			method:     http.MethodGet,
			path:       "/api/products",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "authenticated on protected route",
			method:     http.MethodGet,
			path:       "/api/products",
			identity:   NewIdentity("alice", []string{"ROLE_USER"}),
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "user role on admin route",
			method:     http.MethodPost,
			path:       "/api/users",
			identity:   NewIdentity("alice", []string{"ROLE_USER"}),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin role on admin route",
			method:     http.MethodPost,
			path:       "/api/users",
			identity:   NewIdentity("root", []string{"ROLE_USER", "ROLE_ADMIN"}),
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			handler := policy.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.identity))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
		})
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "*", path: "/anything", want: true},
		{pattern: "/api/*", path: "/api/users", want: true},
		{pattern: "/api/*", path: "/auth/login", want: false},
		{pattern: "/api/users", path: "/api/users", want: true},
		{pattern: "/api/users", path: "/api/users/1", want: false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.path); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestPolicyError_Is(t *testing.T) {
	err := &PolicyError{Username: "alice", Path: "/api/users", Authority: "ROLE_ADMIN"}
	if !errors.Is(err, ErrForbidden) {
		t.Error("PolicyError should match ErrForbidden")
	}
	if err.Error() == "" {
		t.Error("Error() should describe the denial")
	}
}
