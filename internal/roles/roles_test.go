package roles_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/pkg/query"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    roles.Role
		wantErr bool
	}{
		{"client", roles.Client, false},
		{"Distributor", roles.Distributor, false},
		{" consultant ", roles.Consultant, false},
		{"super_admin", roles.SuperAdmin, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := roles.ParseRole(tt.input)
		if tt.wantErr {
			if !errors.Is(err, roles.ErrInvalidRole) {
				t.Errorf("ParseRole(%q) error = %v, want ErrInvalidRole", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestRoleUnmarshalJSON(t *testing.T) {
	var got []roles.Role
	if err := json.Unmarshal([]byte(`["client","consultant"]`), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(got) != 2 || got[0] != roles.Client || got[1] != roles.Consultant {
		t.Errorf("got %v", got)
	}

	if err := json.Unmarshal([]byte(`["guest"]`), &got); !errors.Is(err, roles.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	got := roles.Normalize([]roles.Role{roles.Consultant, roles.Client, roles.Consultant})
	if len(got) != 2 || got[0] != roles.Client || got[1] != roles.Consultant {
		t.Errorf("Normalize = %v, want [client consultant]", got)
	}

	if empty := roles.Normalize(nil); empty == nil || len(empty) != 0 {
		t.Errorf("Normalize(nil) = %#v, want empty slice", empty)
	}
}

func TestCanAccess(t *testing.T) {
	restricted := []roles.Role{roles.Distributor}

	tests := []struct {
		name    string
		allowed []roles.Role
		role    roles.Role
		want    bool
	}{
		{"unrestricted anonymous", nil, "", true},
		{"unrestricted client", []roles.Role{}, roles.Client, true},
		{"restricted match", restricted, roles.Distributor, true},
		{"restricted mismatch", restricted, roles.Client, false},
		{"restricted anonymous", restricted, "", false},
		{"super admin", restricted, roles.SuperAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roles.CanAccess(tt.allowed, tt.role); got != tt.want {
				t.Errorf("CanAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyVisibility(t *testing.T) {
	projection := query.NewProjectionMap("public", "materials", "m").
		Project("id", "ID").
		Project("roles", "Roles")

	tests := []struct {
		name     string
		role     roles.Role
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "super admin unrestricted",
			role:    roles.SuperAdmin,
			wantSQL: "SELECT COUNT(*) FROM public.materials m",
		},
		{
			name:    "anonymous sees open rows",
			role:    "",
			wantSQL: "SELECT COUNT(*) FROM public.materials m WHERE m.roles = '[]'::jsonb",
		},
		{
			name:     "role sees open and own rows",
			role:     roles.Client,
			wantSQL:  "SELECT COUNT(*) FROM public.materials m WHERE (m.roles = '[]'::jsonb OR m.roles @> jsonb_build_array($1::text))",
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(projection)
			roles.ApplyVisibility(b, "Roles", tt.role)
			sql, args := b.BuildCount()

			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		header string
		want   roles.Role
	}{
		{"consultant", roles.Consultant},
		{"SUPER_ADMIN", roles.SuperAdmin},
		{"root", ""},
		{"", ""},
	}

	for _, tt := range tests {
		var got roles.Role
		handler := roles.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = roles.FromContext(r.Context())
		}))

		req := httptest.NewRequest("GET", "/materials", nil)
		if tt.header != "" {
			req.Header.Set(roles.Header, tt.header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got != tt.want {
			t.Errorf("header %q: role = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestListScanValue(t *testing.T) {
	var l roles.List
	if err := l.Scan([]byte(`["consultant","client","client"]`)); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(l) != 2 || l[0] != roles.Client || l[1] != roles.Consultant {
		t.Errorf("scanned %v", l)
	}

	v, err := l.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != `["client","consultant"]` {
		t.Errorf("Value = %v", v)
	}

	var empty roles.List
	if err := empty.Scan(nil); err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("Scan(nil) = %#v, %v", empty, err)
	}

	if v, _ := roles.List(nil).Value(); v != "[]" {
		t.Errorf("nil list Value = %v, want []", v)
	}

	if err := empty.Scan(`["owner"]`); err == nil {
		t.Error("expected error for unknown role")
	}

	if err := empty.Scan(42); err == nil {
		t.Error("expected error for unsupported source")
	}
}
