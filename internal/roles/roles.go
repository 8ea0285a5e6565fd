// Package roles defines the closed set of hub audiences and carries the
// caller's role through a request.
//
// Authentication happens upstream. The gateway in front of hub forwards the
// authenticated caller's role in the X-Hub-Role header; requests without a
// valid role are treated as anonymous and only see unrestricted content.
package roles

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/hub/pkg/query"
)

// Header carries the caller role set by the upstream gateway.
const Header = "X-Hub-Role"

// ErrInvalidRole indicates a value outside the known roles.
var ErrInvalidRole = errors.New("role must be client, distributor, consultant, or super_admin")

// Role is an audience a material or trail can be published to.
type Role string

// Valid roles. SuperAdmin sees everything regardless of restrictions.
const (
	Client      Role = "client"
	Distributor Role = "distributor"
	Consultant  Role = "consultant"
	SuperAdmin  Role = "super_admin"
)

var roles = []Role{
	Client,
	Distributor,
	Consultant,
	SuperAdmin,
}

// Roles returns the list of valid roles.
func Roles() []Role {
	return roles
}

// ParseRole validates a string as a known role.
func ParseRole(s string) (Role, error) {
	v := Role(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(roles, v) {
		return "", ErrInvalidRole
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known role.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Normalize returns the allowed roles sorted and deduplicated, never nil.
func Normalize(allowed []Role) []Role {
	out := slices.Clone(allowed)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []Role{}
	}
	return out
}

// List is a set of allowed roles persisted as a JSONB array.
type List []Role

// Scan implements sql.Scanner for JSONB role arrays.
func (l *List) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = List{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan roles: unsupported type %T", src)
	}

	var out []Role
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan roles: %w", err)
	}
	*l = Normalize(out)
	return nil
}

// Value implements driver.Valuer, encoding the list as a JSON array.
func (l List) Value() (driver.Value, error) {
	data, err := json.Marshal(Normalize(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// CanAccess reports whether a caller with role r may see content restricted
// to allowed. An empty allowed list means unrestricted.
func CanAccess(allowed []Role, r Role) bool {
	if r == SuperAdmin || len(allowed) == 0 {
		return true
	}
	return r != "" && slices.Contains(allowed, r)
}

// ApplyVisibility restricts a query to rows the caller may see. field is the
// view property, or a qualified column, of the JSONB array of allowed roles.
func ApplyVisibility(b *query.Builder, field string, r Role) *query.Builder {
	col := b.Column(field)

	switch r {
	case SuperAdmin:
		return b
	case "":
		return b.WhereRaw(col + " = '[]'::jsonb")
	default:
		return b.WhereRaw(
			"("+col+" = '[]'::jsonb OR "+col+" @> jsonb_build_array($%d::text))",
			string(r),
		)
	}
}

type contextKey struct{}

// WithRole returns a copy of ctx carrying r.
func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the caller role, or the empty role for anonymous callers.
func FromContext(ctx context.Context) Role {
	r, _ := ctx.Value(contextKey{}).(Role)
	return r
}

// Middleware reads the role header into the request context.
// Missing or unknown values leave the request anonymous.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role, err := ParseRole(r.Header.Get(Header)); err == nil {
				r = r.WithContext(WithRole(r.Context(), role))
			}
			next.ServeHTTP(w, r)
		})
	}
}
