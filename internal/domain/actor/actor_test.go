package actor

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/kinsearch/internal/domain"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"", Public, false},
		{"public", Public, false},
		{"mortuary_staff", MortuaryStaff, false},
		{"police", Police, false},
		{"admin", Admin, false},
		{"superuser", "", true},
		{"Police", "", true},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, domain.ErrInvalidRole) {
				t.Errorf("ParseRole(%q): expected ErrInvalidRole, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRole_Professional(t *testing.T) {
	if Public.Professional() {
		t.Error("public must not be professional")
	}
	for _, r := range []Role{MortuaryStaff, Police, Admin} {
		if !r.Professional() {
			t.Errorf("%s should be professional", r)
		}
	}
}

func TestResolve_NotApprovedIsPublic(t *testing.T) {
	for _, ap := range []Approval{Pending, Rejected, ""} {
		a, err := Resolve(Police, "officer-7", ap)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Role() != Public {
			t.Errorf("approval %q: role = %q, want public", ap, a.Role())
		}
		if a.ID() != "officer-7" {
			t.Errorf("approval %q: id = %q", ap, a.ID())
		}
	}
}

func TestResolve_Approved(t *testing.T) {
	a, err := Resolve(Admin, "root", Approved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Role() != Admin {
		t.Errorf("role = %q, want admin", a.Role())
	}
}

func TestNew_InvalidRole(t *testing.T) {
	if _, err := New("janitor", ""); !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestZeroActorIsPublic(t *testing.T) {
	var a Actor
	if a.Role() != Public {
		t.Errorf("zero actor role = %q, want public", a.Role())
	}
}

func TestApproval_IsValid(t *testing.T) {
	for _, a := range []Approval{Pending, Approved, Rejected} {
		if !a.IsValid() {
			t.Errorf("%q should be valid", a)
		}
	}
	if Approval("maybe").IsValid() {
		t.Error("unknown approval should be invalid")
	}
}
