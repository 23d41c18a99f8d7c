package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	role, name, email, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false for request with no user")
	}
	if role != "visitor" {
		t.Errorf("expected role 'visitor', got %q", role)
	}
	if name != "" || email != "" {
		t.Errorf("expected empty name/email, got %q/%q", name, email)
	}
}

func TestUserCtx_RoleLowercased(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithUser(r, &auth.SessionUser{
		Name:  "Ada",
		Email: "ada@test.edu",
		Role:  "Club_Admin",
	})

	role, name, email, ok := authz.UserCtx(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "club_admin" {
		t.Errorf("expected role 'club_admin', got %q", role)
	}
	if name != "Ada" || email != "ada@test.edu" {
		t.Errorf("unexpected name/email %q/%q", name, email)
	}
}

func TestAdministersClub(t *testing.T) {
	clubID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	tests := []struct {
		name string
		user *auth.SessionUser
		club primitive.ObjectID
		want bool
	}{
		{
			name: "admin of the club",
			user: &auth.SessionUser{Role: "club_admin", ClubID: clubID.Hex()},
			club: clubID,
			want: true,
		},
		{
			name: "admin of a different club",
			user: &auth.SessionUser{Role: "club_admin", ClubID: otherID.Hex()},
			club: clubID,
			want: false,
		},
		{
			name: "regular user",
			user: &auth.SessionUser{Role: "user"},
			club: clubID,
			want: false,
		},
		{
			name: "admin with malformed club id",
			user: &auth.SessionUser{Role: "club_admin", ClubID: "not-hex"},
			club: clubID,
			want: false,
		},
		{
			name: "no user",
			user: nil,
			club: clubID,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				r = auth.WithUser(r, tt.user)
			}
			if got := authz.AdministersClub(r, tt.club); got != tt.want {
				t.Errorf("AdministersClub = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsClubAdmin(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithUser(r, &auth.SessionUser{Role: "club_admin", ClubID: primitive.NewObjectID().Hex()})
	if !authz.IsClubAdmin(r) {
		t.Error("expected IsClubAdmin=true")
	}

	r = httptest.NewRequest("GET", "/", nil)
	r = auth.WithUser(r, &auth.SessionUser{Role: "user"})
	if authz.IsClubAdmin(r) {
		t.Error("expected IsClubAdmin=false for regular user")
	}
}

func TestUserClubID_RequiresAdminRole(t *testing.T) {
	clubID := primitive.NewObjectID()

	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithUser(r, &auth.SessionUser{Role: "club_admin", ClubID: clubID.Hex()})
	if got := authz.UserClubID(r); got != clubID {
		t.Errorf("UserClubID = %v, want %v", got, clubID)
	}

	// A stale ClubID on a non-admin session must not grant ownership.
	r = httptest.NewRequest("GET", "/", nil)
	r = auth.WithUser(r, &auth.SessionUser{Role: "user", ClubID: clubID.Hex()})
	if got := authz.UserClubID(r); !got.IsZero() {
		t.Errorf("UserClubID for regular user = %v, want NilObjectID", got)
	}
}
