package authz

import (
	"net/http"
	"strings"

	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), name, email, and a found
// flag. If no user is present in context it returns "visitor", "", "", false,
// so ok=true always means an authenticated caller.
func UserCtx(r *http.Request) (role string, name string, email string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.Email, true
}

// IsClubAdmin reports whether the current request's user is a club admin.
func IsClubAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "club_admin"
}

// AdministersClub reports whether the current caller is the admin of the
// given club. Ownership checks for events, announcements, and replies all
// reduce to this.
func AdministersClub(r *http.Request, clubID primitive.ObjectID) bool {
	own := UserClubID(r)
	return !own.IsZero() && own == clubID
}

// UserClubID returns the club administered by the current caller.
// Returns NilObjectID if the caller is not a club admin.
func UserClubID(r *http.Request) primitive.ObjectID {
	if !IsClubAdmin(r) {
		return primitive.NilObjectID
	}
	user, _ := auth.CurrentUser(r)
	oid, err := primitive.ObjectIDFromHex(user.ClubID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
