package types

// HTTP Header Constants
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
)

// Authentication Constants
const (
	BearerPrefix      = "Bearer "
	AccessTokenCookie = "access_token"
)

// UserCtxName is the fiber Locals key holding the authenticated UserContext.
const UserCtxName = "user"

// UserContext is the viewer identity resolved from the identity provider.
type UserContext struct {
	UserID      string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl"`
}

// IsAnonymous reports whether no viewer is attached.
func (u UserContext) IsAnonymous() bool {
	return u.UserID == ""
}
