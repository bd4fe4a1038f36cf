package constants

import "time"

const (
	// TokenType for Bearer authentication
	TokenType = "Bearer"

	// AuthHeaderName is the name of the Authorization header
	AuthHeaderName = "Authorization"

	// AuthHeaderPrefix is the prefix for the Authorization header value
	AuthHeaderPrefix = "Bearer "

	// CallbackPath is appended to the configured origin to form the redirect URI
	CallbackPath = "/auth/callback"

	// Google endpoints
	GoogleAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenURL  = "https://oauth2.googleapis.com/token"
	GoogleRevokeURL = "https://oauth2.googleapis.com/revoke"

	// DefaultTokenTimeout bounds exchange, refresh and revoke calls
	DefaultTokenTimeout = 10 * time.Second

	// DefaultStateTTL is how long an issued state value is accepted
	DefaultStateTTL = 10 * time.Minute

	// StateLength is the number of base-36 characters in a state value
	StateLength = 26
)

// Storage slot names, fixed and unversioned
const (
	AccessTokenKey  = "youtube_access_token"
	RefreshTokenKey = "youtube_refresh_token"
	TokenExpiryKey  = "youtube_token_expiry"
)

// YouTube scopes requested at authorization
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}
