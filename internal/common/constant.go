package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme accepted by the API, including the
// separating space.
const BearerScheme = "Bearer "
