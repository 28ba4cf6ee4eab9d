package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
)

var errMissingAuthorization = errors.New("missing bearer authorization")

// bearerTokenFromHeader extracts the token from "Authorization: Bearer <token>".
// Only the first header value is considered.
func bearerTokenFromHeader(header http.Header) (string, error) {
	raw := header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(raw, common.BearerScheme) {
		return "", errMissingAuthorization
	}
	return raw[len(common.BearerScheme):], nil
}
