package services

import (
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

var reservedUsernames = map[string]struct{}{
	"admin": {}, "administrator": {}, "root": {}, "system": {}, "support": {},
	"api": {}, "auth": {}, "login": {}, "register": {}, "profile": {},
	"users": {}, "follow": {}, "followers": {}, "following": {}, "settings": {},
	"dashboard": {}, "reports": {}, "me": {}, "null": {}, "undefined": {},
}

// NormalizeUsername lowercases and validates a username.
func NormalizeUsername(raw string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(u) {
		return "", ErrInvalidUsername
	}
	if _, reserved := reservedUsernames[u]; reserved {
		return "", ErrReservedUsername
	}
	return u, nil
}
