// Package tenancy derives and validates tenant store names.
//
// A tenant store is the isolated set of class records owned by one user.
// Its name is derived from the username once, at registration, and is then
// carried in session claims to route every data request.
package tenancy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/gpatracker/internal/common"
)

const (
	namePrefix = "user_"
	nameSuffix = "_data"

	// MaxNameLength matches the PostgreSQL identifier limit so names stay
	// usable as identifiers if stores are ever split into tables again.
	MaxNameLength = 63
)

var validName = regexp.MustCompile(`^user_[A-Za-z0-9_]+_data$`)

// DeriveName maps a username to its tenant store name: "user_<username>_data"
// with every character outside [A-Za-z0-9_] replaced by '_'. Distinct
// usernames may sanitize to the same name; the users table keeps tenant names
// unique, so such a registration fails as a duplicate.
func DeriveName(username string) string {
	var b strings.Builder
	b.Grow(len(namePrefix) + len(username) + len(nameSuffix))
	b.WriteString(namePrefix)
	for _, r := range username {
		if r < 0x80 && isWordByte(byte(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString(nameSuffix)
	return b.String()
}

// Validate is the allow-list applied before any schema-level operation.
func Validate(name string) error {
	if len(name) > MaxNameLength || !validName.MatchString(name) {
		return fmt.Errorf("%w: invalid tenant name %q", common.ErrValidation, name)
	}
	return nil
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
