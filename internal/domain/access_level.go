package domain

import "fmt"

// AccessLevel is the role tag carried by a user and by its session claims
type AccessLevel string

const (
	AccessLevelOperator   AccessLevel = "operador"
	AccessLevelSupervisor AccessLevel = "supervisor"
)

// AllAccessLevels contains every valid access level
var AllAccessLevels = []AccessLevel{AccessLevelOperator, AccessLevelSupervisor}

// IsValid checks if an access level is one of the known roles
func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessLevelOperator, AccessLevelSupervisor:
		return true
	}
	return false
}

func (a AccessLevel) String() string {
	return string(a)
}

// ParseAccessLevel converts a raw claim or column value into an AccessLevel.
func ParseAccessLevel(s string) (AccessLevel, error) {
	a := AccessLevel(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown access level %q", s)
	}
	return a, nil
}
