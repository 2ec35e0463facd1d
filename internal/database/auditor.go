package database

import (
	"os"
	"os/user"
)

const unknownAuditor = "unknown"

// Auditor identifies who created a row and on which machine.
type Auditor struct {
	User    string
	Machine string
}

// CurrentAuditor reads the OS user and host name, using "unknown" for either
// when it cannot be determined.
func CurrentAuditor() Auditor {
	a := Auditor{User: unknownAuditor, Machine: unknownAuditor}
	if u, err := user.Current(); err == nil && u.Username != "" {
		a.User = u.Username
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		a.Machine = host
	}
	return a
}
