package domain

import "strings"

// Allowlist is the set of e-mail addresses allowed to use the admin API.
type Allowlist struct {
	emails map[string]struct{}
}

// NewAllowlist ignores blank entries and compares addresses case-insensitively.
func NewAllowlist(emails ...string) Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = NormalizeEmail(e); e != "" {
			set[e] = struct{}{}
		}
	}
	return Allowlist{emails: set}
}

// ParseAllowlist splits a comma-separated list.
func ParseAllowlist(raw string) Allowlist {
	return NewAllowlist(strings.Split(raw, ",")...)
}

func (a Allowlist) Allows(email string) bool {
	if email = NormalizeEmail(email); email == "" {
		return false
	}
	_, ok := a.emails[email]
	return ok
}

// Emails returns the normalized members in no particular order.
func (a Allowlist) Emails() []string {
	out := make([]string, 0, len(a.emails))
	for e := range a.emails {
		out = append(out, e)
	}
	return out
}

func (a Allowlist) Len() int { return len(a.emails) }
