package gate

import "strings"

// Permission is written "resource:action", e.g. "payment:create".
type Permission string

const (
	Wildcard = "*"
	// PermissionAll grants every action on every resource.
	PermissionAll Permission = "*:*"
)

func NewPermission(resource string, action Action) Permission {
	return Permission(resource + ":" + string(action))
}

// Parse splits the permission. Malformed values yield empty strings.
func (p Permission) Parse() (resource string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested. Either half of p may be "*":
// "contact:*" grants every contact action, "*:view" grants view everywhere.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionAll || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, reqAct := requested.Parse()
	if res == "" || reqRes == "" {
		return false
	}
	resOK := res == Wildcard || res == reqRes
	actOK := string(act) == Wildcard || act == reqAct
	return resOK && actOK
}
