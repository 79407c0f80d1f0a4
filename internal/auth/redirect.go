package auth

import (
	"net/url"
	"strings"
)

// Default routes of the dashboard.
const (
	RedirectQueryKey         = "redirect"
	AuthenticatedEntryPath   = "/home"
	UnauthenticatedEntryPath = "/sign-in"
)

// RedirectResolver picks where to send an admin after sign-in: the deep
// link carried in the QueryKey parameter, or EntryPath.
type RedirectResolver struct {
	QueryKey  string
	EntryPath string
}

// NewRedirectResolver returns a resolver, filling empty arguments with the
// dashboard defaults.
func NewRedirectResolver(queryKey, entryPath string) RedirectResolver {
	if queryKey == "" {
		queryKey = RedirectQueryKey
	}
	if entryPath == "" {
		entryPath = AuthenticatedEntryPath
	}
	return RedirectResolver{QueryKey: queryKey, EntryPath: entryPath}
}

// Resolve returns the post-sign-in destination for the page at u. Targets
// that point off-site fall back to EntryPath.
func (r RedirectResolver) Resolve(u *url.URL) string {
	if u == nil {
		return r.EntryPath
	}
	target := u.Query().Get(r.QueryKey)
	if target == "" || !isLocalPath(target) {
		return r.EntryPath
	}
	return target
}

func isLocalPath(target string) bool {
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return false
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}
