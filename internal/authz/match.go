package authz

import "strings"

// Matches reports whether a granted permission satisfies a required one.
// A grant of "*" satisfies everything. A grant ending in ".*" satisfies the
// bare prefix and anything nested under it; no other wildcard positions are
// supported.
func Matches(required, granted string) bool {
	if granted == Wildcard || granted == required {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, ".*")
	if !ok {
		return false
	}
	return required == prefix || strings.HasPrefix(required, prefix+".")
}

// HasAll reports whether every required permission is satisfied by the
// granted set. An empty required list is vacuously satisfied.
func HasAll(required []string, granted map[string]struct{}) bool {
	if _, ok := granted[Wildcard]; ok {
		return true
	}
	for _, req := range required {
		if !matchesAny(req, granted) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one required permission is satisfied by
// the granted set.
func HasAny(required []string, granted map[string]struct{}) bool {
	if _, ok := granted[Wildcard]; ok {
		return true
	}
	for _, req := range required {
		if matchesAny(req, granted) {
			return true
		}
	}
	return false
}

func matchesAny(required string, granted map[string]struct{}) bool {
	if _, ok := granted[required]; ok {
		return true
	}
	for g := range granted {
		if Matches(required, g) {
			return true
		}
	}
	return false
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// normalizePermissions dedupes, trims and lowercases a requirement list.
func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	normalized := make([]string, 0, len(perms))
	for _, p := range perms {
		p = normalizeKey(p)
		if p == "" {
			continue
		}
		if _, ok := unique[p]; ok {
			continue
		}
		unique[p] = struct{}{}
		normalized = append(normalized, p)
	}
	return normalized
}
