package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func grantedSet(perms ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func TestMatches(t *testing.T) {
	cases := []struct {
		name     string
		required string
		granted  string
		want     bool
	}{
		{"exact", "orders.create", "orders.create", true},
		{"prefix wildcard nested", "orders.create", "orders.*", true},
		{"prefix wildcard bare prefix", "orders", "orders.*", true},
		{"prefix wildcard deep", "orders.create.bulk", "orders.*", true},
		{"prefix boundary", "ordersx", "orders.*", false},
		{"global wildcard", "anything.at.all", "*", true},
		{"no match", "orders.create", "menu.read", false},
		{"suffix wildcard unsupported", "orders.create", "*.create", false},
		{"wildcard required literal", "orders.*", "orders.*", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Matches(tc.required, tc.granted))
		})
	}
}

func TestHasAllWildcard(t *testing.T) {
	granted := grantedSet("*")
	require.True(t, HasAll([]string{"orders.create", "till.close"}, granted))
	require.True(t, HasAny([]string{"orders.create", "till.close"}, granted))
	require.True(t, HasAll(nil, granted))
}

func TestHasAll(t *testing.T) {
	granted := grantedSet("orders.*", "menu.read")

	require.True(t, HasAll([]string{"orders.create"}, granted))
	require.True(t, HasAll([]string{"orders.create", "menu.read"}, granted))
	require.False(t, HasAll([]string{"orders.create", "menu.write"}, granted))
	require.False(t, HasAll([]string{"till.close"}, granted))

	// Empty requirement is vacuously satisfied.
	require.True(t, HasAll(nil, grantedSet()))
}

func TestHasAllDecomposability(t *testing.T) {
	granted := grantedSet("orders.*", "menu.read", "till.close")
	reqs := [][2]string{
		{"orders.create", "menu.read"},
		{"orders.create", "menu.write"},
		{"till.close", "till.open"},
		{"till.close", "orders"},
	}
	for _, pair := range reqs {
		both := HasAll([]string{pair[0], pair[1]}, granted)
		each := HasAll([]string{pair[0]}, granted) && HasAll([]string{pair[1]}, granted)
		require.Equal(t, each, both, "pair %v", pair)
	}
}

func TestHasAny(t *testing.T) {
	granted := grantedSet("menu.read")

	require.True(t, HasAny([]string{"orders.create", "menu.read"}, granted))
	require.False(t, HasAny([]string{"orders.create", "till.close"}, granted))
	require.False(t, HasAny(nil, granted))
}

func TestNormalizePermissions(t *testing.T) {
	got := normalizePermissions([]string{" Orders.Create ", "orders.create", "", "menu.read"})
	require.Equal(t, []string{"orders.create", "menu.read"}, got)
}
