package repositorycache

import (
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// keyRegistry tracks page keys this process has populated so they can be cleared
// on stores that cannot delete by prefix.
type keyRegistry struct {
	keys *xsync.MapOf[string, struct{}]
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{keys: xsync.NewMapOf[string, struct{}]()}
}

func (r *keyRegistry) track(key string) {
	r.keys.Store(key, struct{}{})
}

// drain removes and returns every tracked key starting with prefix.
func (r *keyRegistry) drain(prefix string) []string {
	var matched []string
	r.keys.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
		return true
	})

	for _, key := range matched {
		r.keys.Delete(key)
	}
	sort.Strings(matched)
	return matched
}
