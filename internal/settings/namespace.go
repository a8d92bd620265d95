package settings

import "context"

type namespacedStore struct {
	inner  Store
	prefix string
}

// Namespace returns a Store that prefixes every key with the given feature prefix and
// account name, e.g. "flickr.alice.FlickrToken"
func Namespace(inner Store, prefix, account string) Store {
	return &namespacedStore{
		inner:  inner,
		prefix: prefix + "." + account + ".",
	}
}

func (s *namespacedStore) GetString(ctx context.Context, key string) (string, error) {
	return s.inner.GetString(ctx, s.prefix+key)
}

func (s *namespacedStore) SetString(ctx context.Context, key, value string) error {
	return s.inner.SetString(ctx, s.prefix+key, value)
}
