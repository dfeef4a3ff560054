package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/back2u/back2u/internal/store"
)

// fakeStore is an in-memory record store for repository tests. Update
// snapshots the map and restores it when fn fails, mirroring the rollback
// behavior of the SQL store.
type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Put(ctx context.Context, key string, value []byte) error {
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	snapshot := make(map[string][]byte, len(f.data))
	for k, v := range f.data {
		snapshot[k] = v
	}
	if err := fn(f); err != nil {
		f.data = snapshot
		return err
	}
	return nil
}
