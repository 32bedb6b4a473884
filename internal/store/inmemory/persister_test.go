package inmemory

import (
	"context"
	"testing"
)

func TestPersister_GetMissing(t *testing.T) {
	p := NewPersister()
	_, found, err := p.Get(context.Background(), "nope")
	if err != nil || found {
		t.Fatalf("got found=%v err=%v, want not found", found, err)
	}
}

func TestPersister_PutAllCopies(t *testing.T) {
	p := NewPersister()
	ctx := context.Background()

	blob := []byte(`{"a":1}`)
	if err := p.PutAll(ctx, map[string][]byte{"k": blob}); err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	blob[0] = 'X'

	got, found, err := p.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("stored value aliased caller slice: %s", got)
	}

	got[0] = 'Y'
	again, _, _ := p.Get(ctx, "k")
	if string(again) != `{"a":1}` {
		t.Errorf("returned value aliased stored slice: %s", again)
	}
}
