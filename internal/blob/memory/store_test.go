package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"lineagecore/internal/blob/core"
)

func TestPutGetHeadDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.Put(ctx, "runs/x.tree", strings.NewReader("1:1.0000\n"), core.PutOptions{ContentType: "text/x-nh"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "runs/x.tree", strings.NewReader("dup"), core.PutOptions{}); err == nil {
		t.Fatal("duplicate put succeeded")
	}

	info, rc, err := store.Get(ctx, "runs/x.tree")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "1:1.0000\n" || info.ContentType != "text/x-nh" {
		t.Fatalf("round trip mismatch: %q %+v", string(data), info)
	}

	if _, err := store.Head(ctx, "runs/x.tree"); err != nil {
		t.Fatalf("head: %v", err)
	}
	ok, err := store.Delete(ctx, "runs/x.tree")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%t err=%v", ok, err)
	}
	if _, err := store.Head(ctx, "runs/x.tree"); err == nil {
		t.Fatal("head found deleted blob")
	}
}

func TestListPrefix(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, key := range []string{"runs/b", "runs/a", "misc/z"} {
		if _, err := store.Put(ctx, key, strings.NewReader(key), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "runs/a" || infos[1].Key != "runs/b" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestPresignUnsupported(t *testing.T) {
	if _, err := New().PresignURL(context.Background(), "k", core.SignedURLOptions{}); err != core.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
