package graphstore

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/go-cmp/cmp"
)

var badgerDB *badger.DB

func TestMain(m *testing.M) {
	var err error
	badgerDB, err = badger.Open(badger.DefaultOptions("").WithInMemory(true))
	if err != nil {
		log.Fatalf("couldn't create an in-memory badgerdb: %s", err.Error())
	}
	code := m.Run()

	err = badgerDB.Close()
	if err != nil {
		log.Printf("closing in-memory badgerdb: %s", err.Error())
	}

	os.Exit(code)
}

type testDoc struct {
	Name  string    `json:"name"`
	Times []float64 `json:"times"`
}

func TestEncodingForName(t *testing.T) {
	tests := []struct {
		name string
		want Encoding
	}{
		{"graph.json", EncodingJSON},
		{"graph", EncodingJSON},
		{"graph.bin", EncodingBinary},
		{"graph.lz4", EncodingBinary},
		{"dir/graph.bin", EncodingBinary},
	}
	for _, tt := range tests {
		if got := EncodingForName(tt.name); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	original := testDoc{
		Name:  "withdraw",
		Times: []float64{0.002, 0.0021},
	}

	stores := map[string]Store{
		"File":   &FileStore{Dir: t.TempDir()},
		"Badger": &Badger{DB: badgerDB},
	}
	encodings := map[string]Encoding{
		"doc.json": EncodingJSON,
		"doc.bin":  EncodingBinary,
	}

	for storeName, store := range stores {
		for object, enc := range encodings {
			t.Run(storeName+"/"+object, func(t *testing.T) {
				if err := Write(ctx, store, object, enc, original); err != nil {
					t.Fatalf("we should be able to write: %v", err)
				}
				var loaded testDoc
				if err := Read(ctx, store, object, enc, &loaded); err != nil {
					t.Fatalf("we should be able to read: %v", err)
				}
				if diff := cmp.Diff(original, loaded); diff != "" {
					t.Fatalf("data should be identical: %s", diff)
				}
			})
		}
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"File":   &FileStore{Dir: t.TempDir()},
		"Badger": &Badger{DB: badgerDB},
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			var d testDoc
			err := Read(ctx, store, "absent.json", EncodingJSON, &d)
			if !errors.Is(err, ErrObjectNotFound) {
				t.Fatalf("got %v, want ErrObjectNotFound", err)
			}
		})
	}
}

func TestFileStoreCreatesDirectories(t *testing.T) {
	ctx := context.Background()
	store := &FileStore{Dir: t.TempDir()}
	if err := Write(ctx, store, "nested/dir/doc.json", EncodingJSON, testDoc{Name: "x"}); err != nil {
		t.Fatalf("we should be able to write through missing directories: %v", err)
	}
	var d testDoc
	if err := Read(ctx, store, "nested/dir/doc.json", EncodingJSON, &d); err != nil {
		t.Fatalf("we should be able to read it back: %v", err)
	}
}
