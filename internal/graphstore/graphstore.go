// Package graphstore persists exported call graphs and verifier
// baselines. A Store abstracts where bytes live (filesystem, embedded
// badger database); the encoding layer on top offers the two supported
// physical forms of the same logical schema: indented JSON and
// lz4-compressed JSON.
package graphstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
)

// ErrObjectNotFound indicates an object was not found in the store.
var ErrObjectNotFound = errors.New("object not found")

type ReadSizeCloser interface {
	io.Reader
	io.Closer
	Size() int64
}

// Store provides a common interface over storage backends.
type Store interface {
	// Put opens a writer for the object named name.
	Put(ctx context.Context, name string) (io.WriteCloser, error)
	// Get opens the object named name, or returns ErrObjectNotFound.
	Get(ctx context.Context, name string) (ReadSizeCloser, error)
}

// Encoding selects the physical form of a persisted document.
type Encoding int

const (
	// EncodingJSON is the human-readable form.
	EncodingJSON Encoding = iota
	// EncodingBinary is lz4-compressed JSON.
	EncodingBinary
)

// EncodingForName picks the encoding from an object name's extension.
// ".bin" and ".lz4" select the binary form, everything else JSON.
func EncodingForName(name string) Encoding {
	switch filepath.Ext(name) {
	case ".bin", ".lz4":
		return EncodingBinary
	}
	return EncodingJSON
}

// Write encodes d and stores it under name.
func Write(ctx context.Context, s Store, name string, enc Encoding, d interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ow, err := s.Put(ctx, name)
	if err != nil {
		return err
	}
	switch enc {
	case EncodingBinary:
		zw := lz4.NewWriter(ow)
		_ = zw.Apply(lz4.CompressionLevelOption(lz4.Level9))
		if err := json.NewEncoder(zw).Encode(d); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	default:
		jw := json.NewEncoder(ow)
		jw.SetIndent("", "  ")
		if err := jw.Encode(d); err != nil {
			return err
		}
	}
	return ow.Close()
}

// Read loads the object under name and decodes it into d.
func Read(ctx context.Context, s Store, name string, enc Encoding, d interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	or, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	defer or.Close()
	var r io.Reader = or
	if enc == EncodingBinary {
		r = lz4.NewReader(or)
	}
	return json.NewDecoder(r).Decode(d)
}
