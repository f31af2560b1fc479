// Package wrapper zapisuje rekordy do pliku TSV.
package wrapper

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/bartek5186/plentyexport/internal/product"
)

// TSV pisze do <path>.tmp; Close podmienia plik docelowy, Abort go porzuca
type TSV struct {
	mu      sync.Mutex
	path    string
	tmp     string
	f       *os.File
	w       *csv.Writer
	header  bool
	written int
	closed  bool
}

func Create(path string) (*TSV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.Wrap(err, errs.ErrOutput, "create output dir")
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrOutput, "create output file")
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	return &TSV{path: path, tmp: tmp, f: f, w: w}, nil
}

// Write dopisuje rekord; nagłówek przy pierwszym zapisie
func (t *TSV) Write(rec product.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errs.Wrap(fmt.Errorf("writer closed"), errs.ErrOutput, t.path)
	}
	if !t.header {
		if err := t.w.Write(product.Columns); err != nil {
			return errs.Wrap(err, errs.ErrOutput, "write header")
		}
		t.header = true
	}
	if err := t.w.Write(rec.Values()); err != nil {
		return errs.Wrap(err, errs.ErrOutput, "write record")
	}
	t.written++
	return nil
}

func (t *TSV) Written() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

func (t *TSV) Path() string { return t.path }

// Close zapisuje bufor i przenosi plik tymczasowy na miejsce docelowe.
// Pusty eksport też dostaje nagłówek.
func (t *TSV) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	if !t.header {
		_ = t.w.Write(product.Columns)
		t.header = true
	}
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		t.discard()
		return errs.Wrap(err, errs.ErrOutput, "flush")
	}
	if err := t.f.Close(); err != nil {
		_ = os.Remove(t.tmp)
		return errs.Wrap(err, errs.ErrOutput, "close")
	}
	if err := os.Rename(t.tmp, t.path); err != nil {
		_ = os.Remove(t.tmp)
		return errs.Wrap(err, errs.ErrOutput, "rename")
	}
	return nil
}

// Abort – przerwany eksport, poprzedni plik zostaje nietknięty
func (t *TSV) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.discard()
}

func (t *TSV) discard() {
	_ = t.f.Close()
	_ = os.Remove(t.tmp)
}
