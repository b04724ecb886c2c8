package document

import (
	"fmt"
	"sync"

	"github.com/lvillar/deckforge"
)

// ChangeFunc is notified with a snapshot after every successful mutation.
type ChangeFunc func(doc *Document)

// Store owns the document of one editing session. Every mutation goes
// through a typed operation that re-establishes the page-index invariant and
// then notifies the change listeners (persistence, live views).
//
// Readers receive deep copies, so exporters can walk a snapshot while the
// session keeps editing.
type Store struct {
	mu        sync.RWMutex
	doc       *Document
	listeners []ChangeFunc
}

// NewStore returns a store holding doc (which may be nil).
func NewStore(doc *Document) *Store {
	s := &Store{}
	if doc != nil {
		s.doc = doc.Clone()
		s.doc.Renumber()
	}
	return s
}

// OnChange registers a listener. Listeners run synchronously, in
// registration order, outside the store lock.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current document, or nil.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Len returns the number of pages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0
	}
	return len(s.doc.Pages)
}

// Page returns a copy of the page with the given 1-based index.
func (s *Store) Page(index int) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkIndex(index); err != nil {
		return Page{}, err
	}
	return s.doc.Pages[index-1].Clone(), nil
}

// Replace swaps in a whole new document (a fresh generation or an import).
func (s *Store) Replace(doc *Document) {
	s.mutate(func() error {
		if doc == nil {
			s.doc = nil
			return nil
		}
		s.doc = doc.Clone()
		return nil
	})
}

// SetPages replaces the page list, keeping the metadata.
func (s *Store) SetPages(pages []Page) error {
	return s.mutate(func() error {
		if s.doc == nil {
			s.doc = &Document{}
		}
		s.doc.Pages = make([]Page, len(pages))
		for i, p := range pages {
			s.doc.Pages[i] = p.Clone()
		}
		return nil
	})
}

// ReplacePage replaces the page at index. The replacement's own Index is
// ignored; the page keeps its position.
func (s *Store) ReplacePage(index int, page Page) error {
	return s.mutate(func() error {
		if err := s.checkIndex(index); err != nil {
			return err
		}
		s.doc.Pages[index-1] = page.Clone()
		return nil
	})
}

// UpdatePageContent applies fn to a copy of the page content and stores the
// result.
func (s *Store) UpdatePageContent(index int, fn func(*Content)) error {
	return s.mutate(func() error {
		if err := s.checkIndex(index); err != nil {
			return err
		}
		p := s.doc.Pages[index-1].Clone()
		fn(&p.Content)
		s.doc.Pages[index-1] = p
		return nil
	})
}

// SetTemplate changes the template of one page without touching its content.
func (s *Store) SetTemplate(index int, tag Tag) error {
	return s.mutate(func() error {
		if err := s.checkIndex(index); err != nil {
			return err
		}
		s.doc.Pages[index-1].Template = tag
		return nil
	})
}

// SetLocked toggles the advisory lock of a page.
func (s *Store) SetLocked(index int, locked bool) error {
	return s.mutate(func() error {
		if err := s.checkIndex(index); err != nil {
			return err
		}
		s.doc.Pages[index-1].Locked = locked
		return nil
	})
}

// MovePage moves the page at index from to position to (both 1-based).
func (s *Store) MovePage(from, to int) error {
	return s.mutate(func() error {
		if err := s.checkIndex(from); err != nil {
			return err
		}
		if err := s.checkIndex(to); err != nil {
			return err
		}
		pages := s.doc.Pages
		p := pages[from-1]
		pages = append(pages[:from-1], pages[from:]...)
		pages = append(pages[:to-1], append([]Page{p}, pages[to-1:]...)...)
		s.doc.Pages = pages
		return nil
	})
}

// RemovePage deletes the page at index.
func (s *Store) RemovePage(index int) error {
	return s.mutate(func() error {
		if err := s.checkIndex(index); err != nil {
			return err
		}
		s.doc.Pages = append(s.doc.Pages[:index-1], s.doc.Pages[index:]...)
		return nil
	})
}

// SetMetadata replaces the document metadata.
func (s *Store) SetMetadata(m Metadata) error {
	return s.mutate(func() error {
		if s.doc == nil {
			s.doc = &Document{}
		}
		s.doc.Metadata = m
		return nil
	})
}

func (s *Store) checkIndex(index int) error {
	if s.doc == nil || index < 1 || index > len(s.doc.Pages) {
		n := 0
		if s.doc != nil {
			n = len(s.doc.Pages)
		}
		return fmt.Errorf("%w: page index %d out of range [1,%d]", deckforge.ErrInvalidDocument, index, n)
	}
	return nil
}

func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.doc != nil {
		s.doc.Renumber()
	}
	snapshot := s.doc.Clone()
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}
