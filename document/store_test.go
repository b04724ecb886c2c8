package document

import (
	"errors"
	"testing"

	"github.com/lvillar/deckforge"
)

func fivePages() *Document {
	doc := &Document{}
	for i := 0; i < 5; i++ {
		doc.Pages = append(doc.Pages, Page{
			Template: TagInfoGrid,
			Content:  Content{Title: string(rune('A' + i))},
		})
	}
	doc.Renumber()
	return doc
}

// Replacing one page (as a regeneration does) leaves every other page and
// every index untouched.
func TestStoreReplacePageKeepsOthers(t *testing.T) {
	s := NewStore(fivePages())
	before := s.Snapshot()

	err := s.ReplacePage(3, Page{Index: 99, Template: TagTimeline, Content: Content{Title: "new"}})
	if err != nil {
		t.Fatalf("ReplacePage: %v", err)
	}

	after := s.Snapshot()
	for i, p := range after.Pages {
		if p.Index != i+1 {
			t.Fatalf("position %d has index %d", i, p.Index)
		}
		if i == 2 {
			if p.Template != TagTimeline || p.Content.Title != "new" {
				t.Fatalf("page 3 not replaced: %+v", p)
			}
			continue
		}
		if p.Template != before.Pages[i].Template || p.Content.Title != before.Pages[i].Content.Title {
			t.Fatalf("page %d changed: %+v", p.Index, p)
		}
	}
}

func TestStoreUpdatePageContent(t *testing.T) {
	s := NewStore(fivePages())
	if err := s.UpdatePageContent(2, func(c *Content) { c.Subtitle = "sub" }); err != nil {
		t.Fatalf("UpdatePageContent: %v", err)
	}
	p, err := s.Page(2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.Content.Subtitle != "sub" || p.Content.Title != "B" {
		t.Fatalf("unexpected content %+v", p.Content)
	}
}

func TestStoreMoveAndRemoveRenumber(t *testing.T) {
	s := NewStore(fivePages())
	if err := s.MovePage(1, 5); err != nil {
		t.Fatalf("MovePage: %v", err)
	}
	doc := s.Snapshot()
	var titles string
	for i, p := range doc.Pages {
		if p.Index != i+1 {
			t.Fatalf("position %d has index %d", i, p.Index)
		}
		titles += p.Content.Title
	}
	if titles != "BCDEA" {
		t.Fatalf("unexpected order %q", titles)
	}

	if err := s.RemovePage(2); err != nil {
		t.Fatalf("RemovePage: %v", err)
	}
	doc = s.Snapshot()
	if len(doc.Pages) != 4 || doc.Pages[1].Content.Title != "D" || doc.Pages[1].Index != 2 {
		t.Fatalf("unexpected pages after remove: %+v", doc.Pages)
	}
}

func TestStoreSetPagesRenumbers(t *testing.T) {
	s := NewStore(nil)
	if err := s.SetPages([]Page{{Index: 4}, {Index: 4}}); err != nil {
		t.Fatalf("SetPages: %v", err)
	}
	if err := s.Snapshot().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestStoreOutOfRange(t *testing.T) {
	s := NewStore(fivePages())
	for _, idx := range []int{0, 6, -1} {
		if err := s.SetLocked(idx, true); !errors.Is(err, deckforge.ErrInvalidDocument) {
			t.Fatalf("index %d: expected ErrInvalidDocument, got %v", idx, err)
		}
	}
	if _, err := NewStore(nil).Page(1); err == nil {
		t.Fatal("expected error on empty store")
	}
}

func TestStoreNotifiesListeners(t *testing.T) {
	s := NewStore(fivePages())
	var calls int
	var last *Document
	s.OnChange(func(doc *Document) {
		calls++
		last = doc
	})

	_ = s.SetLocked(1, true)
	_ = s.SetLocked(9, true) // fails, no notification
	_ = s.SetTemplate(2, TagCover)

	if calls != 2 {
		t.Fatalf("got %d notifications, want 2", calls)
	}
	if !last.Pages[0].Locked || last.Pages[1].Template != TagCover {
		t.Fatalf("unexpected snapshot %+v", last.Pages[:2])
	}

	// Snapshots handed to listeners are detached from the store.
	last.Pages[0].Content.Title = "mutated"
	if p, _ := s.Page(1); p.Content.Title != "A" {
		t.Fatal("listener snapshot aliases store state")
	}
}
