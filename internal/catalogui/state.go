// Package catalogui is the presentation model behind the catalog frontends:
// a mode state machine, a selection set and client-side pagination, kept in one
// State value that every transition takes and returns.
package catalogui

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"weblibrary/internal/domains/book/model"
)

const (
	// PageSize is the number of books shown per page.
	PageSize = 6
	// MessageTTL is how long a status message stays visible.
	MessageTTL = 3 * time.Second
)

var (
	ErrSelectExactlyOne = errors.New("select exactly one book to update")
	ErrNothingSelected  = errors.New("select at least one book to delete")
	ErrNoPendingDelete  = errors.New("no deletion awaiting confirmation")
	ErrWrongMode        = errors.New("action not available in this mode")
)

type Mode int

const (
	ModeNeutral Mode = iota
	ModeCreate
	ModeUpdate
	ModeDelete
	ModeSorting
)

func (m Mode) String() string {
	switch m {
	case ModeNeutral:
		return "neutral"
	case ModeCreate:
		return "create"
	case ModeUpdate:
		return "update"
	case ModeDelete:
		return "delete"
	case ModeSorting:
		return "sorting"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Selectable reports whether records show selection controls in this mode.
func (m Mode) Selectable() bool {
	return m == ModeUpdate || m == ModeDelete
}

type View int

const (
	ViewList View = iota
	ViewEditForm
	ViewFilterForm
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewEditForm:
		return "editForm"
	case ViewFilterForm:
		return "filterForm"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageError
)

type Message struct {
	Text    string
	Kind    MessageKind
	Expires time.Time
	Err     error // cause of a MessageError
}

// State is everything the frontend renders. Treat it as a value: transitions
// never mutate the receiver's slices.
type State struct {
	Mode     Mode
	View     View
	Selected []int64 // sorted ascending
	Books    []model.Book
	Criteria model.Filter
	Options  *model.FilterOptions
	Page     int // zero-based

	// Draft is the book in the edit form. Draft.ID is zero when creating.
	Draft model.BookRequest

	// PendingDelete holds the ids awaiting confirmation.
	PendingDelete []int64

	// Saved is the book stored by the last successful submit.
	Saved *model.Book

	Message *Message
}

// Initial is the state before the first fetch.
func Initial() State {
	return State{Mode: ModeNeutral, View: ViewList}
}

// ========================================
// MODE TRANSITIONS
// ========================================

// EnterMode switches mode and the matching view, always clearing the selection.
// Entering neutral also drops the filter criteria.
func (s State) EnterMode(m Mode) State {
	s.Mode = m
	s.Selected = nil
	s.PendingDelete = nil

	switch m {
	case ModeCreate:
		available := true
		s.View = ViewEditForm
		s.Draft = model.BookRequest{IsAvailable: &available}
	case ModeSorting:
		s.View = ViewFilterForm
	case ModeNeutral:
		s.View = ViewList
		s.Criteria = model.Filter{}
		s.Draft = model.BookRequest{}
	default:
		s.View = ViewList
	}
	return s
}

// ToggleSelect adds or removes id from the selection. Ignored outside update and delete modes
// and for ids not in the fetched set.
func (s State) ToggleSelect(id int64) State {
	if !s.Mode.Selectable() || !lo.ContainsBy(s.Books, func(b model.Book) bool { return b.ID == id }) {
		return s
	}

	if i, found := slices.BinarySearch(s.Selected, id); found {
		s.Selected = slices.Delete(slices.Clone(s.Selected), i, i+1)
	} else {
		s.Selected = slices.Insert(slices.Clone(s.Selected), i, id)
	}
	s.PendingDelete = nil
	return s
}

func (s State) IsSelected(id int64) bool {
	_, found := slices.BinarySearch(s.Selected, id)
	return found
}

// BeginUpdate opens the edit form for the single selected book.
func (s State) BeginUpdate() (State, error) {
	if s.Mode != ModeUpdate {
		return s, ErrWrongMode
	}
	if len(s.Selected) != 1 {
		return s, ErrSelectExactlyOne
	}

	b, ok := lo.Find(s.Books, func(b model.Book) bool { return b.ID == s.Selected[0] })
	if !ok {
		return s, ErrSelectExactlyOne
	}

	s.Draft = model.RequestFromBook(b)
	s.View = ViewEditForm
	return s, nil
}

// EditDraft applies fn to a copy of the draft.
func (s State) EditDraft(fn func(*model.BookRequest)) State {
	draft := s.Draft
	fn(&draft)
	s.Draft = draft
	return s
}

// RequestDelete is the first step of a batch delete; ConfirmDelete performs it.
func (s State) RequestDelete() (State, error) {
	if s.Mode != ModeDelete {
		return s, ErrWrongMode
	}
	if len(s.Selected) == 0 {
		return s, ErrNothingSelected
	}
	s.PendingDelete = slices.Clone(s.Selected)
	return s, nil
}

func (s State) CancelDelete() State {
	s.PendingDelete = nil
	return s
}

// ========================================
// DATA & PAGINATION
// ========================================

// WithBooks replaces the fetched set, resets to the first page and drops
// selections that no longer exist.
func (s State) WithBooks(books []model.Book) State {
	s.Books = books
	s.Page = 0
	s.Selected = lo.Filter(s.Selected, func(id int64, _ int) bool {
		return lo.ContainsBy(books, func(b model.Book) bool { return b.ID == id })
	})
	if len(s.Selected) == 0 {
		s.Selected = nil
	}
	s.PendingDelete = nil
	return s
}

// PageCount is ceil(len(Books)/PageSize), and zero for an empty set.
func (s State) PageCount() int {
	return (len(s.Books) + PageSize - 1) / PageSize
}

// Visible returns the books on the current page.
func (s State) Visible() []model.Book {
	pages := lo.Chunk(s.Books, PageSize)
	if s.Page < 0 || s.Page >= len(pages) {
		return []model.Book{}
	}
	return pages[s.Page]
}

// GoToPage moves within the fetched set, clamped to valid pages. It never refetches.
func (s State) GoToPage(page int) State {
	last := s.PageCount() - 1
	s.Page = max(0, min(page, last))
	return s
}

// ========================================
// MESSAGES
// ========================================

func (s State) WithMessage(kind MessageKind, text string, now time.Time) State {
	s.Message = &Message{Text: text, Kind: kind, Expires: now.Add(MessageTTL)}
	return s
}

func (s State) WithError(err error, now time.Time) State {
	s = s.WithMessage(MessageError, err.Error(), now)
	s.Message.Err = err
	return s
}

// Failure returns the cause when the current message is an error, else nil.
// Check it right after the controller call that may have failed.
func (s State) Failure() error {
	if s.Message == nil || s.Message.Kind != MessageError {
		return nil
	}
	return s.Message.Err
}

// ActiveMessage returns the message if it has not expired yet.
func (s State) ActiveMessage(now time.Time) *Message {
	if s.Message == nil || !now.Before(s.Message.Expires) {
		return nil
	}
	return s.Message
}

// ExpireMessages clears a message whose time is up.
func (s State) ExpireMessages(now time.Time) State {
	if s.ActiveMessage(now) == nil {
		s.Message = nil
	}
	return s
}
