package catalogui

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"weblibrary/internal/domains/book/model"
)

// Catalog is the remote API the controller drives. *client.Client satisfies it.
type Catalog interface {
	List(ctx context.Context, filter model.Filter) ([]model.Book, error)
	Filters(ctx context.Context) (*model.FilterOptions, error)
	Create(ctx context.Context, req model.BookRequest) (*model.Book, error)
	Update(ctx context.Context, req model.BookRequest) error
	Delete(ctx context.Context, ids []int64) error
}

// Controller performs the effects behind user actions. Each method takes the
// current State and returns the next one. A failed call keeps the previous view
// and adds an error message.
type Controller struct {
	api Catalog
	now func() time.Time
}

func NewController(api Catalog) *Controller {
	return &Controller{api: api, now: time.Now}
}

// Refresh refetches with the current criteria.
func (c *Controller) Refresh(ctx context.Context, s State) State {
	next, err := c.load(ctx, s)
	if err != nil {
		return s.WithError(err, c.now())
	}
	return next
}

func (c *Controller) load(ctx context.Context, s State) (State, error) {
	books, err := c.api.List(ctx, s.Criteria)
	if err != nil {
		log.Debug().Err(err).Msg("catalog fetch failed")
		return s, fmt.Errorf("failed to load books: %w", err)
	}
	return s.WithBooks(books), nil
}

// SetMode enters m. Neutral refetches the unfiltered set; sorting loads the
// filter options first and stays put if that fails.
func (c *Controller) SetMode(ctx context.Context, s State, m Mode) State {
	switch m {
	case ModeNeutral:
		next, err := c.load(ctx, s.EnterMode(ModeNeutral))
		if err != nil {
			return s.WithError(err, c.now())
		}
		return next

	case ModeSorting:
		opts, err := c.api.Filters(ctx)
		if err != nil {
			return s.WithError(fmt.Errorf("failed to load filters: %w", err), c.now())
		}
		next := s.EnterMode(ModeSorting)
		next.Options = opts
		return next

	case ModeUpdate:
		return s.EnterMode(m).WithMessage(MessageInfo, "Select a book to update", c.now())
	case ModeDelete:
		return s.EnterMode(m).WithMessage(MessageInfo, "Select books to delete", c.now())
	}
	return s.EnterMode(m)
}

// ApplyFilter fetches with f and returns to the list.
func (c *Controller) ApplyFilter(ctx context.Context, s State, f model.Filter) State {
	if err := f.Validate(); err != nil {
		return s.WithError(err, c.now())
	}

	books, err := c.api.List(ctx, f)
	if err != nil {
		return s.WithError(fmt.Errorf("failed to filter books: %w", err), c.now())
	}

	next := s.EnterMode(ModeNeutral)
	next.Criteria = f
	next = next.WithBooks(books)
	return next.WithMessage(MessageInfo, fmt.Sprintf("Found %d books", len(books)), c.now())
}

// BeginUpdate opens the edit form for the selected book.
func (c *Controller) BeginUpdate(s State) State {
	next, err := s.BeginUpdate()
	if err != nil {
		return s.WithError(err, c.now())
	}
	return next
}

// Submit saves the draft: create in create mode, update in update mode.
// On success it returns to neutral with a fresh unfiltered list.
func (c *Controller) Submit(ctx context.Context, s State) State {
	if s.View != ViewEditForm {
		return s.WithError(ErrWrongMode, c.now())
	}
	if err := s.Draft.Validate(); err != nil {
		return s.WithError(err, c.now())
	}

	var (
		text  string
		saved model.Book
	)
	switch s.Mode {
	case ModeCreate:
		created, err := c.api.Create(ctx, s.Draft)
		if err != nil {
			return s.WithError(fmt.Errorf("failed to save book: %w", err), c.now())
		}
		saved = *created
		text = fmt.Sprintf("Book %q created", created.Title)
	case ModeUpdate:
		if err := c.api.Update(ctx, s.Draft); err != nil {
			return s.WithError(fmt.Errorf("failed to update book: %w", err), c.now())
		}
		saved = s.Draft.ToBook()
		text = fmt.Sprintf("Book %q updated", s.Draft.Title)
	default:
		return s.WithError(ErrWrongMode, c.now())
	}

	next := s.EnterMode(ModeNeutral)
	next.Saved = &saved
	next, err := c.load(ctx, next)
	if err != nil {
		return next.WithError(err, c.now())
	}
	return next.WithMessage(MessageInfo, text, c.now())
}

// RequestDelete asks for confirmation of the selected ids.
func (c *Controller) RequestDelete(s State) State {
	next, err := s.RequestDelete()
	if err != nil {
		return s.WithError(err, c.now())
	}
	return next
}

// ConfirmDelete deletes the pending ids and reloads in delete mode.
func (c *Controller) ConfirmDelete(ctx context.Context, s State) State {
	if len(s.PendingDelete) == 0 {
		return s.WithError(ErrNoPendingDelete, c.now())
	}

	n := len(s.PendingDelete)
	if err := c.api.Delete(ctx, s.PendingDelete); err != nil {
		return s.CancelDelete().WithError(fmt.Errorf("failed to delete books: %w", err), c.now())
	}

	next := s.CancelDelete()
	next.Selected = nil
	next, err := c.load(ctx, next)
	if err != nil {
		return next.WithError(err, c.now())
	}
	return next.WithMessage(MessageInfo, fmt.Sprintf("Deleted %d books", n), c.now())
}

// Tick drops expired messages; frontends call it from their render loop.
func (c *Controller) Tick(s State) State {
	return s.ExpireMessages(c.now())
}
