package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"weblibrary/internal/catalogui"
	"weblibrary/internal/client"
	"weblibrary/internal/domains/book/model"
)

// ========================================
// list
// ========================================

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Author      string
	Year        int
	Genre       string
	Language    string
	PagesFrom   int
	PagesTo     int
	IsAvailable bool
	Page        int
	All         bool
}

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered",
		Long: `List books matching every given filter, six per page.

Example:
  libraryctl list --author Herbert --pages-from 200 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Author, "author", "", "exact author")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "publication year")
	cmd.Flags().StringVar(&opts.Genre, "genre", "", "exact genre")
	cmd.Flags().StringVar(&opts.Language, "language", "", "exact language")
	cmd.Flags().IntVar(&opts.PagesFrom, "pages-from", 0, "minimum page count (inclusive)")
	cmd.Flags().IntVar(&opts.PagesTo, "pages-to", 0, "maximum page count (inclusive)")
	cmd.Flags().BoolVar(&opts.IsAvailable, "available", true, "only available (true) or unavailable (false) books")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page to show")
	cmd.Flags().BoolVar(&opts.All, "all", false, "show every page")

	return cmd
}

// filterFromFlags sets only the criteria whose flags were given.
func filterFromFlags(cmd *cobra.Command, opts *ListOptions) model.Filter {
	var f model.Filter
	flags := cmd.Flags()
	if flags.Changed("author") {
		f.Author = lo.ToPtr(opts.Author)
	}
	if flags.Changed("year") {
		f.Year = lo.ToPtr(opts.Year)
	}
	if flags.Changed("genre") {
		f.Genre = lo.ToPtr(opts.Genre)
	}
	if flags.Changed("language") {
		f.Language = lo.ToPtr(opts.Language)
	}
	if flags.Changed("pages-from") {
		f.PagesFrom = lo.ToPtr(opts.PagesFrom)
	}
	if flags.Changed("pages-to") {
		f.PagesTo = lo.ToPtr(opts.PagesTo)
	}
	if flags.Changed("available") {
		f.IsAvailable = lo.ToPtr(opts.IsAvailable)
	}
	return f
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	filter := filterFromFlags(cmd, opts)
	if err := filter.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if opts.Page < 1 {
		return NewExitError(ExitCommandError, "--page must be at least 1")
	}

	ctrl, err := opts.controller()
	if err != nil {
		return err
	}
	out := opts.formatter(cmd)
	out.VerboseLog("GET %s/api/book?%s", opts.Server, filter.Values().Encode())

	state := ctrl.ApplyFilter(cmd.Context(), catalogui.Initial(), filter)
	if err := state.Failure(); err != nil {
		return WrapExitError(ExitFailure, "list failed", err)
	}
	reportMessage(out, ctrl, state)

	state = state.GoToPage(opts.Page - 1)
	visible := state.Visible()
	if opts.All {
		visible = state.Books
	}

	return out.Emit(visible, func(w io.Writer) {
		RenderBookTable(w, visible, state.Page+1, state.PageCount(), len(state.Books))
	})
}

// ========================================
// get
// ========================================

func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rootOpts.client()
			if err != nil {
				return err
			}

			b, err := c.Get(cmd.Context(), id)
			if err != nil {
				return apiFailure(fmt.Sprintf("get book %d failed", id), err)
			}
			return rootOpts.formatter(cmd).Emit(b, func(w io.Writer) { RenderBook(w, *b) })
		},
	}
}

// ========================================
// create / update
// ========================================

// BookFlags holds the editable fields shared by create and update.
type BookFlags struct {
	Title       string
	Author      string
	Year        int
	Genre       string
	Language    string
	Pages       int
	Description string
	Image       string
	Available   bool
}

func (f *BookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.Author, "author", "", "author")
	cmd.Flags().IntVar(&f.Year, "year", 0, "publication year")
	cmd.Flags().StringVar(&f.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&f.Language, "language", "", "language")
	cmd.Flags().IntVar(&f.Pages, "pages", 0, "page count")
	cmd.Flags().StringVar(&f.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.Image, "image", "", "cover image URL or path")
	cmd.Flags().BoolVar(&f.Available, "available", true, "whether the book can be borrowed")
}

// apply copies the flags the user set onto req.
func (f *BookFlags) apply(cmd *cobra.Command, req *model.BookRequest) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		req.Title = f.Title
	}
	if flags.Changed("author") {
		req.Author = f.Author
	}
	if flags.Changed("year") {
		req.Year = f.Year
	}
	if flags.Changed("genre") {
		req.Genre = f.Genre
	}
	if flags.Changed("language") {
		req.Language = f.Language
	}
	if flags.Changed("pages") {
		req.Pages = f.Pages
	}
	if flags.Changed("description") {
		req.Description = lo.ToPtr(f.Description)
	}
	if flags.Changed("image") {
		req.Image = lo.ToPtr(f.Image)
	}
	if flags.Changed("available") {
		req.IsAvailable = lo.ToPtr(f.Available)
	}
}

func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	fields := &BookFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a book",
		Long: `Create a book. Title and author are required.

Example:
  libraryctl create --title Dune --author Herbert --year 1965`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := rootOpts.controller()
			if err != nil {
				return err
			}
			out := rootOpts.formatter(cmd)

			state := ctrl.SetMode(cmd.Context(), catalogui.Initial(), catalogui.ModeCreate)
			state = state.EditDraft(func(req *model.BookRequest) { fields.apply(cmd, req) })
			if err := state.Draft.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid book", err)
			}

			state = ctrl.Submit(cmd.Context(), state)
			if err := state.Failure(); err != nil {
				return apiFailure("create failed", err)
			}
			reportMessage(out, ctrl, state)

			created := *state.Saved
			return out.Emit(created, func(w io.Writer) {
				fmt.Fprintf(w, "Created book %d\n", created.ID)
				RenderBook(w, created)
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	fields := &BookFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a book",
		Long: `Select a book, apply the given flags and store it back. Unset flags keep their values.

Example:
  libraryctl update 3 --available=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := rootOpts.controller()
			if err != nil {
				return err
			}
			out := rootOpts.formatter(cmd)
			failed := fmt.Sprintf("update book %d failed", id)

			state, err := loadCatalog(cmd.Context(), ctrl)
			if err != nil {
				return err
			}
			state = ctrl.SetMode(cmd.Context(), state, catalogui.ModeUpdate).ToggleSelect(id)
			if !state.IsSelected(id) {
				return apiFailure(failed, model.ErrBookNotFound)
			}

			state = ctrl.BeginUpdate(state)
			if err := state.Failure(); err != nil {
				return apiFailure(failed, err)
			}
			state = state.EditDraft(func(req *model.BookRequest) { fields.apply(cmd, req) })
			if err := state.Draft.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid book", err)
			}

			state = ctrl.Submit(cmd.Context(), state)
			if err := state.Failure(); err != nil {
				return apiFailure(failed, err)
			}
			reportMessage(out, ctrl, state)

			updated := *state.Saved
			return out.Emit(updated, func(w io.Writer) {
				fmt.Fprintf(w, "Updated book %d\n", id)
			})
		},
	}
	fields.register(cmd)
	return cmd
}

// ========================================
// delete
// ========================================

func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more books",
		Long: `Delete books by id in one request. Ids that do not exist are skipped.
Requires --yes as confirmation.

Example:
  libraryctl delete 4 7 9 --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			ids = lo.Uniq(ids)

			ctrl, err := rootOpts.controller()
			if err != nil {
				return err
			}
			out := rootOpts.formatter(cmd)

			state, err := loadCatalog(cmd.Context(), ctrl)
			if err != nil {
				return err
			}
			state = ctrl.SetMode(cmd.Context(), state, catalogui.ModeDelete)
			for _, id := range ids {
				state = state.ToggleSelect(id)
				if !state.IsSelected(id) {
					out.VerboseLog("skipping unknown book %d", id)
				}
			}

			state = ctrl.RequestDelete(state)
			if err := state.Failure(); err != nil {
				if errors.Is(err, catalogui.ErrNothingSelected) {
					err = model.ErrBookNotFound
				}
				return apiFailure("delete failed", err)
			}

			pending := state.PendingDelete
			if !yes {
				return NewExitError(ExitCommandError, fmt.Sprintf("refusing to delete %d book(s) without --yes", len(pending)))
			}

			state = ctrl.ConfirmDelete(cmd.Context(), state)
			if err := state.Failure(); err != nil {
				return apiFailure("delete failed", err)
			}
			reportMessage(out, ctrl, state)

			return out.Emit(map[string]interface{}{"deleted": pending}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %d book(s)\n", len(pending))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

// ========================================
// filters / health
// ========================================

func NewFiltersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show the distinct authors, years, genres and languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := rootOpts.controller()
			if err != nil {
				return err
			}
			state := ctrl.SetMode(cmd.Context(), catalogui.Initial(), catalogui.ModeSorting)
			if err := state.Failure(); err != nil {
				return apiFailure("filters failed", err)
			}
			opts := state.Options
			return rootOpts.formatter(cmd).Emit(opts, func(w io.Writer) { RenderFilterOptions(w, *opts) })
		},
	}
}

func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			status, err := c.Health(cmd.Context())
			if err != nil {
				return apiFailure("health check failed", err)
			}
			return rootOpts.formatter(cmd).Emit(status, func(w io.Writer) {
				fmt.Fprintf(w, "status: %v, database: %v, cache: %v\n", status["status"], status["database"], status["cache"])
			})
		},
	}
}

// ========================================
// helpers
// ========================================

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid book id %q", raw))
	}
	return id, nil
}

// loadCatalog fetches the unfiltered catalog that update and delete select from.
func loadCatalog(ctx context.Context, ctrl *catalogui.Controller) (catalogui.State, error) {
	state := ctrl.Refresh(ctx, catalogui.Initial())
	if err := state.Failure(); err != nil {
		return state, apiFailure("load books failed", err)
	}
	return state, nil
}

// reportMessage echoes the controller's status line in verbose mode.
func reportMessage(out *OutputFormatter, ctrl *catalogui.Controller, state catalogui.State) {
	if msg := ctrl.Tick(state).Message; msg != nil {
		out.VerboseLog("%s (mode %s)", msg.Text, state.Mode)
	}
}

func apiFailure(message string, err error) error {
	if client.IsNotFound(err) {
		return WrapExitError(ExitFailure, message, model.ErrBookNotFound)
	}
	return WrapExitError(ExitFailure, message, err)
}

// ExecuteContext runs the root command and returns the process exit code.
func ExecuteContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}
