package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-listquery/pkg/cache"
	"github.com/adfharrison1/go-listquery/pkg/collection"
	"github.com/adfharrison1/go-listquery/pkg/config"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/httpsource"
	"github.com/adfharrison1/go-listquery/pkg/logging"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
)

type browseOptions struct {
	filters    []string
	sortBy     string
	descending bool
	pages      int
	search     string
	columns    []string
}

func newBrowseCmd(load configLoader) *cobra.Command {
	opts := browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through a table of the list API with a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := load()
			if err != nil {
				return err
			}
			defer cleanup()
			return runBrowse(cmd.Context(), cfg.Client, opts, cmd.OutOrStdout(), logging.WithComponent("browse"))
		},
	}
	cmd.Flags().StringSliceVarP(&opts.filters, "filter", "f", nil, "filter as key=value, repeatable")
	cmd.Flags().StringVarP(&opts.sortBy, "sort", "s", "", "sort key")
	cmd.Flags().BoolVar(&opts.descending, "desc", false, "sort descending")
	cmd.Flags().IntVarP(&opts.pages, "pages", "n", 1, "number of pages to print")
	cmd.Flags().StringVarP(&opts.search, "search", "q", "", "free text search instead of listing")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", []string{"id", "name", "price"}, "columns to print")

	return cmd
}

// parseFilters turns key=value pairs into filters. Repeated keys collect
// their values.
func parseFilters(pairs []string) (map[string]any, error) {
	out := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, want key=value", pair)
		}
		switch existing := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{existing, value}
		case []string:
			out[key] = append(existing, value)
		}
	}
	return out, nil
}

func newBrowseCollection(c *config.Client, logger logrus.FieldLogger) (*collection.Collection[domain.Document], error) {
	kind, err := pagination.ParseKind(c.Pagination)
	if err != nil {
		return nil, err
	}

	client := httpsource.New[domain.Document](c.BaseURL, c.Table,
		httpsource.WithTimeout(c.Timeout),
		httpsource.WithLogger(logger),
	)
	return collection.New(client.Fetch,
		collection.WithPagination(kind),
		collection.WithPageSize(c.PageSize),
		collection.WithCache(cache.New[domain.Document](cache.WithTTL(c.CacheTTL), cache.WithLogger(logger))),
		collection.WithSearch[domain.Document](client.Search),
		collection.WithFetchOne[domain.Document](client.FetchOne),
		collection.WithEdit[domain.Document](client.Edit),
		collection.WithSearchDebounce(c.SearchDebounce),
		collection.WithURLSync(collection.NewMemoryHistory("/"+c.Table)),
		collection.WithLogger(logger),
	), nil
}

func runBrowse(ctx context.Context, c *config.Client, opts browseOptions, w io.Writer, logger logrus.FieldLogger) error {
	filters, err := parseFilters(opts.filters)
	if err != nil {
		return err
	}
	coll, err := newBrowseCollection(c, logger)
	if err != nil {
		return err
	}

	if opts.search != "" {
		coll.Filters().Apply(filters, true)
		results, err := coll.Search(ctx, opts.search, collection.SearchOptions{ShouldThrowError: true})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "search %q: %d results\n", opts.search, len(results))
		return printRows(w, results, opts.columns)
	}

	ascending := !opts.descending
	if err := coll.Init(ctx, collection.FetchOptions{
		Filters:          filters,
		SortBy:           opts.sortBy,
		SortAscending:    &ascending,
		ShouldThrowError: true,
	}); err != nil {
		return err
	}

	for page := 1; ; page++ {
		if err := coll.FetchErr(); err != nil {
			return err
		}
		fmt.Fprintf(w, "page %d (%s)\n", page, pageSummary(coll))
		if err := printRows(w, coll.Data(), opts.columns); err != nil {
			return err
		}
		if page >= opts.pages || !nextPage(coll) {
			return nil
		}
	}
}

// nextPage advances whichever paging the collection uses. The collection
// refetches before it returns.
func nextPage(coll *collection.Collection[domain.Document]) bool {
	switch coll.PaginationKind() {
	case pagination.KindOffset:
		return coll.Pagination().GoToNext()
	case pagination.KindCursor:
		return coll.CursorPagination().GoToNext()
	default:
		return false
	}
}

func pageSummary(coll *collection.Collection[domain.Document]) string {
	q := coll.QueryString()
	if total, ok := totalOf(coll); ok {
		return fmt.Sprintf("%s, %d total", q, total)
	}
	return q
}

func totalOf(coll *collection.Collection[domain.Document]) (int, bool) {
	switch coll.PaginationKind() {
	case pagination.KindOffset:
		return coll.Pagination().TotalCount()
	case pagination.KindCursor:
		return coll.CursorPagination().TotalCount()
	default:
		return 0, false
	}
}

func printRows(w io.Writer, rows []domain.Document, columns []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = cast.ToString(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
