package github

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/integrations"
)

// DefaultMaxPages bounds how many pages FetchAll follows for one resource.
const DefaultMaxPages = 100

const tracerName = "github.com/fleetingdev/fleeting/pkg/integrations/github"

// Page is one decoded response of a paginated collection.
type Page struct {
	Records []json.RawMessage
	// Next is the path of the following page, or "" on the last page.
	Next string
}

// Fetcher walks Link-paginated collections on a fixed API base URL.
type Fetcher struct {
	client   *integrations.Client
	baseURL  string
	maxPages int
	tracer   trace.Tracer
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxPages caps the number of pages followed. Non-positive values keep
// [DefaultMaxPages].
func WithMaxPages(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// WithTracerProvider sets the provider for page spans. The global provider
// is used by default.
func WithTracerProvider(tp trace.TracerProvider) FetcherOption {
	return func(f *Fetcher) {
		if tp != nil {
			f.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewFetcher returns a Fetcher issuing requests through client against
// baseURL (for example "https://api.github.com").
func NewFetcher(client *integrations.Client, baseURL string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: DefaultMaxPages,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage requests a single page.
func (f *Fetcher) FetchPage(ctx context.Context, path string) (Page, error) {
	ctx, span := f.tracer.Start(ctx, "github.page",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("github.path", path)))
	defer span.End()

	if err := errors.ValidateAPIPath(path); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Page{}, err
	}

	var records []json.RawMessage
	header, err := f.client.GetPage(ctx, f.baseURL+path, &records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Page{}, err
	}

	page := Page{Records: records}
	if next, ok := NextPagePath(header.Get("Link")); ok {
		page.Next = next
	}
	span.SetAttributes(
		attribute.Int("github.records", len(records)),
		attribute.Bool("github.has_next", page.Next != ""),
	)
	return page, nil
}

// FetchAll requests path and every page linked from it by rel="next",
// returning all records in server order.
//
// Any failed page aborts the whole walk and no partial result is returned.
// A next link pointing back to a page already fetched, or a walk longer
// than the page limit, fails with code PAGINATION_LOOP.
func (f *Fetcher) FetchAll(ctx context.Context, path string) ([]json.RawMessage, error) {
	ctx, span := f.tracer.Start(ctx, "github.fetch_all",
		trace.WithAttributes(attribute.String("github.path", path)))
	defer span.End()

	var (
		all     = []json.RawMessage{}
		visited = make(map[string]bool)
		pages   int
	)
	for next := path; next != ""; {
		if visited[next] {
			err := errors.New(errors.ErrCodePaginationLoop, "next link of %s revisits %s", path, next)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if pages >= f.maxPages {
			err := errors.New(errors.ErrCodePaginationLoop, "%s has more than %d pages", path, f.maxPages)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		visited[next] = true
		pages++

		page, err := f.FetchPage(ctx, next)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		all = append(all, page.Records...)
		next = page.Next
	}

	span.SetAttributes(
		attribute.Int("github.pages", pages),
		attribute.Int("github.records", len(all)),
	)
	return all, nil
}
