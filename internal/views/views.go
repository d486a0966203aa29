// Package views holds one screen per admin section. A screen reads its data
// through the shared cache, renders it as a table, and after every successful
// mutation invalidates the resource it touched so that all screens showing
// that resource refetch.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/session"
)

// Currency is appended to every money amount.
const Currency = "EGP"

// Notifier shows toasts. A *session.Session shares the same sink.
type Notifier = session.Notifier

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	tableBorders = lipgloss.NormalBorder()
)

// Env is what every screen is built from.
type Env struct {
	API    *resources.API
	Cache  *cache.Cache
	Notify Notifier
	Logger *zap.Logger

	// OnChange, when set, is called after every cache transition of a key a
	// screen is showing. It runs on the cache's goroutine.
	OnChange func()

	// Now defaults to time.Now.
	Now func() time.Time
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

func (e Env) withDefaults() Env {
	if e.Notify == nil {
		e.Notify = nopNotifier{}
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

// mutated finishes a mutation: on success the resource is invalidated and
// success is shown, otherwise the error text is shown verbatim.
func (e Env) mutated(resource, success string, err error) error {
	if err != nil {
		e.Notify.Error(err.Error())
		return err
	}
	e.Cache.Invalidate(resource)
	e.Notify.Success(success)
	return nil
}

func (e Env) changed(cache.Snapshot) {
	if e.OnChange != nil {
		e.OnChange()
	}
}

// query is a cache key and the request that fills it.
type query[T any] struct {
	key   cache.Key
	fetch func(context.Context) (T, error)
}

// watched is a query the screen is subscribed to. Switching to a different
// key drops the old subscription.
type watched[T any] struct {
	env Env

	mu    sync.Mutex
	q     query[T]
	unsub func()
}

func (w *watched[T]) set(q query[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unsub != nil && w.q.key == q.key {
		w.q = q
		return
	}
	if w.unsub != nil {
		w.unsub()
	}
	w.q = q
	w.unsub = w.env.Cache.Subscribe(q.key, w.env.changed)
}

func (w *watched[T]) current() query[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.q
}

func (w *watched[T]) load(ctx context.Context) (T, error) {
	q := w.current()
	return cache.Fetch(ctx, w.env.Cache, q.key, q.fetch)
}

func (w *watched[T]) snapshot() cache.Snapshot {
	return w.env.Cache.Peek(w.current().key)
}

func (w *watched[T]) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
}

// grid is a titled table.
type grid struct {
	title   string
	empty   string
	headers []string
}

// list is the shape shared by every list screen: one watched query rendered
// as one table.
type list[T any] struct {
	watched[T]
	grid
	rows func(T) [][]string
}

func newList[T any](env Env, g grid, q query[T], rows func(T) [][]string) *list[T] {
	l := &list[T]{watched: watched[T]{env: env.withDefaults()}, grid: g, rows: rows}
	l.set(q)
	return l
}

// Load reads the list through the cache.
func (l *list[T]) Load(ctx context.Context) (T, error) {
	return l.load(ctx)
}

// Render writes the current state of the list.
func (l *list[T]) Render(w io.Writer) error {
	return renderSnapshot(w, l.grid, l.snapshot(), l.rows)
}

// Close stops change notifications.
func (l *list[T]) Close() {
	l.close()
}

// renderSnapshot writes a loading line, an error line, an empty state or a
// table, depending on the snapshot.
func renderSnapshot[T any](w io.Writer, g grid, snap cache.Snapshot, rows func(T) [][]string) error {
	switch snap.Status {
	case cache.StatusError:
		_, err := fmt.Fprintln(w, errorStyle.Render("Error: "+snap.Err.Error()))
		return err
	case cache.StatusReady:
	default:
		_, err := fmt.Fprintln(w, mutedStyle.Render("Loading "+strings.ToLower(g.title)+"..."))
		return err
	}

	v, ok := snap.Value.(T)
	if !ok && snap.Value != nil {
		return fmt.Errorf("%s holds %T", snap.Key, snap.Value)
	}
	return renderTable(w, g, rows(v))
}

func renderTable(w io.Writer, g grid, rows [][]string) error {
	if g.title != "" {
		if _, err := fmt.Fprintln(w, titleStyle.Render(g.title)); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render(g.empty))
		return err
	}
	t := table.New().
		Border(tableBorders).
		Headers(g.headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func money(v float64) string {
	return humanize.CommafWithDigits(v, 2) + " " + Currency
}

func optionalMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return money(*v)
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func num(n int) string {
	return humanize.Comma(int64(n))
}

func ref(n int64) string {
	return fmt.Sprintf("#%d", n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
