// Package engine owns the current timetable grid. It applies local mutations,
// runs their remote legs as bubbletea commands and reconciles the results.
package engine

import (
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/grid"
)

// Snapshot is an immutable view of the grid at one version.
type Snapshot struct {
	Faculty *grid.Faculty
	Version uint64
	Index   *grid.IdentityIndex
}

// Options configures a Controller.
type Options struct {
	FacultyID int64
	Source    grid.Source
	Notifier  grid.Notifier  // optional
	Confirmer grid.Confirmer // optional; deletes are not gated when nil
	Filters   grid.Filters   // filters used by the initial load
	Timeout   time.Duration  // per remote call; zero means none
	Logger    *slog.Logger   // optional
}

// Controller is the single owner of the grid. It is not safe for concurrent
// use: every method must be called from the same event loop, and commands it
// returns must only feed their messages back through Update.
type Controller struct {
	facultyID int64
	source    grid.Source
	notifier  grid.Notifier
	confirmer grid.Confirmer
	timeout   time.Duration
	logger    *slog.Logger

	snap    Snapshot
	hours   []grid.Hour
	filters grid.Filters
	mounted bool

	// token of the most recently issued fetch
	token uint64

	// per-slot UI override, cleared on every replacement
	forceSplit map[grid.Path]bool

	subscribers []func(Snapshot)
}

// New creates a Controller with an empty grid.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = grid.NotifierFunc(func(grid.NoticeKind, string) {})
	}
	return &Controller{
		facultyID:  opts.FacultyID,
		source:     opts.Source,
		notifier:   notifier,
		confirmer:  opts.Confirmer,
		timeout:    opts.Timeout,
		logger:     logger,
		filters:    opts.Filters,
		forceSplit: make(map[grid.Path]bool),
		snap:       Snapshot{Index: grid.NewIdentityIndex(nil)},
	}
}

// Init loads the hour periods and the grid.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(LoadHours(c.source, c.timeout), c.Refresh())
}

// Snapshot returns the current snapshot.
func (c *Controller) Snapshot() Snapshot {
	return c.snap
}

// Faculty returns the current grid. It may be nil before the first load.
func (c *Controller) Faculty() *grid.Faculty {
	return c.snap.Faculty
}

// Hours returns the loaded hour periods.
func (c *Controller) Hours() []grid.Hour {
	return c.hours
}

// Filters returns the active filters.
func (c *Controller) Filters() grid.Filters {
	return c.filters
}

// OnChange registers fn to be called after every snapshot change.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.subscribers = append(c.subscribers, fn)
}

// SetFilters records new filters and re-fetches the grid when they changed.
// The first call is the mount of the filter state and never fetches, since
// Init already loads the grid.
func (c *Controller) SetFilters(f grid.Filters) tea.Cmd {
	if !c.mounted {
		c.mounted = true
		c.filters = f
		return nil
	}
	if c.filters.Equal(f) {
		return nil
	}
	c.filters = f
	c.logger.Debug("grid_event", "event", "filters_changed", "groups", f.GroupIDs, "hours", f.HourIDs)
	return c.Refresh()
}

// Refresh issues a fetch with a new request token. Responses to older
// fetches are dropped when they arrive.
func (c *Controller) Refresh() tea.Cmd {
	c.token++
	return FetchGrid(c.source, c.facultyID, c.filters, c.token, c.timeout)
}

// Replace swaps in a whole new grid, rebuilds the identity index and clears
// every force-split override.
func (c *Controller) Replace(f *grid.Faculty) {
	c.forceSplit = make(map[grid.Path]bool)
	c.commit(f, grid.NewIdentityIndex(f))
}

// commit installs f and its index as the next version.
func (c *Controller) commit(f *grid.Faculty, idx *grid.IdentityIndex) {
	c.snap = Snapshot{
		Faculty: f,
		Version: c.snap.Version + 1,
		Index:   idx,
	}
	for _, fn := range c.subscribers {
		fn(c.snap)
	}
}

// apply commits f if it differs from the current grid. touched lists the
// slots whose entries were added, removed or reordered; only those are
// re-indexed. With no touched slots the current index is kept.
func (c *Controller) apply(f *grid.Faculty, touched ...grid.Path) bool {
	if f == c.snap.Faculty {
		return false
	}
	idx := c.snap.Index
	if len(touched) > 0 {
		idx = idx.Patch(c.snap.Faculty, f, touched...)
	}
	c.commit(f, idx)
	return true
}

// ForceSplit reports whether the slot at p is forced into split layout.
func (c *Controller) ForceSplit(p grid.Path) bool {
	return c.forceSplit[p]
}

// SetForceSplit sets or clears the split override of the slot at p.
func (c *Controller) SetForceSplit(p grid.Path, on bool) {
	if on {
		c.forceSplit[p] = true
		return
	}
	delete(c.forceSplit, p)
}

// DecideCell computes the layout of the slot at p.
func (c *Controller) DecideCell(p grid.Path) grid.Layout {
	return grid.DecideCellLayout(c.snap.Faculty.Lessons(p), c.ForceSplit(p))
}

// ResolveAbsoluteIndex maps a week-view position at p to an absolute index.
func (c *Controller) ResolveAbsoluteIndex(p grid.Path, week grid.WeekType, filteredIndex int) (int, error) {
	return grid.ResolveAbsoluteIndex(c.snap.Faculty.Lessons(p), week, filteredIndex)
}

// Update applies the result of a command and returns any follow-up command.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case GridFetchedMsg:
		return c.handleFetched(msg)
	case HoursLoadedMsg:
		if msg.Err != nil {
			c.logger.Warn("grid_event", "event", "hours_failed", "error", msg.Err)
			return nil
		}
		c.hours = msg.Hours
		return nil
	case LessonDeletedMsg:
		return c.handleDeleted(msg)
	case LockSetMsg:
		return c.handleLockSet(msg)
	case LessonCreatedMsg:
		return c.handleCreated(msg)
	case LessonUpdatedMsg:
		return c.handleUpdated(msg)
	}
	return nil
}

func (c *Controller) handleFetched(msg GridFetchedMsg) tea.Cmd {
	if msg.Token != c.token {
		c.logger.Debug("grid_event", "event", "fetch_stale", "op_id", msg.OpID, "token", msg.Token, "latest", c.token)
		return nil
	}
	if msg.Err != nil {
		c.logger.Error("grid_event", "event", "fetch_failed", "op_id", msg.OpID, "error", msg.Err)
		c.notifier.Notify(grid.NoticeError, "Could not load timetable: "+msg.Err.Error())
		return nil
	}
	c.Replace(msg.Faculty)
	c.logger.Info("grid_event", "event", "grid_replaced", "op_id", msg.OpID, "version", c.snap.Version)
	return nil
}
