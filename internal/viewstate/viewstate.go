// Package viewstate owns the per-session application state: the station
// list, the fetch lifecycle, and modal visibility. It is the single place
// station and error state may be mutated.
package viewstate

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gasfinder/gasfinder/internal/location"
	"github.com/gasfinder/gasfinder/internal/stations"
)

// FailedMessage is the only fetch-failure text shown to users. The raw error
// goes to the log, never to the page.
const FailedMessage = "Failed to load gas stations from the server."

// Phase is the top-level fetch lifecycle state.
type Phase int

// Fetch lifecycle phases.
const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

// ModalKind discriminates the modal variant. Exactly one modal (or none) can
// be visible; representing this as a single tagged value makes conflicting
// flag combinations unrepresentable.
type ModalKind int

// Modal variants.
const (
	ModalNone ModalKind = iota
	ModalSignUp
	ModalSeller
	ModalChat
)

// Modal is the current modal state. Station is set for sign-up and chat,
// which are always anchored to a selected station.
type Modal struct {
	Kind    ModalKind
	Station *stations.Station
}

// FetchKind discriminates the fetch strategy.
type FetchKind int

// Fetch strategies.
const (
	FetchAll FetchKind = iota
	FetchNearby
	FetchSearch
)

// FetchStrategy describes one way of loading the station list. Retry
// re-issues the strategy that was last in effect.
type FetchStrategy struct {
	Kind  FetchKind
	Point location.Point
	Query string
}

// Fetcher is the slice of the station service the coordinator needs.
type Fetcher interface {
	All(ctx context.Context) ([]stations.Station, error)
	Search(ctx context.Context, query string) ([]stations.Station, error)
	Nearby(ctx context.Context, lat, lon float64) ([]stations.Station, error)
}

// View is an immutable snapshot handed to the renderer.
type View struct {
	Phase        Phase
	Stations     []stations.Station
	ErrorMessage string
	Modal        Modal
	LoggedIn     bool
	Query        string
}

// Loading reports whether a fetch is in flight.
func (v View) Loading() bool { return v.Phase == PhaseLoading }

// Ready reports whether the station list is displayable.
func (v View) Ready() bool { return v.Phase == PhaseReady }

// Failed reports whether the last fetch ended in an error.
func (v View) Failed() bool { return v.Phase == PhaseFailed }

// ShowSignUp reports whether the sign-up modal is open.
func (m Modal) ShowSignUp() bool { return m.Kind == ModalSignUp }

// ShowSeller reports whether the seller registration modal is open.
func (m Modal) ShowSeller() bool { return m.Kind == ModalSeller }

// ShowChat reports whether the chat modal is open.
func (m Modal) ShowChat() bool { return m.Kind == ModalChat }

// Coordinator is the view-state machine for one session. All methods are
// safe for concurrent use; overlapping fetches are resolved by a generation
// counter, so only the most recently issued fetch may apply its result.
type Coordinator struct {
	fetcher Fetcher
	logger  zerolog.Logger

	mu            sync.Mutex
	phase         Phase
	stations      []stations.Station
	errMessage    string
	last          FetchStrategy
	userLocation  *location.Point
	locationTried bool
	fetched       bool
	generation    uint64
	modal         Modal
	loggedIn      bool
	flash         string
	query         string
}

// NewCoordinator creates a coordinator in the Loading phase with the
// unfiltered list as its initial strategy.
func NewCoordinator(fetcher Fetcher, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		logger:  logger,
		phase:   PhaseLoading,
		last:    FetchStrategy{Kind: FetchAll},
	}
}

// SetLocation records the session's captured position. Called at most once
// per session, after geolocation either resolves or fails; a nil point marks
// the attempt as made with no position available.
func (c *Coordinator) SetLocation(pt *location.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locationTried {
		return
	}
	c.locationTried = true
	c.userLocation = pt
}

// HasFetched reports whether any fetch has been issued this session. The
// index handler uses it to run the initial load exactly once.
func (c *Coordinator) HasFetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// LocationAttempted reports whether geolocation has been tried this session.
func (c *Coordinator) LocationAttempted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locationTried
}

// InitialStrategy is the load-time strategy: nearby when a location was
// captured, the unfiltered list otherwise.
func (c *Coordinator) InitialStrategy() FetchStrategy {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userLocation != nil {
		return FetchStrategy{Kind: FetchNearby, Point: *c.userLocation}
	}
	return FetchStrategy{Kind: FetchAll}
}

// Begin transitions to Loading for the given strategy and returns the fetch
// generation. A later Begin invalidates all earlier generations.
func (c *Coordinator) Begin(strategy FetchStrategy) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.fetched = true
	c.phase = PhaseLoading
	c.last = strategy
	if strategy.Kind == FetchSearch {
		c.query = strategy.Query
	} else {
		c.query = ""
	}
	return c.generation
}

// ApplyResult applies a fetch outcome if gen is still the newest generation.
// Stale results are discarded; the return value reports whether the result
// was applied. On success the station list is replaced wholesale; on failure
// prior data is discarded and the generic message is set.
func (c *Coordinator) ApplyResult(gen uint64, list []stations.Station, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", c.generation).
			Msg("discarding stale fetch result")
		return false
	}

	if err != nil {
		c.logger.Error().Err(err).Msg("station fetch failed")
		c.phase = PhaseFailed
		c.stations = nil
		c.errMessage = FailedMessage
		return true
	}

	c.phase = PhaseReady
	c.stations = list
	c.errMessage = ""
	return true
}

// Refresh runs the given strategy end to end: Begin, fetch, ApplyResult.
func (c *Coordinator) Refresh(ctx context.Context, strategy FetchStrategy) {
	gen := c.Begin(strategy)

	var (
		list []stations.Station
		err  error
	)
	switch strategy.Kind {
	case FetchNearby:
		list, err = c.fetcher.Nearby(ctx, strategy.Point.Lat, strategy.Point.Lon)
	case FetchSearch:
		list, err = c.fetcher.Search(ctx, strategy.Query)
	default:
		list, err = c.fetcher.All(ctx)
	}

	c.ApplyResult(gen, list, err)
}

// Retry re-issues whatever fetch strategy was last in effect.
func (c *Coordinator) Retry(ctx context.Context) {
	c.mu.Lock()
	strategy := c.last
	c.mu.Unlock()

	c.Refresh(ctx, strategy)
}

// SubmitSearch handles a search submission. A blank query reproduces the
// initial strategy; anything else fetches the backend's matches verbatim.
func (c *Coordinator) SubmitSearch(ctx context.Context, raw string) {
	query := strings.TrimSpace(raw)
	if query == "" {
		c.Refresh(ctx, c.InitialStrategy())
		return
	}
	c.Refresh(ctx, FetchStrategy{Kind: FetchSearch, Query: query})
}

// JoinChat selects a station for chat. Unauthenticated users see the sign-up
// modal first; authenticated users go straight to chat.
func (c *Coordinator) JoinChat(station stations.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loggedIn {
		c.modal = Modal{Kind: ModalChat, Station: &station}
		return
	}
	c.modal = Modal{Kind: ModalSignUp, Station: &station}
}

// CompleteSignUp marks the session authenticated and moves from the sign-up
// modal into chat with the same station still selected. Returns false if no
// sign-up was in progress.
func (c *Coordinator) CompleteSignUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.modal.Kind != ModalSignUp || c.modal.Station == nil {
		return false
	}

	c.loggedIn = true
	c.modal = Modal{Kind: ModalChat, Station: c.modal.Station}
	return true
}

// CloseModal dismisses whichever modal is open. The selected station is
// cleared unconditionally.
func (c *Coordinator) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = Modal{Kind: ModalNone}
}

// OpenSeller shows the seller registration modal. Independent of auth state.
func (c *Coordinator) OpenSeller() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = Modal{Kind: ModalSeller}
}

// SellerRegistered closes the seller modal after a successful registration
// and queues a confirmation notice. The station list is intentionally not
// refreshed; the new station appears on the next manual search or retry.
func (c *Coordinator) SellerRegistered() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = Modal{Kind: ModalNone}
	c.flash = "Successfully registered as a seller! You can now add your gas station."
}

// StationByID finds a station in the currently loaded list.
func (c *Coordinator) StationByID(id int64) (stations.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, st := range c.stations {
		if st.ID == id {
			return st, true
		}
	}
	return stations.Station{}, false
}

// LoggedIn reports the session auth flag.
func (c *Coordinator) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// TakeFlash returns and clears the pending notice, if any.
func (c *Coordinator) TakeFlash() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	flash := c.flash
	c.flash = ""
	return flash
}

// Snapshot returns a copy of the render state.
func (c *Coordinator) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]stations.Station, len(c.stations))
	copy(list, c.stations)

	return View{
		Phase:        c.phase,
		Stations:     list,
		ErrorMessage: c.errMessage,
		Modal:        c.modal,
		LoggedIn:     c.loggedIn,
		Query:        c.query,
	}
}
