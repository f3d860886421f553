package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iompar/iompar/config"
	"github.com/iompar/iompar/favourites"
	"github.com/iompar/iompar/feeds"
	"github.com/iompar/iompar/filters"
	"github.com/iompar/iompar/geo"
	"github.com/iompar/iompar/marker"
	"github.com/iompar/iompar/storage"
)

// Renderer receives the filtered marker list after every render pass. The
// map layer behind it is outside the pipeline.
type Renderer interface {
	Render(markers []marker.Marker)
}

// LoadingIndicator is raised before a fetch cycle and cleared when its
// results are in.
type LoadingIndicator interface {
	Show()
	Hide()
}

// Locator performs the one-shot device position request.
type Locator interface {
	CurrentPosition(ctx context.Context) (geo.Point, error)
}

// FeedSource supplies raw records per fetch cycle. *feeds.Client satisfies
// it.
type FeedSource interface {
	FetchCycle(ctx context.Context, transientTypes, permanentTypes []string) ([]feeds.RawRecord, error)
}

// Options wires a Pipeline's collaborators.
type Options struct {
	Feeds      FeedSource
	Tree       *filters.Tree
	Favourites *favourites.Store
	Store      storage.Store
	Renderer   Renderer
	Loading    LoadingIndicator
	Locator    Locator
	Scheduler  Scheduler
	Config     config.AppConfig
	Logger     zerolog.Logger
}

// Pipeline owns the marker lifecycle: fetch, classify, evaluate visibility,
// search-filter, render. Markers are rebuilt wholesale per cycle; filter
// and favourites state persists across cycles and sessions.
type Pipeline struct {
	feedSource FeedSource
	tree       *filters.Tree
	favs       *favourites.Store
	store      storage.Store
	renderer   Renderer
	loading    LoadingIndicator
	locator    Locator
	sched      Scheduler
	cfg        config.AppConfig
	log        zerolog.Logger

	// mu guards the marker set and derived render state. Debounced search
	// commits arrive on timer goroutines.
	mu           sync.Mutex
	markers      []marker.Marker
	visibleCount int
	generation   uint64
	search       SearchIndex
	debouncer    *Debouncer
	query        string

	filtersWriter *storage.AsyncWriter
	radiusWriter  *storage.AsyncWriter

	geoFilter       GeoFilter
	favouritesOnly  bool
	locationSettled bool

	storageTTL time.Duration
}

// New builds a Pipeline and restores persisted filter selection and radius.
func New(opts Options) *Pipeline {
	if opts.Tree == nil {
		opts.Tree = filters.NewDefaultTree()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	p := &Pipeline{
		feedSource: opts.Feeds,
		tree:       opts.Tree,
		favs:       opts.Favourites,
		store:      opts.Store,
		renderer:   opts.Renderer,
		loading:    opts.Loading,
		locator:    opts.Locator,
		sched:      opts.Scheduler,
		cfg:        opts.Config,
		log:        opts.Logger,
		storageTTL: time.Duration(opts.Config.Storage.TTLHours) * time.Hour,
	}
	if opts.Store != nil {
		p.filtersWriter = storage.NewAsyncWriter(opts.Store, storage.KeySelectedSources, p.storageTTL)
		p.radiusWriter = storage.NewAsyncWriter(opts.Store, storage.KeyRadius, p.storageTTL)
	}
	p.debouncer = NewDebouncer(
		opts.Scheduler,
		time.Duration(opts.Config.Search.DebounceMS)*time.Millisecond,
		time.Duration(opts.Config.Search.LargeDebounceMS)*time.Millisecond,
		opts.Config.Search.LargeResultThreshold,
	)
	p.restore()
	return p
}

func (p *Pipeline) restore() {
	if p.store == nil {
		return
	}
	if raw, ok := p.store.Get(storage.KeySelectedSources); ok {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			p.log.Warn().Err(err).Msg("discarding unreadable filter snapshot")
		} else {
			p.tree.Restore(ids)
		}
	}
	if raw, ok := p.store.Get(storage.KeyRadius); ok {
		if km, err := strconv.ParseFloat(raw, 64); err == nil {
			p.geoFilter.RadiusKM = km
		}
	}
}

// Refresh runs one fetch cycle. The feed batch is all-or-nothing: if either
// feed class fails, the cycle fails, the previous marker set stays stale,
// and the loading state is cleared.
func (p *Pipeline) Refresh(ctx context.Context) error {
	if p.loading != nil {
		p.loading.Show()
	}

	p.mu.Lock()
	transientTypes, permanentTypes := p.sourceTypes()
	p.mu.Unlock()

	records, err := p.feedSource.FetchCycle(ctx, transientTypes, permanentTypes)
	if err != nil {
		p.log.Error().Err(err).Msg("fetch cycle failed, keeping previous markers")
		if p.loading != nil {
			p.loading.Hide()
		}
		return fmt.Errorf("refresh: %w", err)
	}

	p.mu.Lock()
	p.markers = marker.ClassifyAll(records)
	p.evaluateAndRender()
	setSize := len(p.markers)
	p.mu.Unlock()
	p.log.Info().Int("records", len(records)).Msg("fetch cycle complete")

	if p.loading != nil {
		// Large sets keep the indicator up for a minimum settle delay so
		// it does not flicker through the synchronous evaluation burst.
		if setSize > p.cfg.Loading.LargeSetThreshold {
			p.sched.Schedule(time.Duration(p.cfg.Loading.SettleDelayMS)*time.Millisecond, p.loading.Hide)
		} else {
			p.loading.Hide()
		}
	}
	return nil
}

// sourceTypes derives the object types to fetch per feed class from the
// top-level source selection.
func (p *Pipeline) sourceTypes() (transient, permanent []string) {
	if p.tree.Selected(filters.IrishRailTrains) {
		transient = append(transient, feeds.TypeIrishRailTrain)
	}
	if p.tree.Selected(filters.Buses) {
		transient = append(transient, feeds.TypeBus)
	}
	if p.tree.Selected(filters.IrishRailStations) {
		permanent = append(permanent, feeds.TypeIrishRailStation)
	}
	if p.tree.Selected(filters.BusStops) {
		permanent = append(permanent, feeds.TypeBusStop)
	}
	if p.tree.Selected(filters.LuasStops) {
		permanent = append(permanent, feeds.TypeLuasStop)
	}
	return transient, permanent
}

func (p *Pipeline) evaluator() *Evaluator {
	ev := &Evaluator{
		Tree:           p.tree,
		Geo:            p.geoFilter,
		FavouritesOnly: p.favouritesOnly,
	}
	if p.favs != nil {
		ev.Favourites = p.favs
	}
	return ev
}

// evaluateAndRender recomputes visibility over the cached set, reapplies
// the committed search query and hands the result to the renderer. The
// caller holds p.mu.
func (p *Pipeline) evaluateAndRender() {
	p.generation++
	p.visibleCount = p.evaluator().Evaluate(p.markers)
	result := p.search.Filter(p.query, p.generation, p.markers)
	p.log.Debug().Int("visible", p.visibleCount).Int("rendered", len(result)).Msg("evaluation pass")
	if p.renderer != nil {
		p.renderer.Render(result)
	}
}

// ToggleFilter flips a filter node and re-evaluates. A refused toggle
// (section minimum) is returned unchanged for the caller to surface; state
// is untouched.
func (p *Pipeline) ToggleFilter(nodeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.tree.Toggle(nodeID); err != nil {
		return err
	}
	p.persistFilters()
	p.evaluateAndRender()
	return nil
}

func (p *Pipeline) persistFilters() {
	if p.store == nil {
		return
	}
	snapshot, err := json.Marshal(p.tree.Snapshot())
	if err != nil {
		p.log.Error().Err(err).Msg("encoding filter snapshot")
		return
	}
	// Submitted under p.mu so snapshots reach the store in toggle order;
	// the async writer keeps a slow store from blocking the next toggle.
	p.filtersWriter.Write(string(snapshot))
}

// SetRadius updates the radius filter in kilometers; values <= 0 disable
// it. The value persists across sessions.
func (p *Pipeline) SetRadius(km float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.geoFilter.RadiusKM = km
	if p.radiusWriter != nil {
		p.radiusWriter.Write(strconv.FormatFloat(km, 'f', -1, 64))
	}
	p.evaluateAndRender()
}

// SetFavouritesOnly toggles favourites-only mode and re-evaluates.
func (p *Pipeline) SetFavouritesOnly(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.favouritesOnly = on
	p.evaluateAndRender()
}

// ToggleFavourite flips a favourite and, when favourites-only mode is
// active, re-evaluates since visibility may have changed.
func (p *Pipeline) ToggleFavourite(objectType, id string) bool {
	if p.favs == nil {
		return false
	}
	now := p.favs.Toggle(objectType, id)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.favouritesOnly {
		p.evaluateAndRender()
	}
	return now
}

// AcquireLocation performs the one-shot position request. On failure the
// geo filter stays origin-less for the rest of the session, disabling
// radius filtering; it is not retried.
func (p *Pipeline) AcquireLocation(ctx context.Context) {
	if p.locationSettled || p.locator == nil {
		return
	}
	p.locationSettled = true

	timeout := time.Duration(p.cfg.Geo.TimeoutMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pt, err := p.locator.CurrentPosition(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("geolocation unavailable, radius filtering disabled")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.geoFilter.Origin = &pt
	p.evaluateAndRender()
}

// Search registers a raw keystroke value. The commit is debounced; only the
// most recent value is applied, after the configured quiescence window.
func (p *Pipeline) Search(input string) {
	// The widening threshold applies to the markers still active after
	// evaluation, not the raw fetched set.
	p.mu.Lock()
	active := p.visibleCount
	p.mu.Unlock()

	p.debouncer.Input(input, active, func(value string) {
		p.mu.Lock()
		p.query = value
		result := p.search.Filter(p.query, p.generation, p.markers)
		p.mu.Unlock()
		if p.renderer != nil {
			p.renderer.Render(result)
		}
	})
}

// SearchNow commits a query immediately, bypassing the debounce, and
// returns the filtered list. Meant for request/response callers that have
// no keystroke stream to debounce.
func (p *Pipeline) SearchNow(query string) []marker.Marker {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
	return p.search.Filter(p.query, p.generation, p.markers)
}

// Rendered returns the current filtered marker list (visibility plus
// committed search query applied).
func (p *Pipeline) Rendered() []marker.Marker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.search.Filter(p.query, p.generation, p.markers)
}

// DefaultOrigin is the fixed fallback map origin from configuration.
func (p *Pipeline) DefaultOrigin() geo.Point {
	return geo.Point{Lat: p.cfg.Geo.FallbackLat, Lon: p.cfg.Geo.FallbackLon}
}
