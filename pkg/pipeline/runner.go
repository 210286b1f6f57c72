package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/platemap/pkg/cache"
	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/media"
	"github.com/matzehuels/platemap/pkg/menu"
	"github.com/matzehuels/platemap/pkg/observability"
)

const cacheKeyType = "hotspots"

// Runner encapsulates hotspot generation with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// Menus and Media are only needed for autogen. The Runner holds no
// per-request state, so one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	Menus *menu.Loader
	Media media.Store

	// TTL for cached layouts. Zero means [cache.TTLHotspots].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Generate computes the layout for req, serving it from the cache when
// possible. The boolean reports a cache hit. Cache failures are logged and
// never fail the call; only a cancelled context does.
func (r *Runner) Generate(ctx context.Context, req hotspot.Request) (hotspot.Result, bool, error) {
	return r.generate(ctx, req, false)
}

func (r *Runner) generate(ctx context.Context, req hotspot.Request, refresh bool) (hotspot.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return hotspot.Result{}, false, err
	}
	hooks := observability.Layout()
	start := time.Now()
	hooks.OnGenerateStart(ctx, req.DishID, string(req.Strategy), len(req.IngredientIDs))

	key := r.Keyer.HotspotKey(keyOpts(req))

	if !refresh {
		if res, ok := r.lookup(ctx, key); ok {
			hooks.OnGenerateComplete(ctx, req.DishID, string(res.Strategy), len(res.Hotspots), time.Since(start), nil)
			return res, true, nil
		}
	}

	res := hotspot.GenerateWithInfo(req)
	r.store(ctx, key, res)

	r.Logger.Debug("generated hotspots",
		"dish", req.DishID,
		"strategy", res.Strategy,
		"seed", res.Seed,
		"count", len(res.Hotspots),
		"duration", time.Since(start))
	hooks.OnGenerateComplete(ctx, req.DishID, string(res.Strategy), len(res.Hotspots), time.Since(start), nil)
	return res, false, nil
}

// keyOpts normalizes a request so equivalent requests share a key: empty
// ingredient ids are dropped, the strategy is parsed and the seed
// normalized.
func keyOpts(req hotspot.Request) cache.HotspotKeyOpts {
	ids := slices.DeleteFunc(slices.Clone(req.IngredientIDs), func(id string) bool { return id == "" })
	return cache.HotspotKeyOpts{
		DishID:        req.DishID,
		Strategy:      string(hotspot.ParseStrategy(string(req.Strategy))),
		Seed:          hotspot.NormalizeSeed(req.Seed),
		IngredientIDs: ids,
	}
}

func (r *Runner) lookup(ctx context.Context, key string) (hotspot.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return hotspot.Result{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return hotspot.Result{}, false
	}
	var res hotspot.Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Corrupt entry: recompute and overwrite.
		r.Logger.Debug("discarding cache entry", "key", key, "err", err)
		return hotspot.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return res, true
}

func (r *Runner) store(ctx context.Context, key string, res hotspot.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLHotspots
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Autogen regenerates and saves the hotspots of one dish. It fails with
// MENU_NOT_FOUND, DISH_NOT_FOUND or NO_INGREDIENTS when the dish cannot be
// laid out.
func (r *Runner) Autogen(ctx context.Context, opts AutogenOptions) (*AutogenResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Menus == nil || r.Media == nil {
		return nil, errors.New(errors.ErrCodeInternal, "autogen requires a menu loader and a media store")
	}

	m, err := r.Menus.Menu(opts.Menu)
	if err != nil {
		return nil, err
	}
	dish := m.FindDish(opts.DishID)
	if dish == nil {
		return nil, errors.New(errors.ErrCodeDishNotFound, "Dish not found")
	}

	res, err := r.autogenDish(ctx, opts, dish)
	observability.Layout().OnAutogen(ctx, opts.Menu, opts.Stage, opts.DishID, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) autogenDish(ctx context.Context, opts AutogenOptions, dish *menu.Dish) (*AutogenResult, error) {
	ids := dish.IngredientIDs()
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeNoIngredients, "Dish has no ingredientIds to generate hotspots from.")
	}

	layout, hit, err := r.generate(ctx, hotspot.Request{
		DishID:        opts.DishID,
		IngredientIDs: ids,
		Strategy:      hotspot.ParseStrategy(opts.Strategy),
		Seed:          opts.Seed,
	}, opts.Refresh)
	if err != nil {
		return nil, err
	}

	key := opts.Key()
	current, err := r.Media.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load media %s", key)
	}
	saved, err := r.Media.Upsert(ctx, key, merge(current, dish, layout.Hotspots))
	if err != nil {
		return nil, err
	}

	r.Logger.Info("saved hotspots",
		"menu", opts.Menu,
		"stage", opts.Stage,
		"dish", opts.DishID,
		"strategy", layout.Strategy,
		"count", len(layout.Hotspots),
		"cached", hit)

	return &AutogenResult{
		Menu:          opts.Menu,
		Stage:         opts.Stage,
		DishID:        opts.DishID,
		Strategy:      opts.Strategy,
		Resolved:      layout.Strategy,
		Seed:          layout.Seed,
		HotspotsCount: len(layout.Hotspots),
		Saved:         saved,
		CacheHit:      hit,
	}, nil
}

// merge keeps the saved photo, alt text and blur placeholder and replaces
// the hotspots. Without a saved set the photo falls back to
// [DefaultImageURL] and the alt text to the dish title.
func merge(current *media.Media, dish *menu.Dish, hs []hotspot.Hotspot) media.Media {
	m := media.Media{Hotspots: hs}
	if current != nil {
		m.ImageURL = current.ImageURL
		m.Alt = current.Alt
		m.BlurDataURL = current.BlurDataURL
	}
	if m.ImageURL == "" {
		m.ImageURL = DefaultImageURL(dish.ID)
	}
	if len(m.Alt) == 0 {
		m.Alt = map[string]string{"en": dish.TitleIn("en"), "de": dish.TitleIn("de")}
	}
	return m
}

// AutogenMenu runs [Runner.Autogen] for every dish of a menu that has
// ingredients. opts.DishID is ignored. Dishes are generated concurrently;
// the first failure cancels the rest.
func (r *Runner) AutogenMenu(ctx context.Context, opts AutogenOptions) (*MenuResult, error) {
	opts.setDefaults()
	if err := errors.ValidateMenuName(opts.Menu); err != nil {
		return nil, err
	}
	if err := errors.ValidateStage(opts.Stage); err != nil {
		return nil, err
	}
	if r.Menus == nil || r.Media == nil {
		return nil, errors.New(errors.ErrCodeInternal, "autogen requires a menu loader and a media store")
	}
	m, err := r.Menus.Menu(opts.Menu)
	if err != nil {
		return nil, err
	}

	out := &MenuResult{}
	var todo []menu.Dish
	for _, d := range m.Dishes() {
		if len(d.IngredientIDs()) == 0 {
			out.Skipped = append(out.Skipped, d.ID)
			continue
		}
		todo = append(todo, d)
	}

	results := make([]AutogenResult, len(todo))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for i, d := range todo {
		g.Go(func() error {
			dishOpts := opts
			dishOpts.DishID = d.ID
			if err := errors.ValidateDishID(d.ID); err != nil {
				return err
			}
			res, err := r.autogenDish(ctx, dishOpts, &d)
			observability.Layout().OnAutogen(ctx, dishOpts.Menu, dishOpts.Stage, d.ID, err)
			if err != nil {
				return errors.Wrap(errors.GetCode(err), err, "dish %s", d.ID)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Results = results
	return out, nil
}

// Close releases resources held by the runner: the cache and media store.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Media != nil {
		if err := r.Media.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
