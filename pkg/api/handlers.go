package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/platemap/pkg/auth"
	"github.com/matzehuels/platemap/pkg/buildinfo"
	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/media"
	"github.com/matzehuels/platemap/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "build": buildinfo.Get()})
}

func (s *Server) handleBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := s.runner.Menus.Brand()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "brand": brand})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	lang := strings.ToLower(r.URL.Query().Get("lang"))
	if lang == "" {
		lang = "en"
	}
	m, err := s.runner.Menus.Menu(chi.URLParam(r, "menu"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "menu": m.Raw, "lang": lang})
}

// handleCatalog serves the ingredient catalog without an envelope.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Menus.IngredientCatalog())
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "layouts": hotspot.Catalog()})
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "menu")
	stage := strings.ToLower(r.URL.Query().Get("stage"))
	if stage == "" {
		stage = s.opts.DefaultStage
	}
	sets, err := s.runner.Media.Stage(r.Context(), name, stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "menu": name, "stage": stage, "media": sets})
}

// upsertRequest is the body of POST /api/media/upsert. Pointer fields tell
// a missing value from a zero one.
type upsertRequest struct {
	Menu        string            `json:"menu"`
	Stage       string            `json:"stage"`
	DishID      string            `json:"dishId"`
	ImageURL    string            `json:"imageUrl"`
	Alt         map[string]string `json:"alt"`
	BlurDataURL string            `json:"blurDataURL"`
	Hotspots    []hotspotPayload  `json:"hotspots"`
}

type hotspotPayload struct {
	X            *float64          `json:"x"`
	Y            *float64          `json:"y"`
	IngredientID string            `json:"ingredientId"`
	Role         hotspot.Role      `json:"role"`
	Label        map[string]string `json:"label"`
}

func (req *upsertRequest) validate() *validation {
	v := &validation{}
	if req.Stage == "" {
		req.Stage = media.DefaultStage
	}
	if req.Menu == "" {
		v.field("menu", "Required")
	}
	if errors.ValidateStage(req.Stage) != nil {
		v.field("stage", "Expected 'draft' | 'review' | 'published'")
	}
	if req.DishID == "" {
		v.field("dishId", "Required")
	}
	if req.ImageURL == "" {
		v.field("imageUrl", "Required")
	}
	for _, h := range req.Hotspots {
		if h.X == nil {
			v.field("hotspots", "x: Required")
		}
		if h.Y == nil {
			v.field("hotspots", "y: Required")
		}
		if h.IngredientID == "" {
			v.field("hotspots", "ingredientId: Required")
		}
	}
	return v
}

func (req *upsertRequest) media() media.Media {
	m := media.Media{
		ImageURL:    req.ImageURL,
		Alt:         req.Alt,
		BlurDataURL: req.BlurDataURL,
	}
	if req.Hotspots != nil {
		m.Hotspots = make([]hotspot.Hotspot, len(req.Hotspots))
		for i, h := range req.Hotspots {
			m.Hotspots[i] = hotspot.Hotspot{X: *h.X, Y: *h.Y, IngredientID: h.IngredientID, Role: h.Role, Label: h.Label}
		}
	}
	return m
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	if !auth.UserFromContext(r.Context()).IsAdmin() {
		writeError(w, errors.New(errors.ErrCodeForbidden, "Admin only"))
		return
	}
	var req upsertRequest
	if !decodeJSON(w, r, s.opts.MaxBodyBytes, &req) {
		return
	}
	if v := req.validate(); !v.ok() {
		invalidPayload(w, v)
		return
	}

	key := media.Key{Menu: req.Menu, Stage: req.Stage, DishID: req.DishID}
	saved, err := s.runner.Media.Upsert(r.Context(), key, req.media())
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("saved media", "key", key.String(), "hotspots", len(saved.Hotspots))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "saved": saved})
}

// autogenRequest is the body of POST /api/media/autogen.
type autogenRequest struct {
	Menu     string          `json:"menu"`
	Stage    string          `json:"stage"`
	DishID   string          `json:"dishId"`
	Strategy string          `json:"strategy"`
	Seed     json.RawMessage `json:"seed"`
	Refresh  bool            `json:"refresh"`
}

func (s *Server) handleAutogen(w http.ResponseWriter, r *http.Request) {
	if !auth.UserFromContext(r.Context()).IsAdmin() {
		writeError(w, errors.New(errors.ErrCodeForbidden, "Admin only"))
		return
	}
	var req autogenRequest
	if !decodeJSON(w, r, s.opts.MaxBodyBytes, &req) {
		return
	}

	v := &validation{}
	if req.Stage == "" {
		req.Stage = media.DefaultStage
	}
	if req.Menu == "" {
		v.field("menu", "Required")
	}
	if errors.ValidateStage(req.Stage) != nil {
		v.field("stage", "Expected 'draft' | 'review' | 'published'")
	}
	if req.DishID == "" {
		v.field("dishId", "Required")
	}
	seed, ok := parseSeed(req.Seed, s.opts.DefaultSeed)
	if !ok {
		v.field("seed", "Expected integer")
	}
	if !v.ok() {
		invalidPayload(w, v)
		return
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.opts.DefaultStrategy
	}
	res, err := s.runner.Autogen(r.Context(), pipeline.AutogenOptions{
		Menu:     req.Menu,
		Stage:    req.Stage,
		DishID:   req.DishID,
		Strategy: strategy,
		Seed:     seed,
		Refresh:  req.Refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
		*pipeline.AutogenResult
	}{true, res})
}

// previewRequest is the body of POST /api/hotspots/preview. Without
// ingredient ids the dish is looked up in Menu.
type previewRequest struct {
	Menu          string          `json:"menu"`
	DishID        string          `json:"dishId"`
	IngredientIDs []string        `json:"ingredientIds"`
	Strategy      string          `json:"strategy"`
	Seed          json.RawMessage `json:"seed"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !auth.UserFromContext(r.Context()).CanPreview() {
		writeError(w, errors.New(errors.ErrCodeForbidden, "Editor or admin only"))
		return
	}
	var req previewRequest
	if !decodeJSON(w, r, s.opts.MaxBodyBytes, &req) {
		return
	}
	v := &validation{}
	if req.DishID == "" {
		v.field("dishId", "Required")
	}
	if len(req.IngredientIDs) == 0 && req.Menu == "" {
		v.form("ingredientIds or menu is required")
	}
	seed, ok := parseSeed(req.Seed, s.opts.DefaultSeed)
	if !ok {
		v.field("seed", "Expected integer")
	}
	if !v.ok() {
		invalidPayload(w, v)
		return
	}

	ids := req.IngredientIDs
	if len(ids) == 0 {
		m, err := s.runner.Menus.Menu(req.Menu)
		if err != nil {
			writeError(w, err)
			return
		}
		dish := m.FindDish(req.DishID)
		if dish == nil {
			writeError(w, errors.New(errors.ErrCodeDishNotFound, "Dish not found"))
			return
		}
		ids = dish.IngredientIDs()
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.opts.DefaultStrategy
	}
	res, hit, err := s.runner.Generate(r.Context(), hotspot.Request{
		DishID:        req.DishID,
		IngredientIDs: ids,
		Strategy:      hotspot.ParseStrategy(strategy),
		Seed:          seed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"dishId":   req.DishID,
		"strategy": res.Strategy,
		"seed":     res.Seed,
		"hotspots": res.Hotspots,
		"cached":   hit,
	})
}

// parseSeed reads an optional integer seed. Absent or null seeds use def.
func parseSeed(raw json.RawMessage, def int64) (int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return def, true
	}
	var seed int64
	if err := json.Unmarshal(raw, &seed); err != nil {
		return 0, false
	}
	return seed, true
}
