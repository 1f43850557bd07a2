// Package api exposes the quote engine over HTTP with gin.
package api

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StoneQuote/internal/catalog"
	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/logging"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/session"
	"go.uber.org/zap"
)

// defaultLiveSearchIdle is how long an unused typeahead is kept.
const defaultLiveSearchIdle = 10 * time.Minute

// Config holds the server settings. LiveSearchIdle defaults to
// defaultLiveSearchIdle when zero.
type Config struct {
	Rates          engine.CuttingRates
	SearchDebounce time.Duration
	LiveSearchIdle time.Duration
	Currency       string
}

// Server routes requests to the session store and the catalog.
type Server struct {
	cfg     Config
	store   *session.Store
	catalog catalog.Catalog
	log     *zap.Logger

	mu   sync.Mutex
	live map[string]*liveEntry // Client ID and contract type -> typeahead
	now  func() time.Time
}

type liveEntry struct {
	search   *catalog.LiveSearch[model.StoneProduct]
	lastUsed time.Time
}

// NewServer creates a server. Product and tool searches are coalesced
// across concurrent requests.
func NewServer(store *session.Store, cat catalog.Catalog, cfg Config) *Server {
	if cfg.LiveSearchIdle <= 0 {
		cfg.LiveSearchIdle = defaultLiveSearchIdle
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		catalog: catalog.NewCoalesced(cat),
		log:     logging.Named("api"),
		live:    map[string]*liveEntry{},
		now:     time.Now,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(s.log))

	r.GET("/healthz", func(c *gin.Context) { Success(c, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")

	calc := v1.Group("/calculate")
	calc.POST("/part", s.CalculatePart)
	calc.POST("/layer-demands", s.ResolveLayerDemands)
	calc.POST("/layer-allocation", s.AllocateLayers)
	calc.POST("/stone-usage", s.StoneUsage)

	cat := v1.Group("/catalog")
	cat.GET("/products", s.SearchProducts)
	cat.GET("/products/live", s.LiveSearchProducts)
	cat.GET("/tools", s.SearchTools)
	cat.GET("/finishings", s.ListFinishings)
	cat.GET("/rates", s.CuttingRates)

	sessions := v1.Group("/sessions")
	sessions.POST("", s.CreateSession)
	sessions.GET("", s.ListSessions)
	sessions.GET("/:id", s.GetSession)
	sessions.DELETE("/:id", s.DeleteSession)
	sessions.POST("/:id/reset", s.ResetSession)
	sessions.GET("/:id/totals", s.SessionTotals)
	sessions.GET("/:id/contract", s.GetContract)
	sessions.PUT("/:id/contract", s.LoadContract)
	sessions.POST("/:id/parts", s.MaterializePart)
	sessions.GET("/:id/products", s.ListProducts)
	sessions.GET("/:id/products/:productId", s.GetProduct)
	sessions.DELETE("/:id/products/:productId", s.RemoveProduct)
	sessions.DELETE("/:id/stair-systems/:systemId", s.RemoveStairSystem)
	sessions.GET("/:id/remaining-stones", s.ListRemainingStones)
	sessions.POST("/:id/remaining-stones/:stoneId/products", s.CreateFromRemainingStone)
	sessions.GET("/:id/export/cutting-sheet.pdf", s.ExportCuttingSheet)
	sessions.GET("/:id/export/labels.pdf", s.ExportLabels)
	sessions.GET("/:id/export/quote.xlsx", s.ExportXLSX)

	return r
}

// Close stops every live search.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.live {
		e.search.Close()
		delete(s.live, key)
	}
}

// liveSearch returns the typeahead of a client, creating it on first use.
// Typeaheads idle for longer than LiveSearchIdle are closed and dropped.
func (s *Server) liveSearch(clientID, contractType string) *catalog.LiveSearch[model.StoneProduct] {
	key := clientID + "|" + contractType
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.live {
		if k != key && now.Sub(e.lastUsed) > s.cfg.LiveSearchIdle {
			e.search.Close()
			delete(s.live, k)
		}
	}

	if e, ok := s.live[key]; ok {
		e.lastUsed = now
		return e.search
	}
	ls := catalog.NewLiveSearch[model.StoneProduct](func(ctx context.Context, text string) ([]model.StoneProduct, error) {
		return s.catalog.SearchProducts(ctx, text, contractType)
	}, s.cfg.SearchDebounce)
	s.live[key] = &liveEntry{search: ls, lastUsed: now}
	return ls
}

func (s *Server) session(c *gin.Context) (*session.Session, bool) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return sess, true
}
