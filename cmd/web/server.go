package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/hanko-storefront/internal/cms"
	"finitefield.org/hanko-storefront/internal/config"
	"finitefield.org/hanko-storefront/internal/deferred"
	"finitefield.org/hanko-storefront/internal/footer"
	"finitefield.org/hanko-storefront/internal/logging"
	"finitefield.org/hanko-storefront/internal/menu"
	"finitefield.org/hanko-storefront/internal/metrics"
	mw "finitefield.org/hanko-storefront/internal/middleware"
	"finitefield.org/hanko-storefront/internal/page"
	"finitefield.org/hanko-storefront/internal/storefront"
)

type server struct {
	cfg        config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	storefront *storefront.Client
	footer     *footer.Renderer
	pages      *cms.Store
}

func newServer(cfg config.Config, logger *zap.Logger) (*server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := menu.Validate(menu.FallbackSource()); err != nil {
		logger.Warn("fallback footer menu has invalid entries; they are dropped", zap.Error(err))
	}

	static := storefront.Static{
		ShopName:         cfg.ShopName,
		PrimaryDomainURL: cfg.PrimaryDomainURL,
	}
	if cfg.FooterMenuFile != "" {
		m, err := menu.LoadFile(cfg.FooterMenuFile)
		if err != nil {
			return nil, err
		}
		static.FooterMenu = m
	} else {
		fb := menu.FallbackMenu()
		static.FooterMenu = &fb
	}

	reg := prometheus.NewRegistry()
	return &server{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		storefront: storefront.NewClient(storefront.Options{
			Endpoint: cfg.StorefrontEndpoint,
			Token:    cfg.StorefrontToken,
			Timeout:  cfg.StorefrontTimeout,
			Static:   static,
		}),
		footer: footer.New(footer.Options{
			UseFallbackMenu:   cfg.UseFallbackMenu,
			PublicStoreDomain: cfg.PublicStoreDomain,
			Metrics:           metrics.NewFooter(reg),
		}),
		pages: cms.NewStore(cfg.ContentDir, 5*time.Minute),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(mw.RequestInfo)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.HandlerForRegistry(s.registry))
	if s.cfg.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets", mw.Assets(s.cfg.AssetsDir)))
	}

	r.Get("/", s.handleHome)
	r.Get("/policies/{slug}", s.handlePolicy)
	return r
}

// footerQuery starts the footer lookup; it resolves while the rest of the page renders.
func (s *server) footerQuery(r *http.Request) *deferred.Value[*storefront.FooterQuery] {
	return deferred.Go(r.Context(), func(ctx context.Context) (*storefront.FooterQuery, error) {
		return s.storefront.Footer(ctx, s.cfg.FooterMenuHandle)
	})
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	fq := s.footerQuery(r)
	header, err := s.storefront.Header(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, page.Layout{
		Title:    shopName(header, s.cfg),
		ShopName: shopName(header, s.cfg),
		Main:     page.Home(shopName(header, s.cfg)),
		Footer:   s.footer.Footer(fq, header),
	})
}

func (s *server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	fq := s.footerQuery(r)

	var (
		header storefront.HeaderQuery
		policy cms.Page
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		h, err := s.storefront.Header(gctx)
		header = h
		return err
	})
	g.Go(func() error {
		p, err := s.pages.Page("policies", slug)
		policy = p
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.fail(w, r, err)
		return
	}

	title := policy.Title
	if policy.SEO.Title != "" {
		title = policy.SEO.Title
	}
	description := policy.SEO.Description
	if description == "" {
		description = policy.Summary
	}
	s.render(w, r, page.Layout{
		Title:       title + " | " + shopName(header, s.cfg),
		Description: description,
		ShopName:    shopName(header, s.cfg),
		Main:        page.Policy(policy),
		Footer:      s.footer.Footer(fq, header),
	})
}

func (s *server) render(w http.ResponseWriter, r *http.Request, l page.Layout) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Document(l).Render(r.Context(), w); err != nil {
		// headers are already sent once streaming started
		logging.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("load page data", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func shopName(h storefront.HeaderQuery, cfg config.Config) string {
	if name := strings.TrimSpace(h.Shop.Name); name != "" {
		return name
	}
	return cfg.ShopName
}
