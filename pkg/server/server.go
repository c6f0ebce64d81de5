// Package server wires the LocalHealth services into an MCP server.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/localhealth/pkg/config"
	"github.com/NERVsystems/localhealth/pkg/consent"
	"github.com/NERVsystems/localhealth/pkg/gazetteer"
	"github.com/NERVsystems/localhealth/pkg/geolocate"
	"github.com/NERVsystems/localhealth/pkg/identity"
	"github.com/NERVsystems/localhealth/pkg/meals"
	"github.com/NERVsystems/localhealth/pkg/session"
	"github.com/NERVsystems/localhealth/pkg/stores"
	"github.com/NERVsystems/localhealth/pkg/tools"
	"github.com/NERVsystems/localhealth/pkg/tools/prompts"
	"github.com/NERVsystems/localhealth/pkg/version"
)

// ServerName is the name of the MCP server
const ServerName = "localhealth-mcp-server"

// Server encapsulates the MCP server with the LocalHealth tools.
type Server struct {
	srv      *server.MCPServer
	registry *tools.Registry
	closers  []func()
}

// NewServer creates a server from cfg with all tools and prompts registered.
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing LocalHealth MCP server",
		"name", ServerName,
		"version", version.BuildVersion,
		"meal_dataset", cfg.MealDataset,
		"accounts", cfg.AuthEnabled())

	s := &Server{}
	deps, err := s.buildDeps(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.srv = server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	s.registry = tools.NewRegistry(logger, deps)
	s.registry.RegisterTools(s.srv)
	prompts.RegisterPlanningPrompts(s.srv)

	return s, nil
}

func (s *Server) buildDeps(ctx context.Context, cfg config.Config) (tools.Deps, error) {
	data, err := meals.LoadDataset(cfg.MealDataset)
	if err != nil {
		return tools.Deps{}, fmt.Errorf("load meal dataset: %w", err)
	}
	directory := stores.DefaultDirectory()
	sessions, err := session.NewManager(directory, cfg.StoreLimit, cfg.SessionCapacity)
	if err != nil {
		return tools.Deps{}, fmt.Errorf("create session manager: %w", err)
	}

	deps := tools.Deps{
		Gazetteer:       gazetteer.Default(),
		Directory:       directory,
		Selector:        meals.NewSelector(data, nil),
		Sessions:        sessions,
		SuggestionCount: cfg.SuggestionCount,
	}

	if cfg.Home != nil {
		deps.Positions = geolocate.NewCached(geolocate.Fixed{Position: *cfg.Home})
	}

	if cfg.ConsentFile != "" {
		deps.Consent = consent.NewFileStore(cfg.ConsentFile)
	}

	accounts, err := s.buildAccounts(ctx, cfg)
	if err != nil {
		return tools.Deps{}, err
	}
	deps.Accounts = accounts

	return deps, nil
}

func (s *Server) buildAccounts(ctx context.Context, cfg config.Config) (*identity.Service, error) {
	if !cfg.AuthEnabled() {
		slog.Info("no token secret configured, accounts are offline")
		return identity.NewService(nil, nil), nil
	}

	backend, err := identity.NewLocal(identity.LocalConfig{
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
		AttemptRate:  cfg.AuthRPS,
		AttemptBurst: cfg.AuthBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("create account backend: %w", err)
	}

	var records identity.RecordStore = identity.NewMemoryRecords()
	if cfg.DatabaseURL != "" {
		pg, err := identity.OpenPostgresRecords(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pg.Close)
		records = pg
	}
	return identity.NewService(backend, records), nil
}

// Registry returns the tool registry.
func (s *Server) Registry() *tools.Registry { return s.registry }

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	defer s.Close()
	return server.ServeStdio(s.srv)
}

// Close releases external resources such as the database pool.
func (s *Server) Close() {
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}
