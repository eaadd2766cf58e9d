// ABOUTME: Entry point for the cuartel admin server.
// ABOUTME: Wires store, session, and admin UI together with CLI commands.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/agroplan/cuartel-admin/internal/admin"
	"github.com/agroplan/cuartel-admin/internal/auth"
	"github.com/agroplan/cuartel-admin/internal/logging"
	"github.com/agroplan/cuartel-admin/internal/seed"
	"github.com/agroplan/cuartel-admin/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var (
	port   string
	dbPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cuartel-admin",
		Short: "Admin panel for agricultural cuartel records",
		Long: `Browser-based admin panel for cuartel (orchard block) records.

Features:
  • Sortable, filterable, groupable data grids with CSV/Excel export
  • Schema-driven dynamic forms with a visual form builder
  • Role-gated pages (admin, manager, user)
  • SQLite persistence with per-grid state saved across restarts

Quick Start:
  cuartel-admin seed    # Generate test data
  cuartel-admin serve   # Start server on port 9000
  cuartel-admin reset   # Wipe and reseed database`,
	}

	defaultDBPath := getDefaultDBPath()

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the admin server on the specified port.

The server provides:
  • The admin UI at http://localhost:PORT/
  • Health check at http://localhost:PORT/healthz

Sign in with one of the mock accounts (enterprise "empresa1"):
  admin / admin123      full access
  manager / manager123  record editing and form builder
  user / user123        read-only pages

Environment Variables:
  CUARTEL_PORT      Server port (default: 9000)
  CUARTEL_DB_PATH   Database path
  OPENAI_API_KEY    Enable AI-generated seed data`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", getEnv("CUARTEL_PORT", "9000"), "Port to listen on")
	serveCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with test data",
		Long: `Seed the database with realistic agricultural test data.

AI-Powered Generation:
  Set OPENAI_API_KEY to generate realistic Chilean farm data with AI.
  Falls back to static fixtures if no API key is provided.

Data Generated:
  • 12 cuartel summary records (species, variety, phenological state)
  • 8 wide agronomy records (soil, irrigation, plantation data)

Note: Seed is not idempotent. Use 'cuartel-admin reset' to start fresh.`,
		RunE: runSeed,
	}
	seedCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database (wipe and reseed)",
		Long: `Delete the database file and create a fresh one with new test data.

Warning: This permanently deletes all data, including saved grid
configurations and form builder schemas.`,
		RunE: runReset,
	}
	resetCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")

	rootCmd.AddCommand(serveCmd, seedCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// validateAndCleanDBPath rejects empty, root-like, and traversal paths.
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	cleanPath = filepath.Clean(cleanPath)

	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}
	return cleanPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	srv, err := newServer(dbPath)
	if err != nil {
		return err
	}

	addr := ":" + port
	log.Printf("cuartel-admin listening on %s", addr)
	log.Printf("Database: %s", dbPath)
	return http.ListenAndServe(addr, srv)
}

func newServer(dbPath string) (http.Handler, error) {
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	session := auth.NewService(s)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Auth runs before logging so the request log records the username
	r.Use(auth.Middleware(session))
	r.Use(logging.Middleware(s))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	handlers, err := admin.NewHandlers(s, session)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize admin UI: %w", err)
	}
	handlers.RegisterRoutes(r)

	return r, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(s)
}

func runReset(cmd *cobra.Command, args []string) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(s)
}

func seedData(s *store.Store) error {
	log.Println("Seeding database with test data...")

	gen := seed.NewGenerator()
	data, err := gen.Generate(context.Background(), 12, 8)
	if err != nil {
		return fmt.Errorf("failed to generate seed data: %w", err)
	}

	created := 0
	for _, b := range data.Barracks {
		rec := &store.Barracks{
			Barracks:          b.Barracks,
			Species:           b.Species,
			Variety:           b.Variety,
			PhenologicalState: b.PhenologicalState,
			State:             true,
		}
		if _, err := s.CreateBarracks(rec); err != nil {
			log.Printf("Failed to create cuartel %q: %v", b.Barracks, err)
			continue
		}
		created++
	}

	for _, p := range data.Plots {
		rec := &store.BarracksList{
			ClassificationZone:  p.ClassificationZone,
			BarracksPaddockName: p.BarracksPaddockName,
			Organic:             p.Organic,
			VarietySpecies:      p.VarietySpecies,
			Variety:             p.Variety,
			QualityType:         p.QualityType,
			TotalHa:             p.TotalHa,
			TotalPlants:         p.TotalPlants,
			SoilType:            p.SoilType,
			Texture:             p.Texture,
			SoilPh:              p.SoilPh,
			Pattern:             p.Pattern,
			PlantationYear:      p.PlantationYear,
			IrrigationType:      p.IrrigationType,
			IrrigationZone:      p.IrrigationZone != "",
			State:               true,
		}
		if _, err := s.CreateBarracksList(rec); err != nil {
			log.Printf("Failed to create agronomy record %q: %v", p.BarracksPaddockName, err)
			continue
		}
		created++
	}

	log.Printf("Seeding complete! Created %d records", created)
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getDefaultDBPath resolves the database location.
// Priority: CUARTEL_DB_PATH > ./cuartel.db (backwards compat) > XDG data dir.
func getDefaultDBPath() string {
	if envPath := os.Getenv("CUARTEL_DB_PATH"); envPath != "" {
		envPath = strings.TrimSpace(envPath)
		envPath = filepath.Clean(envPath)
		if envPath != "" && envPath != "." {
			return envPath
		}
		log.Printf("Warning: CUARTEL_DB_PATH is invalid (empty or '.'), using default path")
	}

	cwdPath := "./cuartel.db"
	if _, err := os.Stat(cwdPath); err == nil {
		return cwdPath
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" || homeDir == "/" {
			log.Printf("Warning: Could not determine valid home directory (%q): %v, using ./cuartel.db", homeDir, err)
			return cwdPath
		}
		if runtime.GOOS == "windows" {
			dataHome = os.Getenv("LOCALAPPDATA")
			if dataHome == "" {
				dataHome = filepath.Join(homeDir, "AppData", "Local")
			}
		} else {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(dataHome, "cuartel-admin")
	dbFile := filepath.Join(dataDir, "cuartel.db")

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v, using ./cuartel.db", dataDir, err)
		return cwdPath
	}
	return dbFile
}
