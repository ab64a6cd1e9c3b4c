package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pombreda/soundforest/core/config"
	"github.com/pombreda/soundforest/core/database"
	"github.com/pombreda/soundforest/core/logger"
	"github.com/pombreda/soundforest/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// yesConfirm auto-confirms destructive actions across commands.
var yesConfirm bool

// app bundles the pieces every command needs: configuration, logger,
// database handle and the store over it.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  *store.Store
}

// bootstrap loads configuration, initializes the logger, connects to the
// database, runs migrations and seeds the built-in tree types.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := store.New(db)
	if err := s.EnsureDefaultTreeTypes(); err != nil {
		return nil, fmt.Errorf("failed to seed tree types: %w", err)
	}

	return &app{cfg: cfg, logger: l, db: db, store: s}, nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(what string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to confirm %s: ", what)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
