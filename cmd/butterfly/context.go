package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/samirrijal/butterflyguide/internal/adapters/memory"
	"github.com/samirrijal/butterflyguide/internal/catalog"
	"github.com/samirrijal/butterflyguide/internal/core/classifier"
	"github.com/samirrijal/butterflyguide/internal/core/migration"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
	"github.com/samirrijal/butterflyguide/internal/pkg/config"
	"github.com/samirrijal/butterflyguide/internal/pkg/logging"
)

// guide bundles the offline services the CLI runs against.
type guide struct {
	catalog         *catalog.Catalog
	classifier      *classifier.Classifier
	identifications *usecases.IdentificationService
	species         *usecases.SpeciesService
	migration       *usecases.MigrationService
}

type commandContext struct {
	catalogFlag *string
	jsonFlag    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	guideOnce sync.Once
	guide     *guide
	guideErr  error
}

func newCommandContext(catalogFlag *string) *commandContext {
	return &commandContext{catalogFlag: catalogFlag}
}

func (c *commandContext) json() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load("butterfly-cli")
		if err != nil {
			c.configErr = err
			return
		}
		slog.SetDefault(logging.New(os.Stderr, cfg.Log.Level, "text"))
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureGuide builds the catalog-backed services. The --catalog flag wins over config.
func (c *commandContext) ensureGuide() (*guide, error) {
	c.guideOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.guideErr = err
			return
		}
		path := cfg.Catalog.Path
		if c.catalogFlag != nil && strings.TrimSpace(*c.catalogFlag) != "" {
			path = strings.TrimSpace(*c.catalogFlag)
		}

		cat, err := catalog.Load(path)
		if err != nil {
			c.guideErr = fmt.Errorf("load catalog: %w", err)
			return
		}
		cls, err := classifier.New(cat.KeywordSets(), classifier.SourceFromSeed(cfg.Classifier.Seed))
		if err != nil {
			c.guideErr = err
			return
		}
		store, err := migration.NewStore(cat.Timelines())
		if err != nil {
			c.guideErr = err
			return
		}

		c.guide = &guide{
			catalog:         cat,
			classifier:      cls,
			identifications: usecases.NewIdentificationService(cls, memory.NewIdentificationRepo(1), nil),
			species:         usecases.NewSpeciesService(cat.Profiles()),
			migration:       usecases.NewMigrationService(store, nil),
		}
	})
	return c.guide, c.guideErr
}
