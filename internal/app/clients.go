package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/hedex-labs/hedex-backend/internal/cache"
	"github.com/hedex-labs/hedex-backend/internal/clients/azureai"
	"github.com/hedex-labs/hedex-backend/internal/clients/gcp"
	"github.com/hedex-labs/hedex-backend/internal/clients/openai"
	"github.com/hedex-labs/hedex-backend/internal/platform/envutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

type Clients struct {
	Translator azureai.Translator
	OpenAI     openai.Client

	// Optional extraction capabilities; nil when not configured.
	Document gcp.Document
	Vision   gcp.Vision
}

// wireClients builds the capability adapters. Translator and the
// generative client are required; Document AI and Vision are optional
// and the extractor degrades without them.
func wireClients(log *logger.Logger) (Clients, error) {
	var c Clients

	translator, err := azureai.NewTranslator(log)
	if err != nil {
		return c, fmt.Errorf("init translator: %w", err)
	}
	c.Translator = translator

	oai, err := openai.NewClient(log)
	if err != nil {
		return c, fmt.Errorf("init openai: %w", err)
	}
	c.OpenAI = oai

	if gcp.Configured() {
		doc, dErr := gcp.NewDocument(log)
		if dErr != nil {
			log.Warn("Document AI init failed, PDF extraction uses local parse", "error", dErr.Error())
		} else {
			c.Document = doc
		}
	}

	if envutil.Bool("VISION_ENABLED", true) {
		vis, vErr := gcp.NewVision(log)
		if vErr != nil {
			log.Warn("Vision init failed, image uploads will be rejected", "error", vErr.Error())
		} else {
			c.Vision = vis
		}
	}

	return c, nil
}

func (c Clients) Close() {
	if c.Document != nil {
		_ = c.Document.Close()
	}
	if c.Vision != nil {
		_ = c.Vision.Close()
	}
}

// wireCache selects the store: Redis when REDIS_ADDR is set and
// reachable, in-process memory otherwise.
func wireCache(log *logger.Logger, cfg Config) cache.Store {
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		store, err := cache.NewRedis(log)
		if err == nil {
			log.Info("result cache backed by redis")
			return store
		}
		log.Warn("redis init failed, falling back to memory cache", "error", err.Error())
	}
	return cache.NewMemory(cfg.CacheSweepInterval)
}
