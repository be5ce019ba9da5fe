// Command hunter is the entry point for the content factory.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hunterworks/hunter-factory/internal/adapters/driven/ai"
	configfile "github.com/hunterworks/hunter-factory/internal/adapters/driven/config/file"
	"github.com/hunterworks/hunter-factory/internal/adapters/driven/notify/pushplus"
	outputfile "github.com/hunterworks/hunter-factory/internal/adapters/driven/output/file"
	"github.com/hunterworks/hunter-factory/internal/adapters/driven/storage/sqlite"
	"github.com/hunterworks/hunter-factory/internal/adapters/driving/cli"
	"github.com/hunterworks/hunter-factory/internal/connectors/github"
	"github.com/hunterworks/hunter-factory/internal/connectors/hackernews"
	"github.com/hunterworks/hunter-factory/internal/connectors/reddit"
	"github.com/hunterworks/hunter-factory/internal/connectors/rss"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
	"github.com/hunterworks/hunter-factory/internal/core/services"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hunter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	templates, err := configfile.NewTemplateStore("")
	if err != nil {
		return fmt.Errorf("locating templates: %w", err)
	}

	registry, err := services.NewRegistry(templates, config)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	aggregator := services.NewAggregator(buildConnectors(config), sourceTimeout(config))

	wiring := cli.Services{
		Registry: registry,
		Runs:     store.RunStore(),
		Config:   config,
	}

	// The model and embedding providers are optional at startup so that
	// config, templates and topics work before AI is configured. Run and
	// daemon report what is missing through their nil-service guards.
	model, err := ai.CreateModelService(ai.ModelSettings{
		Provider: config.GetString("ai.model.provider"),
		APIKey:   config.GetString("ai.model.api_key"),
		Model:    config.GetString("ai.model.name"),
		BaseURL:  config.GetString("ai.model.base_url"),
	})
	if err != nil {
		logger.Warn("model provider not configured: %v", err)
	}

	embedder, err := ai.CreateEmbeddingService(ai.EmbeddingSettings{
		Provider: config.GetString("ai.embedding.provider"),
		APIKey:   config.GetString("ai.embedding.api_key"),
		Model:    config.GetString("ai.embedding.name"),
		BaseURL:  config.GetString("ai.embedding.base_url"),
	})
	if err != nil {
		logger.Warn("embedding provider not configured: %v", err)
	}

	if model != nil && embedder != nil {
		novelty := services.NewNoveltyFilter(embedder, store.EmbeddingStore(), noveltyConfig(config))
		delivery := services.NewDelivery(buildOutputStore(config), buildChannel(config))
		if banned := config.GetStringSlice("content.banned_phrases"); len(banned) > 0 {
			delivery.SetContentFilter(services.NewContentFilter(banned, nil))
		}
		orchestrator := services.NewOrchestrator(
			model, store.RunStore(), store.ArtifactStore(), delivery, retryPolicy(config))
		runner := services.NewRunner(registry, aggregator, novelty, orchestrator)

		wiring.Run = runner
		wiring.Intel = runner
		wiring.Scheduler = services.NewScheduler(schedulerConfig(config), runner, novelty)
	} else {
		// Preview needs no model, only collection and scoring.
		wiring.Intel = services.NewRunner(registry, aggregator, nil, nil)
	}

	cli.SetServices(wiring)
	return cli.Execute()
}

func buildConnectors(config *configfile.ConfigStore) []driven.Connector {
	connectors := []driven.Connector{
		hackernews.New(hackernews.Config{Limit: config.GetInt("hackernews.limit")}),
	}

	if token := config.GetString("github.token"); token != "" {
		connectors = append(connectors, github.New(github.Config{
			Token:    token,
			Query:    config.GetString("github.query"),
			MinStars: config.GetInt("github.min_stars"),
			Limit:    config.GetInt("github.limit"),
		}))
	}

	if subs := config.GetStringSlice("reddit.subreddits"); len(subs) > 0 {
		connectors = append(connectors, reddit.New(reddit.Config{
			Subreddits: subs,
			Limit:      config.GetInt("reddit.limit"),
		}))
	}

	if feeds := config.GetStringSlice("rss.feeds"); len(feeds) > 0 {
		connectors = append(connectors, rss.New(rss.Config{
			Feeds: feeds,
			Limit: config.GetInt("rss.limit"),
		}))
	}

	return connectors
}

func buildOutputStore(config *configfile.ConfigStore) driven.OutputStore {
	output, err := outputfile.NewOutputStore(config.GetString("output.dir"))
	if err != nil {
		logger.Warn("output store unavailable: %v", err)
		return nil
	}
	return output
}

func buildChannel(config *configfile.ConfigStore) driven.NotificationChannel {
	token := config.GetString("pushplus.token")
	if token == "" {
		return nil
	}
	channel, err := pushplus.NewChannel(pushplus.Config{Token: token})
	if err != nil {
		logger.Warn("pushplus channel unavailable: %v", err)
		return nil
	}
	return channel
}

func sourceTimeout(config *configfile.ConfigStore) time.Duration {
	if secs := config.GetInt("sources.timeout_seconds"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return services.DefaultSourceTimeout
}

func noveltyConfig(config *configfile.ConfigStore) services.NoveltyFilterConfig {
	var cfg services.NoveltyFilterConfig
	if raw, ok := config.Get("novelty.threshold"); ok {
		if threshold, ok := raw.(float64); ok {
			cfg.Threshold = threshold
		}
	}
	cfg.Neighbours = config.GetInt("novelty.neighbours")
	cfg.Retention.MaxRecords = config.GetInt("novelty.max_records")
	if days := config.GetInt("novelty.max_age_days"); days > 0 {
		cfg.Retention.MaxAge = time.Duration(days) * 24 * time.Hour
	}
	return cfg
}

func retryPolicy(config *configfile.ConfigStore) services.RetryPolicy {
	policy := services.DefaultRetryPolicy()
	if attempts := config.GetInt("model.max_attempts"); attempts > 0 {
		policy.MaxAttempts = attempts
	}
	if ms := config.GetInt("model.retry_base_ms"); ms > 0 {
		policy.BaseDelay = time.Duration(ms) * time.Millisecond
	}
	if ms := config.GetInt("model.retry_cap_ms"); ms > 0 {
		policy.MaxDelay = time.Duration(ms) * time.Millisecond
	}
	return policy
}

func schedulerConfig(config *configfile.ConfigStore) services.SchedulerConfig {
	cfg := services.SchedulerConfig{
		Templates: config.GetStringSlice("scheduler.templates"),
	}
	if len(cfg.Templates) == 0 {
		cfg.Templates = []string{"auto"}
	}
	if hours := config.GetInt("scheduler.interval_hours"); hours > 0 {
		cfg.RunInterval = time.Duration(hours) * time.Hour
	}
	if hours := config.GetInt("scheduler.prune_hours"); hours > 0 {
		cfg.PruneInterval = time.Duration(hours) * time.Hour
	}
	return cfg
}
