package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	dapr "github.com/dapr/go-sdk/client"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/option"

	"ai-engine/internal/config"
	"ai-engine/internal/database"
	"ai-engine/internal/engine"
	"ai-engine/internal/llm"
	"ai-engine/internal/state"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultGeminiModel    = "gemini-1.5-flash"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// Resources collects what BuildEngine opened so it can be released in reverse
// order on shutdown.
type Resources struct {
	cfg     *config.Config
	dapr    dapr.Client
	closers []func()
}

func (r *Resources) onClose(fn func()) {
	r.closers = append(r.closers, fn)
}

func (r *Resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func (r *Resources) daprClient() (dapr.Client, error) {
	if r.dapr != nil {
		return r.dapr, nil
	}

	var client dapr.Client
	var err error
	if r.cfg.DaprGRPCAddress != "" {
		client, err = dapr.NewClientWithAddress(r.cfg.DaprGRPCAddress)
	} else {
		client, err = dapr.NewClient()
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to dapr sidecar: %w", err)
	}

	r.dapr = client
	r.onClose(client.Close)
	return client, nil
}

func (r *Resources) NewStateStore(ctx context.Context) (state.Store, error) {
	cfg := r.cfg

	switch cfg.StateStore {
	case config.StoreMemory:
		slog.Warn("using in-memory state store, chats are lost on restart")
		return state.NewMemoryStore(), nil

	case config.StoreSqlite, config.StorePostgres:
		db, err := database.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("error getting database handle: %w", err)
		}
		r.onClose(func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("error closing database", "error", err)
			}
		})
		return state.NewGormStore(db), nil

	case config.StoreS3:
		store, err := state.NewS3Store(state.S3Config{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.StateBucket,
			Prefix:          cfg.StatePrefix,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreRedis:
		store, err := state.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		r.onClose(func() {
			if err := store.Close(); err != nil {
				slog.Error("error closing redis client", "error", err)
			}
		})
		return store, nil

	case config.StoreDapr:
		client, err := r.daprClient()
		if err != nil {
			return nil, err
		}
		return state.NewDaprStore(client, cfg.DaprStateStore), nil

	default:
		return nil, fmt.Errorf("unsupported state store '%s'", cfg.StateStore)
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (r *Resources) NewCompleter(ctx context.Context) (llm.Completer, error) {
	cfg := r.cfg
	params := cfg.LLMParams()

	switch cfg.CompletionBackend {
	case config.BackendEcho:
		return llm.Echo{}, nil

	case config.BackendOpenAI:
		var opts []option.RequestOption
		if cfg.LLMAPIKey != "" {
			opts = append(opts, option.WithAPIKey(cfg.LLMAPIKey))
		}
		if cfg.LLMEndpoint != "" {
			opts = append(opts, option.WithBaseURL(cfg.LLMEndpoint))
		}
		return llm.NewOpenAI(withDefault(cfg.LLMModel, defaultOpenAIModel), params, opts...), nil

	case config.BackendAzureOpenAI:
		return llm.NewAzureOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMDeployment, cfg.LLMAPIVersion, params)

	case config.BackendAnthropic:
		var opts []anthropicoption.RequestOption
		if cfg.LLMAPIKey != "" {
			opts = append(opts, anthropicoption.WithAPIKey(cfg.LLMAPIKey))
		}
		if cfg.LLMEndpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(cfg.LLMEndpoint))
		}
		return llm.NewAnthropic(withDefault(cfg.LLMModel, defaultAnthropicModel), params, opts...), nil

	case config.BackendGemini:
		gemini, err := llm.NewGemini(ctx, withDefault(cfg.LLMModel, defaultGeminiModel), cfg.LLMAPIKey, params)
		if err != nil {
			return nil, err
		}
		r.onClose(func() {
			if err := gemini.Close(); err != nil {
				slog.Error("error closing gemini client", "error", err)
			}
		})
		return gemini, nil

	case config.BackendDapr:
		client, err := r.daprClient()
		if err != nil {
			return nil, err
		}
		return llm.NewDaprBinding(client, cfg.DaprAIBinding), nil

	default:
		return nil, fmt.Errorf("unsupported completion backend '%s'", cfg.CompletionBackend)
	}
}

// NewSummarizer uses the completer's own summarization when it has one and
// otherwise summarizes through chat completion with the configured
// instructions. Without instructions there is no summarizer and only
// summarizeText fails.
func (r *Resources) NewSummarizer(completer llm.Completer) (llm.Summarizer, error) {
	if summarizer, ok := completer.(llm.Summarizer); ok {
		return summarizer, nil
	}

	summarizer, err := llm.NewCompletionSummarizer(completer, r.cfg.SummarizationInstructions)
	if errors.Is(err, llm.ErrMissingInstructions) {
		slog.Warn("summarization instructions are empty, summarizeText is disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return summarizer, nil
}

// BuildEngine wires the engine described by cfg. The returned Resources must
// be closed once the engine is no longer used, including on error.
func BuildEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, *Resources, error) {
	res := &Resources{cfg: cfg}

	store, err := res.NewStateStore(ctx)
	if err != nil {
		return nil, res, fmt.Errorf("error creating state store: %w", err)
	}

	completer, err := res.NewCompleter(ctx)
	if err != nil {
		return nil, res, fmt.Errorf("error creating completion backend: %w", err)
	}

	summarizer, err := res.NewSummarizer(completer)
	if err != nil {
		return nil, res, fmt.Errorf("error creating summarizer: %w", err)
	}

	opts := engine.Options{
		SerializeInstances:      cfg.SerializeInstances,
		HistoryFetchConcurrency: cfg.HistoryFetchConcurrency,
	}
	if cfg.EnableURLFetch {
		opts.Fetcher = engine.NewHTTPFetcher(cfg.FetchTimeout)
	}

	slog.Info("engine configured", "state_store", cfg.StateStore, "completion_backend", cfg.CompletionBackend,
		"serialize_instances", cfg.SerializeInstances)

	return engine.New(store, completer, summarizer, opts), res, nil
}
