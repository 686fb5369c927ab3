package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"

	"ai-engine/internal/llm"
)

const (
	StoreMemory   = "memory"
	StoreSqlite   = "sqlite"
	StorePostgres = "postgres"
	StoreS3       = "s3"
	StoreRedis    = "redis"
	StoreDapr     = "dapr"
)

const (
	BackendEcho        = "echo"
	BackendOpenAI      = "openai"
	BackendAzureOpenAI = "azure-openai"
	BackendAnthropic   = "anthropic"
	BackendGemini      = "gemini"
	BackendDapr        = "dapr"
)

var (
	stateStores        = []string{StoreMemory, StoreSqlite, StorePostgres, StoreS3, StoreRedis, StoreDapr}
	completionBackends = []string{BackendEcho, BackendOpenAI, BackendAzureOpenAI, BackendAnthropic, BackendGemini, BackendDapr}
)

type Config struct {
	StateStore string `env:"STATE_STORE" envDefault:"memory"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"ai-engine.db"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	StateBucket       string `env:"STATE_BUCKET" envDefault:"ai-engine-state"`
	StatePrefix       string `env:"STATE_PREFIX"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	DaprGRPCAddress string `env:"DAPR_GRPC_ADDRESS"`
	DaprStateStore  string `env:"DAPR_STATE_STORE" envDefault:"statestore"`
	DaprAIBinding   string `env:"DAPR_AI_BINDING"`

	CompletionBackend string   `env:"COMPLETION_BACKEND" envDefault:"echo"`
	LLMModel          string   `env:"LLM_MODEL"`
	LLMAPIKey         string   `env:"LLM_API_KEY"`
	LLMEndpoint       string   `env:"LLM_ENDPOINT"`
	LLMDeployment     string   `env:"LLM_DEPLOYMENT"`
	LLMAPIVersion     string   `env:"LLM_API_VERSION"`
	LLMMaxTokens      int      `env:"LLM_MAX_TOKENS"`
	LLMTemperature    *float64 `env:"LLM_TEMPERATURE"`
	LLMTopP           *float64 `env:"LLM_TOP_P"`

	// SummarizationInstructions is the system prompt used for summaries, with
	// llm.DocumentPlaceholder standing for the document.
	SummarizationInstructions string `env:"SUMMARIZATION_INSTRUCTIONS" envDefault:"Summarize the following text in a few sentences: {0}"`

	SerializeInstances      bool          `env:"SERIALIZE_INSTANCES" envDefault:"false"`
	HistoryFetchConcurrency int           `env:"HISTORY_FETCH_CONCURRENCY" envDefault:"8"`
	EnableURLFetch          bool          `env:"ENABLE_URL_FETCH" envDefault:"true"`
	FetchTimeout            time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`

	APIPort          string `env:"API_PORT" envDefault:"8001"`
	EnginePluginPath string `env:"ENGINE_PLUGIN_PATH"`

	RabbitMQURL       string `env:"RABBITMQ_URL"`
	EngineQueue       string `env:"ENGINE_QUEUE" envDefault:"ai-engine"`
	WorkerConcurrency int    `env:"CONCURRENCY" envDefault:"4"`

	ComponentFile string `env:"COMPONENT_FILE"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.ComponentFile != "" {
		if err := cfg.LoadComponentFile(cfg.ComponentFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.S3EndpointURL != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		slog.Warn("S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing")
	}

	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if !slices.Contains(stateStores, cfg.StateStore) {
		return fmt.Errorf("invalid STATE_STORE '%s', expected one of %v", cfg.StateStore, stateStores)
	}
	if !slices.Contains(completionBackends, cfg.CompletionBackend) {
		return fmt.Errorf("invalid COMPLETION_BACKEND '%s', expected one of %v", cfg.CompletionBackend, completionBackends)
	}
	if cfg.CompletionBackend == BackendDapr && cfg.DaprAIBinding == "" {
		return fmt.Errorf("DAPR_AI_BINDING (or aiName) is required for the dapr completion backend")
	}
	return nil
}

func (cfg *Config) LLMParams() llm.Params {
	return llm.Params{
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		TopP:        cfg.LLMTopP,
	}
}

type metadataItem struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// component is the subset of a Dapr component definition the engine reads.
type component struct {
	Metadata struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Spec struct {
		Type     string         `yaml:"type"`
		Metadata []metadataItem `yaml:"metadata"`
	} `yaml:"spec"`
}

// LoadComponentFile overrides settings with the name/value metadata of a
// component definition.
func (cfg *Config) LoadComponentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading component file '%s': %w", path, err)
	}

	var c component
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("error parsing component file '%s': %w", path, err)
	}

	slog.Info("loading component metadata", "path", path, "component", c.Metadata.Name, "items", len(c.Spec.Metadata))

	for _, item := range c.Spec.Metadata {
		if err := cfg.applyMetadata(item); err != nil {
			return fmt.Errorf("component file '%s': %w", path, err)
		}
	}
	return nil
}

func parseFloat(item metadataItem) (*float64, error) {
	v, err := strconv.ParseFloat(item.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value '%s' for %s: %w", item.Value, item.Name, err)
	}
	return &v, nil
}

func (cfg *Config) applyMetadata(item metadataItem) error {
	var err error
	switch item.Name {
	case "aiName":
		cfg.DaprAIBinding = item.Value
	case "storeName":
		cfg.DaprStateStore = item.Value
	case "endpoint":
		cfg.LLMEndpoint = item.Value
	case "key":
		cfg.LLMAPIKey = item.Value
	case "model":
		cfg.LLMModel = item.Value
	case "deployment":
		cfg.LLMDeployment = item.Value
	case "summarizationInstructions":
		cfg.SummarizationInstructions = item.Value
	case "maxTokens":
		cfg.LLMMaxTokens, err = strconv.Atoi(item.Value)
		if err != nil {
			return fmt.Errorf("invalid value '%s' for maxTokens: %w", item.Value, err)
		}
	case "temperature":
		cfg.LLMTemperature, err = parseFloat(item)
	case "topP":
		cfg.LLMTopP, err = parseFloat(item)
	default:
		slog.Warn("ignoring unknown component metadata", "name", item.Name)
	}
	return err
}
