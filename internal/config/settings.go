package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
	EventPoll    time.Duration `mapstructure:"event_poll"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

// DSN is the go-sql-driver/mysql connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr          string        `mapstructure:"addr"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	TranscriptTTL time.Duration `mapstructure:"transcript_ttl"`
}

type SchedulerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Queue       string        `mapstructure:"queue"`
	Concurrency int           `mapstructure:"concurrency"`
	MaxRetry    int           `mapstructure:"max_retry"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	SpoolDir string `mapstructure:"spool_dir"`
	// InMemory keeps spooled uploads in an afero MemMapFs.
	InMemory bool `mapstructure:"in_memory"`
}

type WhisperConfig struct {
	URL           string        `mapstructure:"url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	InitialPrompt string        `mapstructure:"initial_prompt"`
}

type OpenAISTTConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type STTConfig struct {
	Provider     string          `mapstructure:"provider"`
	ChunkSeconds int             `mapstructure:"chunk_seconds"`
	Whisper      WhisperConfig   `mapstructure:"whisper"`
	OpenAI       OpenAISTTConfig `mapstructure:"openai"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type OllamaConfig struct {
	URLs  []string `mapstructure:"urls"`
	Model string   `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type HuggingFaceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Token          string        `mapstructure:"token"`
	SummarizeModel string        `mapstructure:"summarize_model"`
	QuestionsModel string        `mapstructure:"questions_model"`
	TranslateModel string        `mapstructure:"translate_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type AssistantConfig struct {
	DefaultProvider string            `mapstructure:"default_provider"`
	Routes          map[string]string `mapstructure:"routes"`
	OpenAI          OpenAIConfig      `mapstructure:"openai"`
	Ollama          OllamaConfig      `mapstructure:"ollama"`
	Gemini          GeminiConfig      `mapstructure:"gemini"`
	HuggingFace     HuggingFaceConfig `mapstructure:"huggingface"`
}

type NotesConfig struct {
	SummaryBudget      int `mapstructure:"summary_budget"`
	SummaryMaxLength   int `mapstructure:"summary_max_length"`
	SummaryMinLength   int `mapstructure:"summary_min_length"`
	QuestionsBudget    int `mapstructure:"questions_budget"`
	QuestionsMaxLength int `mapstructure:"questions_max_length"`
	TranslateChunkSize int `mapstructure:"translate_chunk_size"`
}

type PDFConfig struct {
	Title string `mapstructure:"title"`

	// TTF files with UTF-8 coverage; empty keeps the core cp1252 font.
	FontFile     string `mapstructure:"font_file"`
	BoldFontFile string `mapstructure:"bold_font_file"`
}

type Settings struct {
	Env       string          `mapstructure:"env"`
	Debug     bool            `mapstructure:"debug"`
	LogLevel  string          `mapstructure:"log_level"`
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Storage   StorageConfig   `mapstructure:"storage"`
	STT       STTConfig       `mapstructure:"stt"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Notes     NotesConfig     `mapstructure:"notes"`
	PDF       PDFConfig       `mapstructure:"pdf"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_mb", 200)
	v.SetDefault("server.event_poll", 15*time.Second)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "notes")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "lecturenotes")
	v.SetDefault("database.pool_size", 10)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.transcript_ttl", 7*24*time.Hour)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.queue", "lectures")
	v.SetDefault("scheduler.concurrency", 2)
	v.SetDefault("scheduler.max_retry", 3)
	v.SetDefault("scheduler.timeout", 30*time.Minute)

	v.SetDefault("storage.spool_dir", "./spool")
	v.SetDefault("storage.in_memory", false)

	v.SetDefault("stt.provider", "whisper")
	v.SetDefault("stt.chunk_seconds", 30)
	v.SetDefault("stt.whisper.url", "http://127.0.0.1:9000")
	v.SetDefault("stt.whisper.timeout", 10*time.Minute)
	v.SetDefault("stt.whisper.initial_prompt", "")
	v.SetDefault("stt.openai.api_key", "")
	v.SetDefault("stt.openai.base_url", "")
	v.SetDefault("stt.openai.model", "whisper-1")

	v.SetDefault("assistant.default_provider", "huggingface")
	v.SetDefault("assistant.routes", map[string]string{})
	v.SetDefault("assistant.openai.api_key", "")
	v.SetDefault("assistant.openai.base_url", "")
	v.SetDefault("assistant.openai.model", "gpt-4o-mini")
	v.SetDefault("assistant.openai.max_retries", 2)
	v.SetDefault("assistant.ollama.urls", []string{})
	v.SetDefault("assistant.ollama.model", "llama3:8b")
	v.SetDefault("assistant.gemini.api_key", "")
	v.SetDefault("assistant.gemini.model", "gemini-1.5-flash-latest")
	v.SetDefault("assistant.huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("assistant.huggingface.token", "")
	v.SetDefault("assistant.huggingface.summarize_model", "facebook/bart-large-cnn")
	v.SetDefault("assistant.huggingface.questions_model", "valhalla/t5-small-qg-hl")
	v.SetDefault("assistant.huggingface.translate_model", "Helsinki-NLP/opus-mt-en-{lang}")
	v.SetDefault("assistant.huggingface.timeout", 2*time.Minute)

	v.SetDefault("notes.summary_budget", 1024)
	v.SetDefault("notes.summary_max_length", 200)
	v.SetDefault("notes.summary_min_length", 70)
	v.SetDefault("notes.questions_budget", 700)
	v.SetDefault("notes.questions_max_length", 256)
	v.SetDefault("notes.translate_chunk_size", 1000)

	v.SetDefault("pdf.title", "Lecture Notes")
	v.SetDefault("pdf.font_file", "")
	v.SetDefault("pdf.bold_font_file", "")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("NOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("assistant.huggingface.token", "NOTES_ASSISTANT_HUGGINGFACE_TOKEN", "HF_TOKEN")
	_ = v.BindEnv("assistant.openai.api_key", "NOTES_ASSISTANT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("stt.openai.api_key", "NOTES_STT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("assistant.gemini.api_key", "NOTES_ASSISTANT_GEMINI_API_KEY", "GEMINI_API_KEY")
	return v
}

// Load reads config_<ENV>.yaml from the working directory. The file must exist.
func Load() (*Settings, error) {
	return LoadFrom(".", false)
}

// LoadOptional is Load without the file requirement; defaults and
// environment variables are enough to run the CLI.
func LoadOptional() (*Settings, error) {
	return LoadFrom(".", true)
}

func LoadFrom(dir string, optional bool) (*Settings, error) {
	// a missing .env is the normal case outside development
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("config_" + genEnv())
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !optional || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if settings.Env == "" {
		settings.Env = genEnv()
	}
	return &settings, nil
}

func genEnv() string {
	for _, key := range []string{"NOTES_ENV", "ENV"} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	return "dev"
}
