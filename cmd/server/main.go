package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/api"
	"moderation/pkg/feed"
	"moderation/pkg/moderate"
	"moderation/pkg/storage"
	"moderation/pkg/storage/memdb"
	"moderation/pkg/storage/mongo"
	"moderation/pkg/storage/postgres"
)

type Config struct {
	ServiceName  string `toml:"serviceName"`
	WordFeedPath string `toml:"wordFeedPath"`
	WordFeedURL  string `toml:"wordFeedURL"`

	Level      string `toml:"level"`
	CensorChar string `toml:"censorChar"`
	Storage    string `toml:"storage"`

	HTTPAddr   string `toml:"httpAddr"`
	LogLevel   string `toml:"logLevel"`
	KafkaAddr  string `toml:"kafkaAddr"`
	KafkaTopic string `toml:"kafkaTopic"`
	KafkaBatch int    `toml:"kafkaBatch"`
}

func main() {
	var (
		configPath   string
		wordFeedPath string
		httpAddr     string
		logLevel     string
		levelName    string
		storageName  string
		kafkaAddr    string
		kafkaTopic   string
		kafkaBatch   int
	)

	flag.StringVar(&configPath, "servconf", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&wordFeedPath, "words", "", "Path to JSON word feed file")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&levelName, "level", "", "Moderation level: off, relaxed, moderate, strict.")
	flag.StringVar(&storageName, "storage", "", "Word store backend: memory, mongo, postgres.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic.")
	flag.IntVar(&kafkaBatch, "batch", 0, "Kafka batch size.")
	flag.Parse()

	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if wordFeedPath != "" {
		cfg.WordFeedPath = wordFeedPath
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if levelName != "" {
		cfg.Level = levelName
	}
	if storageName != "" {
		cfg.Storage = storageName
	}
	if kafkaAddr != "" {
		cfg.KafkaAddr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.KafkaTopic = kafkaTopic
	}
	if kafkaBatch != 0 {
		cfg.KafkaBatch = kafkaBatch
	}

	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("[server] use ':' before port number, e.g. ':8080'")
	}

	switch cfg.LogLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}

	engine := buildEngine(&cfg)
	store := buildStore(&cfg)
	loadPersisted(engine, store)

	var kafkaWriter *kafka.Writer
	if cfg.KafkaAddr != "" && cfg.KafkaTopic != "" {
		kafkaWriter = &kafka.Writer{
			Addr:      kafka.TCP(cfg.KafkaAddr),
			Topic:     cfg.KafkaTopic,
			BatchSize: cfg.KafkaBatch,
		}
		err := createTopic(kafkaWriter.Addr.String(), kafkaWriter.Topic)
		if err != nil {
			log.Warnf("[server] failed to create Kafka topic: %v", err)
		}
	} else {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}

	api, err := api.New(cfg.ServiceName, engine, store, kafkaWriter)
	if err != nil {
		log.Fatalf("[server] failed to create API: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on port %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}
}

// buildEngine creates the moderation engine at the configured level and
// tops up its library from the word feed, if one is configured.
func buildEngine(cfg *Config) *moderate.Engine {
	var opts []moderate.Option

	if cfg.Level != "" {
		level, err := moderate.ParseLevel(cfg.Level)
		if err != nil {
			log.Fatalf("[server] invalid moderation level %q: %v", cfg.Level, err)
		}
		opts = append(opts, moderate.WithLevel(level))
	}
	if cfg.CensorChar != "" {
		opts = append(opts, moderate.WithCensorChar(cfg.CensorChar))
	}

	engine := moderate.New(opts...)

	var src feed.Source
	switch {
	case cfg.WordFeedURL != "":
		src = feed.NewHTTPSource(cfg.WordFeedURL)
	case cfg.WordFeedPath != "":
		src = feed.NewFileSource(cfg.WordFeedPath)
	default:
		log.Info("[server] no word feed configured, using built-in library only")
		return engine
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := feed.Fill(ctx, engine, src)
	if err != nil {
		log.Fatalf("[server] failed to load word feed: %v", err)
	}
	log.Infof("[server] loaded %d word entries from feed", n)

	return engine
}

// buildStore selects the word store backend. Memory is the default and
// keeps custom words only for the process lifetime.
func buildStore(cfg *Config) storage.Store {
	switch cfg.Storage {
	case "", "memory":
		return memdb.New()

	case "mongo":
		conf, err := mongo.NewConfig()
		if err != nil {
			log.Fatalf("[server] invalid mongo config: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := mongo.New(ctx, conf)
		if err != nil {
			log.Fatalf("[server] failed to connect to mongo: %v", err)
		}
		if err := db.Ping(ctx); err != nil {
			log.Fatalf("[server] mongo not responding: %v", err)
		}
		return db

	case "postgres":
		conf := postgres.Config{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   "moderation",
		}
		if !conf.IsValid() {
			log.Fatalf("[server] invalid postgres config: %v", conf)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgres.New(ctx, conf.ConString())
		if err != nil {
			log.Fatalf("[server] failed to connect to postgres: %v", err)
		}
		return db

	default:
		log.Fatalf("[server] unknown storage backend %q", cfg.Storage)
		return nil
	}
}

// loadPersisted merges custom word entries kept in the store into the
// engine's library so they survive restarts.
func loadPersisted(engine *moderate.Engine, store storage.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := store.Entries(ctx)
	if err != nil {
		log.Errorf("[server] failed to load persisted words: %v", err)
		return
	}
	if len(entries) > 0 {
		engine.ImportEntries(entries)
		log.Infof("[server] loaded %d persisted custom words", len(entries))
	}
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
