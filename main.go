package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/deskbot-poc/server/internal/agent/graph"
	"github.com/deskbot-poc/server/internal/agent/model"
	"github.com/deskbot-poc/server/internal/agent/repo"
	"github.com/deskbot-poc/server/internal/core"
	errx "github.com/deskbot-poc/server/internal/core/error"
	"github.com/deskbot-poc/server/internal/directory"
	"github.com/deskbot-poc/server/internal/knowledge"
	"github.com/deskbot-poc/server/internal/mail"
	logx "github.com/deskbot-poc/server/pkg/logger"
	pkgpostgres "github.com/deskbot-poc/server/pkg/postgres"
	pkgredis "github.com/deskbot-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis    pkgredis.Config
	Postgres pkgpostgres.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Extractor    model.ExtractorModelConfig
	Response     model.ResponseModelConfig
	Conversation model.ConversationConfig

	// Tool adapters
	Mail      model.MailConfig
	Directory model.DirectoryConfig
	Knowledge model.KnowledgeSourceConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.CurrentEnvironment()})

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	conversationRepo := repo.NewRedisConversationRepository(rdb, ttl)

	var store directory.Store
	if envCfg.Postgres.DSN != "" {
		db, err := envCfg.Postgres.New()
		if err != nil {
			log.Fatalf("Failed to connect to Postgres directory: %v", err)
		}
		defer db.Close()
		store = directory.NewPostgresStore(db, envCfg.Directory.Table)
	} else {
		logx.Warn().Msg("POSTGRES_DSN not set - using the built-in sample directory")
		store = directory.NewStaticStore(directory.SeedRecords)
	}

	retriever := knowledge.NewWikipediaRetriever(knowledge.WikipediaConfig{
		BaseURL:    envCfg.Knowledge.BaseURL,
		MaxResults: envCfg.Knowledge.MaxResults,
		Timeout:    time.Duration(envCfg.Knowledge.TimeoutSeconds) * time.Second,
	})

	dispatcher := mail.NewSMTPDispatcher(mail.SMTPConfig{
		Host:     envCfg.Mail.SMTPHost,
		Port:     envCfg.Mail.SMTPPort,
		Address:  envCfg.Mail.Address,
		Password: envCfg.Mail.AppPassword,
	})

	runner, err := graph.BuildTurnGraph(ctx, graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ClassifierModel:  envCfg.Classifier,
		ExtractorModel:   envCfg.Extractor,
		ResponseModel:    envCfg.Response,
		Conversation:     envCfg.Conversation,
		ConversationRepo: conversationRepo,
		Directory:        store,
		Knowledge:        retriever,
		Mail:             dispatcher,
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	conversationID := uuid.NewString()
	fmt.Println("Deskbot ready. Type 'exit' to quit, 'reset' to clear the conversation.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Ask me anything: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit":
			fmt.Println("Bye")
			return
		case "reset":
			if err := conversationRepo.ClearHistory(ctx, conversationID); err != nil {
				logx.Error().Err(err).Msg("failed to clear conversation")
			}
			conversationID = uuid.NewString()
			fmt.Println("Conversation cleared.")
			continue
		case "history":
			history, err := conversationRepo.LoadHistory(ctx, conversationID)
			if err != nil {
				logx.Error().Err(err).Msg("failed to load conversation history")
				continue
			}
			for _, m := range history.Messages {
				fmt.Printf("[%s] %s\n", m.Role, m.Content)
			}
			continue
		}

		answer, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          input,
		})
		if err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Msg("turn failed")
			fmt.Printf("\nSorry, something went wrong: %s\n\n", errx.UserMessage(err))
			continue
		}

		fmt.Printf("\nFinal Answer:\n%s\n\n", answer)
	}
}
