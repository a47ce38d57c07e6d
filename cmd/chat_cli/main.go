package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chat-history/internal/config"
	"chat-history/internal/domain"
	"chat-history/internal/llm"
	"chat-history/internal/repository"
	"chat-history/internal/service"
)

func main() {
	sessionFlag := flag.String("session", "", "session id a retomar (por defecto uno nuevo)")
	flag.Parse()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	messageRepo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	provider, err := llm.NewProviderFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	registry := service.NewSessionRegistry(logger, cfg.SessionCacheSize, cfg.SessionIdleTTL)
	chatSvc := service.NewChatService(logger, messageRepo, provider, registry, nil, cfg.HistoryReplayLimit)

	// Mismo id opaco que usa la API: sin normalizar.
	sessionID := *sessionFlag
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	fmt.Printf("Sesion: %s\n", sessionID)
	if err := printHistory(ctx, chatSvc, sessionID); err != nil {
		log.Fatalf("leer historial: %v", err)
	}

	if err := chatFlow(ctx, reader, chatSvc, sessionID); err != nil {
		log.Fatal(err)
	}
}

func chatFlow(ctx context.Context, reader *bufio.Reader, chatSvc *service.ChatService, sessionID string) error {
	fmt.Println("---- Modo Chat (/history, /clear, salir) ----")
	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("leer input: %w", err)
		}
		text = strings.TrimSpace(text)
		switch {
		case text == "":
			continue
		case strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") || text == "/quit":
			fmt.Println("Saliendo del chat...")
			return nil
		case text == "/history":
			if err := printHistory(ctx, chatSvc, sessionID); err != nil {
				fmt.Printf("error leyendo historial: %v\n", err)
			}
			continue
		case text == "/clear":
			if err := chatSvc.DeleteHistory(ctx, sessionID); err != nil {
				fmt.Printf("error borrando historial: %v\n", err)
				continue
			}
			fmt.Println("Historial borrado.")
			continue
		}

		reply, err := chatSvc.PostMessage(ctx, sessionID, []domain.Turn{{Role: domain.RoleUser, Content: text}})
		if err != nil {
			fmt.Printf("error generando respuesta: %v\n", err)
			continue
		}
		fmt.Printf("IA > %s\n", reply)
	}
}

func printHistory(ctx context.Context, chatSvc *service.ChatService, sessionID string) error {
	turns, err := chatSvc.GetHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, t := range turns {
		who := "Tu"
		if t.Role == domain.RoleAssistant {
			who = "IA"
		}
		fmt.Printf("%s > %s\n", who, t.Content)
	}
	return nil
}
