package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/lingo-rooms-demo/modules/api"
	"github.com/example/lingo-rooms-demo/modules/broadcast"
	"github.com/example/lingo-rooms-demo/modules/chat"
	"github.com/example/lingo-rooms-demo/modules/game"
	"github.com/example/lingo-rooms-demo/modules/progress"
	"github.com/example/lingo-rooms-demo/modules/tutor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Lingo Rooms - bilingual practice server ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules. The tutor client is plain dependency injection;
	// everything else talks through the EventBus or ServiceContainer.
	tutorModule := tutor.NewModule()
	gameModule := game.NewModule(tutorModule.Client())
	chatModule := chat.NewModule(tutorModule.Client())
	progressModule := progress.NewModule()
	broadcastModule := broadcast.NewModule()
	apiModule := api.NewModule(gameModule, chatModule)

	// Inject the broadcast hub into the API module
	// (done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(broadcastModule.GetHub())

	// Register modules. Order: core domain first, then consumers, then
	// the driving adapter.
	for _, module := range []mono.Module{
		tutorModule,
		gameModule,
		chatModule,
		progressModule,
		broadcastModule,
		apiModule,
	} {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Architecture:")
	log.Println("  - HTTP Framework: Fiber with WebSocket support")
	log.Println("  - Event Bus: NATS JetStream (internal pubsub)")
	log.Println("  - Progress store: Redis (REDIS_ADDR) or in-memory fallback")
	log.Println("  - Content generation: TUTOR_BASE_URL or offline fallbacks")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET /health                    - Health check")
	log.Println("  GET /api/v1/rooms              - List practice rooms")
	log.Println("  GET /api/v1/rooms/:id          - Get room state")
	log.Println("  GET /api/v1/chat/history       - Get chat log")
	log.Println("  GET /api/v1/progress/:user_id  - Get a user's XP")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws?user=u1&name=Ana&track=es-en):", port)
	log.Println("  Inbound:  join, answer, hint, peer_hint, chat_join, chat")
	log.Println("  Outbound: room_updated, hint, round_success, chat_message, chat_history")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
