// @title           Document Gateway API
// @version         1.0
// @description     Presigned document uploads, ingestion tracking and knowledge base queries
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/data/store"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/engine/embedding/googleEmbedding"
	"github.com/akolanti/DocGateway/internal/engine/llm"
	"github.com/akolanti/DocGateway/internal/engine/llm/gemini"
	"github.com/akolanti/DocGateway/internal/engine/llm/openaiLLM"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB/qdrantDB"
	"github.com/akolanti/DocGateway/internal/handlers"
	"github.com/akolanti/DocGateway/internal/middleware"
	"github.com/akolanti/DocGateway/internal/objectstore"
	"github.com/akolanti/DocGateway/internal/query"
	"github.com/akolanti/DocGateway/internal/server"
	"github.com/akolanti/DocGateway/internal/taskqueue"
	"github.com/akolanti/DocGateway/internal/tracker"
	"github.com/akolanti/DocGateway/internal/trigger"
	"github.com/akolanti/DocGateway/internal/upload"
	"github.com/akolanti/DocGateway/internal/worker"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

var (
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration, refusing to start", "error", err)
		os.Exit(1)
	}

	//init buffered task channel
	taskChannel := make(chan taskqueue.Task, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//document and job stores with in-memory fallback
	var documentStore docModel.DocumentStore
	var jobStore docModel.JobStore
	redisDocs := store.GetRedisDocumentStore(serviceContext)
	redisJobs := store.GetRedisJobStore(serviceContext)
	if redisDocs == nil || redisJobs == nil {
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		documentStore = store.InitInMemoryDocumentStore()
		jobStore = store.InitInMemoryJobStore()
	} else {
		documentStore = redisDocs
		jobStore = redisJobs
	}

	objects := objectstore.GetMinioStore(serviceContext, cfg)
	vectorIndex := qdrantDB.GetQuadrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, cfg.GeminiAPIKey)

	var llmProvider llm.Provider
	if cfg.LLMProvider == "openai" {
		llmProvider = openaiLLM.GetOpenAIClient(serviceContext, config.OpenAIModelName, cfg.OpenAIAPIKey)
	} else {
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, cfg.GeminiAPIKey)
	}

	if objects == nil || vectorIndex == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "ObjectStore", objects != nil, "VectorDB", vectorIndex != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	knowledgeEngine := engine.NewService(objects, vectorIndex, embeddingService, llmProvider, cfg)

	taskService := taskqueue.InitTaskService(taskqueue.ServiceConfig{
		TaskChannel:       taskChannel,
		DispatcherChannel: dispatcherChannel,
	})

	uploadService := upload.NewService(documentStore, objects, cfg)
	triggerService := trigger.NewService(documentStore, jobStore, knowledgeEngine, taskService, cfg)
	trackerService := tracker.NewService(documentStore, jobStore, knowledgeEngine, objects, triggerService)
	queryService := query.NewService(knowledgeEngine)

	middleware.Init(cfg)
	handlers.InitGatewayHandler(handlers.ServiceSet{
		Upload:  uploadService,
		Tracker: trackerService,
		Query:   queryService,
		Trigger: triggerService,
		Engine:  knowledgeEngine,
		Jobs:    jobStore,
		Objects: objects,
	})

	//init worker pool
	worker.InitServices(taskService, triggerService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//job status polling
	trackerService.StartPolling(serviceContext)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
