package handlers

import (
	"sync"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/objectstore"
	"github.com/akolanti/DocGateway/internal/query"
	"github.com/akolanti/DocGateway/internal/tracker"
	"github.com/akolanti/DocGateway/internal/trigger"
	"github.com/akolanti/DocGateway/internal/upload"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

var (
	handlerInstance *GatewayHandler //private singleton
	once            sync.Once
	logGH           *logger_i.Logger
	logRH           *logger_i.Logger
)

type GatewayHandler struct {
	upload  upload.Service
	tracker *tracker.Service
	query   query.Service
	trigger *trigger.Service
	engine  engine.Engine
	jobs    docModel.JobStore
	objects objectstore.ObjectStore
}

type ServiceSet struct {
	Upload  upload.Service
	Tracker *tracker.Service
	Query   query.Service
	Trigger *trigger.Service
	Engine  engine.Engine
	Jobs    docModel.JobStore
	Objects objectstore.ObjectStore
}

func InitGatewayHandler(services ServiceSet) {
	once.Do(func() {
		handlerInstance = &GatewayHandler{
			upload:  services.Upload,
			tracker: services.Tracker,
			query:   services.Query,
			trigger: services.Trigger,
			engine:  services.Engine,
			jobs:    services.Jobs,
			objects: services.Objects,
		}

		logGH = logger_i.NewLogger("GatewayHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logGH.Info("Starting gateway handler")
	})
}
