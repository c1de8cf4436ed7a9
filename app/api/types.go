package api

import (
	"newsdigest/app/archive"
	"newsdigest/app/config"
	"newsdigest/app/database"
	"newsdigest/app/pipeline"
	"newsdigest/app/tasks"
)

type Handler struct {
	sourceConfigs map[string]*config.SourceConfig
	stores        map[string]*archive.Store
	pipelines     map[string]*pipeline.Pipeline
	runRepo       *database.RunRepository
	scheduler     tasks.TaskSchedulerInterface
}
