package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newsdigest/app/archive"
	"newsdigest/app/config"
	"newsdigest/app/database"
	"newsdigest/app/pipeline"
	"newsdigest/app/tasks"
)

func NewHandler(sourceConfigs map[string]*config.SourceConfig, stores map[string]*archive.Store,
	pipelines map[string]*pipeline.Pipeline, runRepo *database.RunRepository,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sourceConfigs: sourceConfigs,
		stores:        stores,
		pipelines:     pipelines,
		runRepo:       runRepo,
		scheduler:     scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if runCount, err := h.runRepo.GetRunCount(); err == nil {
		health["runs"] = runCount
	}

	health["loaded_sources"] = len(h.sourceConfigs)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	names := make([]string, 0, len(h.sourceConfigs))
	for name := range h.sourceConfigs {
		names = append(names, name)
	}
	sort.Strings(names)

	sources := make([]map[string]interface{}, 0, len(names))

	for _, name := range names {
		sourceConfig := h.sourceConfigs[name]

		info := map[string]interface{}{
			"name":    name,
			"enabled": sourceConfig.Settings.Enabled,
		}

		store, hasStore := h.stores[name]
		p, hasPipeline := h.pipelines[name]
		if hasStore && hasPipeline {
			if records, err := store.Load(); err == nil {
				partition := archive.PartitionByAge(records, p.ReferenceDate(time.Now()))
				info["archived"] = len(partition.Retained())
				info["today"] = len(partition.Today)
				info["this_week"] = len(partition.ThisWeek)
			} else {
				slog.Error("Failed to load article store", "source", name, "error", err)
				info["error"] = err.Error()
			}
		}

		sources = append(sources, info)
	}

	stats := map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	}

	if runs, err := h.runRepo.GetRecentRuns(1); err == nil && len(runs) > 0 {
		stats["last_run"] = runInfo(runs[0])
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetLatestDigest(c *gin.Context) {
	path, err := h.runRepo.GetLatestDigestPath()
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_digest", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No digest compiled yet"})
		return
	}

	if _, err := os.Stat(path); err != nil {
		slog.Error("Digest file missing", "path", path, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Digest file no longer exists"})
		return
	}

	c.Header("Content-Type", "application/epub+zip")
	c.FileAttachment(path, filepath.Base(path))
}

func (h *Handler) APIListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	runs, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		out = append(out, runInfo(run))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  out,
		"total": len(out),
	})
}

func (h *Handler) APIGetRunErrors(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing run ID parameter"})
		return
	}

	run, err := h.runRepo.GetRun(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	runErrors, err := h.runRepo.GetRunErrors(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run_errors", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]map[string]interface{}, 0, len(runErrors))
	for _, e := range runErrors {
		out = append(out, map[string]interface{}{
			"url":     e.URL,
			"stage":   e.Stage,
			"message": e.Message,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"run":    runInfo(*run),
		"errors": out,
		"total":  len(out),
	})
}

func (h *Handler) APITriggerRun(c *gin.Context) {
	name := c.Query("source")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source parameter"})
		return
	}

	if _, ok := h.sourceConfigs[name]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	p, ok := h.pipelines[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	// Manual triggers bypass the schedule, so disabled sources can be
	// run on demand.
	task := tasks.NewCompileDigestTask(name, p, h.runRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing compile task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue compile task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Compile task enqueued successfully",
		"source":  name,
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func runInfo(run database.Run) map[string]interface{} {
	info := map[string]interface{}{
		"id":             run.ID,
		"source":         run.Source,
		"reference_date": run.ReferenceDate,
		"status":         run.Status,
		"started_at":     run.StartedAt,
		"discovered":     run.Discovered,
		"extracted":      run.Extracted,
		"failed":         run.Failed,
		"added":          run.Added,
		"superseded":     run.Superseded,
		"expired":        run.Expired,
		"archived":       run.Archived,
	}

	if run.FinishedAt != nil {
		info["finished_at"] = run.FinishedAt
	}
	if run.DigestPath != "" {
		info["digest_path"] = run.DigestPath
	}
	if run.Error != "" {
		info["error"] = run.Error
	}

	return info
}
