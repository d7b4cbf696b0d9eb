package jobs

import (
	"strings"
	"sync"

	"github.com/qianyuchang/chefnote/database"
	"github.com/qianyuchang/chefnote/llm"
	"github.com/qianyuchang/chefnote/logger"
	"github.com/qianyuchang/chefnote/models"
)

// ImageJob represents a job to optimize the cover image of a recipe.
type ImageJob struct {
	RecipeID string
	Model    string
}

// ImageWorker optimizes oversized cover images in the background so create
// and update requests stay fast.
type ImageWorker struct {
	jobs        chan ImageJob
	llmClient   *llm.Client
	subscribers map[chan ImageUpdate]bool
	subMux      sync.RWMutex
}

// ImageUpdate is sent to SSE subscribers when a cover image has been replaced.
type ImageUpdate struct {
	RecipeID   string `json:"recipe_id"`
	CoverImage string `json:"cover_image"`
}

var (
	worker     *ImageWorker
	workerOnce sync.Once
)

// GetWorker returns the singleton ImageWorker instance
func GetWorker() *ImageWorker {
	workerOnce.Do(func() {
		worker = &ImageWorker{
			jobs:        make(chan ImageJob, 100),
			llmClient:   llm.NewClient(),
			subscribers: make(map[chan ImageUpdate]bool),
		}
		go worker.run()
		logger.Info("Image worker started")
	})
	return worker
}

// rawDataURIThreshold is the cover-image size above which a recipe is worth
// optimizing. Uncompressed phone captures arrive as multi-megabyte data URIs.
const rawDataURIThreshold = 256 * 1024

// NeedsOptimization reports whether a cover image should be queued.
func NeedsOptimization(coverImage string) bool {
	return strings.HasPrefix(coverImage, "data:") && len(coverImage) > rawDataURIThreshold
}

// Enqueue adds an image job to the queue
func (w *ImageWorker) Enqueue(recipeID, model string) {
	select {
	case w.jobs <- ImageJob{RecipeID: recipeID, Model: model}:
		logger.Info("Image job enqueued", "recipe_id", recipeID)
	default:
		logger.Warn("Image job queue full, dropping job", "recipe_id", recipeID)
	}
}

// Subscribe registers a channel to receive image updates
func (w *ImageWorker) Subscribe(ch chan ImageUpdate) {
	w.subMux.Lock()
	defer w.subMux.Unlock()
	w.subscribers[ch] = true
}

// Unsubscribe removes a channel from image updates
func (w *ImageWorker) Unsubscribe(ch chan ImageUpdate) {
	w.subMux.Lock()
	defer w.subMux.Unlock()
	delete(w.subscribers, ch)
	close(ch)
}

// run processes jobs from the queue
func (w *ImageWorker) run() {
	for job := range w.jobs {
		w.processJob(job)
	}
}

func (w *ImageWorker) processJob(job ImageJob) {
	logger.Info("Processing image job", "recipe_id", job.RecipeID)

	var recipe models.Recipe
	if err := database.DB.First(&recipe, "id = ?", job.RecipeID).Error; err != nil {
		logger.Error("Failed to fetch recipe for image job", "recipe_id", job.RecipeID, "error", err)
		return
	}

	// The user may have replaced the image while the job sat in the queue.
	if !NeedsOptimization(recipe.CoverImage) {
		logger.Info("Cover image no longer needs optimization, skipping", "recipe_id", job.RecipeID)
		return
	}

	optimized, err := w.llmClient.OptimizeImage(job.Model, recipe.CoverImage)
	if err != nil {
		logger.Warn("Failed to optimize cover image", "recipe_id", job.RecipeID, "error", err)
		return
	}

	recipe.CoverImage = optimized
	if err := database.DB.Save(&recipe).Error; err != nil {
		logger.Error("Failed to save optimized cover image", "recipe_id", job.RecipeID, "error", err)
		return
	}

	logger.Info("Cover image optimized", "recipe_id", job.RecipeID, "size", len(optimized))

	update := ImageUpdate{
		RecipeID:   recipe.ID,
		CoverImage: recipe.CoverImage,
	}

	w.subMux.RLock()
	for ch := range w.subscribers {
		select {
		case ch <- update:
		default:
			// Drop update if subscriber is slow
		}
	}
	w.subMux.RUnlock()
}
