package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskGenerateArticle = "article:generate"
	TaskAutoPublish     = "pipeline:auto_publish"
	TaskGenerateAhead   = "pipeline:generate_ahead"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueGenerateArticle enqueues a content generation task for the given
// article ID. Generation failures are surfaced on the article itself, so the
// task does not retry at the queue level.
func EnqueueGenerateArticle(articleID uint) error {
	payload, err := json.Marshal(map[string]uint{
		"article_id": articleID,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskGenerateArticle,
		payload,
		asynq.MaxRetry(0),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)

	_, err = client.Enqueue(task)
	return err
}
