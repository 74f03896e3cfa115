package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// answerKeyEntry is the cached slice element for one question's key.
type answerKeyEntry struct {
	QuestionID uint   `json:"question_id"`
	Correct    string `json:"correct"`
}

// AnswerKeyCache keeps quiz answer keys in Redis so repeated grading of the
// same quiz does not re-read the question table. A nil client disables
// caching entirely; every miss or marshal problem falls through to the
// database read.
type AnswerKeyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewAnswerKeyCache constructs the cache wrapper.
func NewAnswerKeyCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *AnswerKeyCache {
	return &AnswerKeyCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "answer_key_cache").Logger(),
	}
}

func answerKeyCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:answer_key:%d", quizID)
}

// Get returns the cached key for the quiz, or ok=false on a miss.
func (c *AnswerKeyCache) Get(ctx context.Context, quizID uint) ([]answerKeyEntry, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	cached, err := c.client.Get(ctx, answerKeyCacheKey(quizID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Uint("quiz_id", quizID).Msg("failed to read answer key cache")
		}
		return nil, false
	}

	var entries []answerKeyEntry
	if err := json.Unmarshal([]byte(cached), &entries); err != nil {
		return nil, false
	}

	return entries, true
}

// Set stores the key for the quiz with the configured TTL.
func (c *AnswerKeyCache) Set(ctx context.Context, quizID uint, entries []answerKeyEntry) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, answerKeyCacheKey(quizID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("quiz_id", quizID).Msg("failed to store answer key cache")
	}
}

// Invalidate drops the cached key after a question or quiz mutation.
func (c *AnswerKeyCache) Invalidate(ctx context.Context, quizID uint) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, answerKeyCacheKey(quizID)).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("quiz_id", quizID).Msg("failed to invalidate answer key cache")
	}
}
