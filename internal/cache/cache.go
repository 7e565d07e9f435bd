// Package cache provides a layered (memory + disk) cache for LLM
// responses and synthesized audio. Completion caching makes repeated
// eval runs against the same model and dataset nearly free.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes arbitrary input into a versioned cache key. The version
// prefix lets a format change invalidate old entries wholesale.
func Key(input string) string {
	hash := sha256.Sum256([]byte(input))
	return "ecotopia:v1:" + hex.EncodeToString(hash[:])
}

// CompletionKey derives the cache key for one chat completion
func CompletionKey(model, systemPrompt, userPrompt string) string {
	return Key("completion\x00" + model + "\x00" + systemPrompt + "\x00" + userPrompt)
}

// AudioKey derives the cache key for one synthesized audio clip
func AudioKey(voice, text string) string {
	return Key("audio\x00" + voice + "\x00" + text)
}
