package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// HuntDefinitionKey returns the cache key for a hunt's full definition
// (including answer keys) used by the session engine.
func (r *CacheKeyStruct) HuntDefinitionKey(huntID string) string {
	return fmt.Sprintf("hunt:%s:definition", huntID)
}

// HuntPayloadKey returns the cache key for the player-safe hunt payload
// (no correct answer indexes, no hint texts).
func (r *CacheKeyStruct) HuntPayloadKey(huntID string) string {
	return fmt.Sprintf("hunt:%s:payload", huntID)
}

// UserProgressKey returns the cache key for a user's progress on a hunt.
func (r *CacheKeyStruct) UserProgressKey(userID, huntID string) string {
	return fmt.Sprintf("user:%s:hunt:%s:progress", userID, huntID)
}

// LocationFoundKey returns the debounce key marking that the proximity
// announcement for a clue has already been surfaced to the user.
func (r *CacheKeyStruct) LocationFoundKey(userID, huntID, clueID string) string {
	return fmt.Sprintf("user:%s:hunt:%s:clue:%s:found", userID, huntID, clueID)
}

// WatchOwnerKey returns the key holding the connection token of the single
// active location watch for a user's hunt session.
func (r *CacheKeyStruct) WatchOwnerKey(userID, huntID string) string {
	return fmt.Sprintf("user:%s:hunt:%s:watch", userID, huntID)
}

var CacheKey = NewCacheKeyStruct()
