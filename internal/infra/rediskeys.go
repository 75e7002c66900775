package infra

import (
	"fmt"
	"strings"
)

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "complitic"
)

// Ключи кэша
const (
	RedisKeyDashboardStats = RedisNamespace + ":dashboard:stats"
	// Распределенная блокировка прогрева, чтобы кэш заполнял один инстанс
	RedisKeyDashboardWarmupLock = RedisNamespace + ":dashboard:warmup_lock"
)

// Каналы Pub/Sub (события)
const (
	RedisChanDocumentSaved   = RedisNamespace + ":documents:saved"
	RedisChanDocumentDeleted = RedisNamespace + ":documents:deleted"
)

// DocumentEventPayload — формат сообщения в канале документов "user_id:document_id:template_slug".
func DocumentEventPayload(userID, documentID, slug string) string {
	return fmt.Sprintf("%s:%s:%s", userID, documentID, slug)
}

// ParseDocumentEventPayload разбирает сообщение из канала документов.
func ParseDocumentEventPayload(payload string) (userID, documentID, slug string, ok bool) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
