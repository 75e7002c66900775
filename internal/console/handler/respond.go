package handler

import (
	"encoding/json"
	"net/http"
)

// writeJSON отдает ответ с нужным статусом. Ошибку энкодера уже некуда вернуть:
// заголовки отправлены.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
