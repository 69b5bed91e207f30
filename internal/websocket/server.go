package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rajivgeraev/bolend-api/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Браузерный клиент подключается с другого origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler возвращает HTTP-обработчик, который проверяет JWT из query-параметра
// token и поднимает WebSocket соединение для уведомлений
func Handler(manager *Manager, jwtService *utils.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := jwtService.ExtractUserID(token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Ошибка апгрейда WebSocket: %v", err)
			return
		}

		client := NewClient(userID, conn, manager)
		client.Start()

		manager.SendToUser(userID, Event{
			Type:      EventConnected,
			UserID:    userID,
			Timestamp: time.Now(),
		})
	}
}

// ListenAndServe запускает отдельный HTTP-сервер для WebSocket соединений
func ListenAndServe(addr string, manager *Manager, jwtService *utils.JWTService) error {
	mux := http.NewServeMux()
	mux.Handle("/api/ws", Handler(manager, jwtService))

	log.Printf("✅ WebSocket сервер запущен на %s", addr)
	return http.ListenAndServe(addr, mux)
}
