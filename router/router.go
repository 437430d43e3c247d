package router

import (
	"database/sql"
	"net/http"

	cardHandler "notewall/internal/card"
	"notewall/internal/card/repository"
	"notewall/internal/card/service"
	"notewall/middleware"
	"notewall/socket"
)

func Setup(db *sql.DB, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	// WebSocket
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(string)
		socket.ServeWs(hub, w, r, userID)
	})
	mux.Handle("/ws", middleware.AuthMiddleware(wsHandler))

	// REST API
	cardRepo := repository.NewCardRepository(db)
	cardService := service.NewCardService(cardRepo, hub)
	cardHandler := cardHandler.NewCardHandler(cardService)
	auth := middleware.AuthMiddleware

	mux.Handle("/api/cards", auth(http.HandlerFunc(cardHandler.ListCards)))
	mux.Handle("/api/cards/create", auth(http.HandlerFunc(cardHandler.CreateCard)))
	mux.Handle("/api/cards/position", auth(http.HandlerFunc(cardHandler.MoveCard)))
	mux.Handle("/api/cards/delete", auth(http.HandlerFunc(cardHandler.DeleteCard)))
	mux.Handle("/api/cards/clear", auth(http.HandlerFunc(cardHandler.ClearWall)))

	// Identity and health are reachable without a token: clients need them
	// before they have one.
	mux.Handle("/api/identity", http.HandlerFunc(middleware.IssueIdentityToken))
	mux.Handle("/api/health", http.HandlerFunc(cardHandler.Health))

	return middleware.CORSMiddleware(mux)
}
