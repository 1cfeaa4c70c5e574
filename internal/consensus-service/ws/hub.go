package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// MatchID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	MatchID string `json:"matchId"` // requerido em subscribe/unsubscribe
}

// RecommendationUpdate é a atualização enviada aos clientes inscritos.
// Espelha o formato publicado pelo worker no Redis Pub/Sub.
type RecommendationUpdate struct {
	MatchID string      `json:"matchId"`
	Payload interface{} `json:"payload"`
}

// Hub gerencia conexões WebSocket e assinaturas de recomendações por partida
// subs: mapeia matchID para o conjunto de conexões inscritas
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// matchID -> set of connections
	subs map[string]map[*websocket.Conn]struct{}
	// serializa escritas nas conexões: gorilla/websocket não suporta
	// writers concorrentes na mesma conexão
	writeMu sync.Mutex
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*websocket.Conn]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe em partidas e responde a pings
// Cada cliente pode se inscrever em múltiplos matchIDs
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.MatchID]; !ok {
				h.subs[msg.MatchID] = make(map[*websocket.Conn]struct{})
			}
			h.subs[msg.MatchID][conn] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.MatchID]; ok {
				delete(m, conn)
				if len(m) == 0 {
					delete(h.subs, msg.MatchID)
				}
			}
			h.mu.Unlock()
		case "ping":
			h.writeMu.Lock()
			_ = conn.WriteJSON(map[string]string{"type": "pong"})
			h.writeMu.Unlock()
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, conn)
	}
	h.mu.Unlock()
}

// Broadcast envia uma atualização para todos os clientes inscritos na partida.
// O conjunto de inscritos é copiado sob o lock: iterar o mapa direto corre
// contra subscribe/unsubscribe de outras conexões.
func (h *Hub) Broadcast(update RecommendationUpdate) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[update.MatchID]))
	for c := range h.subs[update.MatchID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, c := range conns {
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}
