// Package realtime difunde eventos de cambio de inventario a los clientes
// conectados por websocket. Sustituye el canal socket.io del sistema original:
// el frontend escucha y recarga las vistas afectadas.
package realtime

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Ensure Hub implements ledger.EventPublisher.
var _ ledger.EventPublisher = (*Hub)(nil)

// Hub mantiene el conjunto de conexiones websocket activas. Publish es best-effort:
// un cliente caído se descarta y no afecta ni a los demás ni a la transacción que
// originó el evento.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *logger.Logger
}

// NewHub construye el hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{}), log: log}
}

// Handler devuelve el handler fiber para la ruta websocket (/ws). Registra la
// conexión y la mantiene hasta que el cliente cierre o falle la lectura.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.register(c)
		defer h.unregister(c)
		for {
			// Solo se escribe hacia el cliente; el read loop detecta la desconexión.
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// Upgrade middleware que rechaza con 426 las peticiones que no son websocket.
func (h *Hub) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Publish envía el evento a todos los clientes conectados. Los errores de escritura
// solo desconectan al cliente afectado.
func (h *Hub) Publish(event ledger.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteJSON(event); err != nil {
			h.log.Debug().Err(err).Msg("cliente websocket desconectado durante publish")
			_ = c.Close()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Msg("cliente websocket conectado")
}

func (h *Hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Close()
}
