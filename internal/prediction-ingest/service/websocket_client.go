package service

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FeedClient consome um feed WebSocket de um provedor e delega cada mensagem
// bruta ao Handle. O mesmo cliente atende o feed de previsões e o de cotações;
// só o handler muda.
type FeedClient struct {
	URL    string
	Name   string // identifica o feed nos logs ("predictions", "odds")
	Log    *zap.Logger
	Handle func(ctx context.Context, raw []byte) error
}

// Start inicia o loop de conexão e escuta do WebSocket.
// Em caso de desconexão, reconecta automaticamente após uma pausa curta.
func (c *FeedClient) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("context canceled, stopping WS client", zap.String("feed", c.Name))
			return
		default:
			if err := c.connectAndListen(ctx); err != nil {
				c.Log.Warn("connection closed", zap.String("feed", c.Name), zap.Error(err))
				time.Sleep(3 * time.Second)
			}
		}
	}
}

// connectAndListen estabelece a conexão WebSocket e processa as mensagens.
// Mensagem rejeitada pelo handler não derruba a conexão.
func (c *FeedClient) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("connected to provider WS", zap.String("feed", c.Name), zap.String("url", c.URL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.Error("read message failed", zap.String("feed", c.Name), zap.Error(err))
			return err
		}

		if err := c.Handle(ctx, message); err != nil {
			c.Log.Warn("message dropped", zap.String("feed", c.Name), zap.Error(err))
		}
	}
}
