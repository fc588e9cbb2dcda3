package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client maintains candle series over a broker WebSocket feed. It implements
// repository.CandleFeed: the engine reads snapshots while Run keeps the store
// current in the background.
type Client struct {
	apiKey         string
	websocketURL   string
	instruments    []string
	timeframes     []domrepo.Timeframe
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	store     *store
	conn      *websocket.Conn
	connected bool
}

// New creates a candle feed client. Nothing is dialed until Connect.
func New(apiKey, websocketURL string, instruments []string, timeframes []domrepo.Timeframe, reconnectDelay, pingInterval time.Duration, log *logger.Logger) *Client {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		instruments:    instruments,
		timeframes:     timeframes,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
		store:          newStore(),
	}
}

// Series implements repository.CandleFeed.
func (c *Client) Series(instrument string, tf domrepo.Timeframe) *models.CandleSeries {
	return c.store.Series(instrument, tf)
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("feed connected", logger.String("url", c.websocketURL))
	return nil
}

// Subscribe requests candle streams for every configured instrument and
// timeframe. On subscribe the server sends a history backfill frame first,
// then incremental updates.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	for _, inst := range c.instruments {
		for _, tf := range c.timeframes {
			msg := map[string]string{"type": "subscribe", "instrument": inst, "timeframe": string(tf)}
			if err := c.conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("subscribe %s %s: %w", inst, tf, err)
			}
			c.log.Debug("feed subscribed", logger.String("instrument", inst), logger.String("timeframe", string(tf)))
		}
	}
	return nil
}

type wsBar struct {
	T int64   `json:"t"` // ms
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

type wsMessage struct {
	Type       string  `json:"type"`
	Instrument string  `json:"instrument"`
	Timeframe  string  `json:"timeframe"`
	Bars       []wsBar `json:"bars"`
}

// Run reads candle frames into the store until ctx is cancelled, reconnecting
// after read failures. It blocks and is meant to run in its own goroutine.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	if err := c.Subscribe(ctx); err != nil {
		return err
	}

	go c.pingLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return c.Close()
		default:
		}

		if err := c.readFrame(); err != nil {
			if ctx.Err() != nil {
				return c.Close()
			}
			c.log.Warn("feed read failed, reconnecting", logger.Error(err))
			if err := c.Reconnect(ctx); err != nil {
				c.log.Error("feed reconnect failed", logger.Error(err))
			}
		}
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.conn != nil {
				_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (c *Client) readFrame() error {
	if c.conn == nil {
		return fmt.Errorf("feed conn nil")
	}
	_, b, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("feed read: %w", err)
	}

	var m wsMessage
	if err := json.Unmarshal(b, &m); err != nil {
		// ignore non-candle frames
		return nil
	}
	if m.Type != "candles" || len(m.Bars) == 0 {
		return nil
	}

	bars := make([]models.Candle, len(m.Bars))
	for i, bar := range m.Bars {
		bars[i] = models.Candle{
			Time:   time.UnixMilli(bar.T).UTC(),
			Open:   bar.O,
			High:   bar.H,
			Low:    bar.L,
			Close:  bar.C,
			Volume: bar.V,
		}
	}
	c.store.apply(m.Instrument, m.Timeframe, bars)
	return nil
}

// Reconnect closes and reconnects, then resubscribes.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.reconnectDelay):
	}

	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates connection status.
func (c *Client) IsConnected() bool { return c.connected }
