package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// EventHandler 定义 WS 消息事件回调
type EventHandler interface {
	OnOpen(c *Client)
	OnMessage(c *Client, msgType int, msg []byte)
	OnError(c *Client, err error)
	OnClose(c *Client)
}

// Client 通用 WebSocket 客户端：读写各一个 goroutine，写走缓冲队列
type Client struct {
	conn      *websocket.Conn
	handler   EventHandler
	ctx       context.Context
	cancel    context.CancelFunc
	writeCh   chan message
	closeOnce sync.Once
}

type message struct {
	msgType int
	data    []byte
}

// Dial 建立连接并启动读写循环；ctx 取消时连接随之关闭
func Dial(ctx context.Context, url string, header http.Header, handler EventHandler) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	cctx, cancel := context.WithCancel(ctx)
	c := &Client{
		conn:    conn,
		handler: handler,
		ctx:     cctx,
		cancel:  cancel,
		writeCh: make(chan message, 100), // 缓冲写队列
	}

	handler.OnOpen(c)

	go c.readLoop()
	go c.writeLoop()

	return c, nil
}

// readLoop 持续读取消息
func (c *Client) readLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			msgType, msg, err := c.conn.ReadMessage()
			if err != nil {
				c.handler.OnError(c, err)
				c.Close()
				return
			}
			c.handler.OnMessage(c, msgType, msg)
		}
	}
}

// writeLoop 持续写消息
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-c.writeCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(msg.msgType, msg.data); err != nil {
				c.handler.OnError(c, err)
				c.Close()
				return
			}
		}
	}
}

func (c *Client) send(msgType int, data []byte) {
	select {
	case c.writeCh <- message{msgType: msgType, data: data}:
	case <-c.ctx.Done():
	}
}

func (c *Client) SendText(data []byte) {
	c.send(websocket.TextMessage, data)
}

func (c *Client) SendBinary(data []byte) {
	c.send(websocket.BinaryMessage, data)
}

// Close 优雅关闭连接，确保只关闭一次
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			c.conn.Close()
		}
		c.handler.OnClose(c)
	})
}
