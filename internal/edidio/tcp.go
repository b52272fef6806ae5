package edidio

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const writeTimeout = 2 * time.Second

// TCPClient is a deliberately thin transport: it dials the controller and
// writes frames in order. It does not parse responses, retry, or reconnect
// in the background; a failed send drops the connection and the next send
// dials again.
type TCPClient struct {
	logger *log.Logger
	addr   string

	mu   sync.Mutex
	conn net.Conn
}

func NewTCPClient(logger *log.Logger, host string, port int) *TCPClient {
	return &TCPClient{
		logger: logger,
		addr:   fmt.Sprintf("%s:%d", host, port),
	}
}

// Connect dials the controller. Safe to call at startup and ignore the
// error; SendSequence dials lazily when there is no connection.
func (c *TCPClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *TCPClient) connectLocked() error {
	conn, err := net.DialTimeout("tcp", c.addr, writeTimeout)
	if err != nil {
		return fmt.Errorf("%w: dialling %s: %v", ErrConnection, c.addr, err)
	}
	c.conn = conn
	c.logger.Info("Connected to eDIDIO controller", "addr", c.addr)
	return nil
}

func (c *TCPClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SendSequence writes each message's frame in order over the single
// connection. The mutex serialises sequences from different lights so
// messages of one sequence are never interleaved with another's.
func (c *TCPClient) SendSequence(ctx context.Context, msgs []Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(); err != nil {
			return err
		}
	}

	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCommunication, err)
		}

		data, err := msg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("%w: encoding message %d: %v", ErrCommunication, msg.MessageID(), err)
		}

		deadline := time.Now().Add(writeTimeout)
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
		_ = c.conn.SetWriteDeadline(deadline)

		if _, err := c.conn.Write(data); err != nil {
			c.dropLocked()
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return fmt.Errorf("%w: writing message %d: %v", ErrTimeout, msg.MessageID(), err)
			}
			return fmt.Errorf("%w: writing message %d: %v", ErrCommunication, msg.MessageID(), err)
		}
	}

	return nil
}

func (c *TCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *TCPClient) dropLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
