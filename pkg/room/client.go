package room

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets.
// A client is at most one seat-candidate at a time; its ConnectionID is the
// transport identity bound to a seat on join and cleared on disconnect.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// ConnectionID is the server-assigned transport identity
	ConnectionID string

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	lobby *Lobby

	mu     sync.Mutex
	dealer *Dealer
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, lobby *Lobby) *Client {
	return &Client{
		Conn:         conn,
		ConnectionID: uuid.New().String(),
		send:         make(chan interface{}, 256),
		Close:        make(chan string),
		lobby:        lobby,
	}
}

// Send sends a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the connection
func (c *Client) String() string {
	return c.ConnectionID
}

// Dealer returns the dealer the client is currently routed to, if any
func (c *Client) Dealer() *Dealer {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dealer
}

// swapDealer binds the client to a dealer and returns the previous binding
func (c *Client) swapDealer(d *Dealer) *Dealer {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.dealer
	c.dealer = d
	return prev
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if msg.Action == ActionJoinRoom {
		c.lobby.JoinRoom(c, msg)
		return
	}

	dealer := c.Dealer()
	if dealer == nil {
		logrus.WithField("action", msg.Action).Debug("received message, but client has not joined a room")
		return
	}

	dealer.ReceivedMessage(c, msg)
}
