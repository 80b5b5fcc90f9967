package stream

import (
	"bytes"
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans live tracking payloads (waypoints, notifications) out to
// websocket subscribers, optionally bridged across instances via redis
// pub/sub. Published frames carry the hub's instance id so the bridge
// never re-delivers a broadcast to the instance that originated it.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	ChannelID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(channelID string) *Client {
	client := &Client{
		ChannelID: channelID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[channelID] == nil {
		h.clients[channelID] = map[*Client]struct{}{}
	}
	h.clients[channelID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if channelClients, ok := h.clients[client.ChannelID]; ok {
		delete(channelClients, client)
		if len(channelClients) == 0 {
			delete(h.clients, client.ChannelID)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(channelID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[channelID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		frame := append([]byte(h.id+"|"), payload...)
		err := h.redis.Publish(context.Background(), redisChannel(channelID), frame).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "travique:*:live")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)
		if i := bytes.IndexByte(payload, '|'); i >= 0 {
			// local clients were already served by Broadcast
			if string(payload[:i]) == h.id {
				continue
			}
			payload = payload[i+1:]
		}

		channelID := channelIDFromRedis(msg.Channel)
		h.mu.RLock()
		clients := h.clients[channelID]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

func redisChannel(channelID string) string {
	return "travique:" + channelID + ":live"
}

func channelIDFromRedis(ch string) string {
	// travique:{channel}:live
	const prefix = "travique:"
	const suffix = ":live"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
