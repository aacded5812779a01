package model

import (
	"sync"
	"time"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
	now     func() time.Time
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
		now:     time.Now,
	}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.PublicKey == player.PublicKey {
			return errors.ErrAlreadyQueued
		}
	}

	qp := QueuedPlayer{
		Player:   player,
		JoinedAt: q.now(),
	}
	q.players = append(q.players, qp)
	return nil
}

// Contains reports whether publicKey is still waiting.
func (q *Queue) Contains(publicKey string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.PublicKey == publicKey {
			return true
		}
	}
	return false
}

// GetNextPair removes and returns the two players who have waited longest.
// ok is false when fewer than two are queued.
func (q *Queue) GetNextPair() (Player, Player, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return Player{}, Player{}, false
	}
	player1 := q.players[0].Player
	player2 := q.players[1].Player
	q.players = q.players[2:]

	return player1, player2, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}

// MatchFoundEvent tells a queued player which game they were paired into.
type MatchFoundEvent struct {
	GameID   string      `json:"gameId"`
	Color    PlayerColor `json:"color"`
	Opponent string      `json:"opponent"`
}
