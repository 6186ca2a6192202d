package domain

import (
	"errors"
	"time"
)

// Barista represents a staff member preparing orders at a branch.
type Barista struct {
	ID             int
	Name           string
	BranchID       string
	Status         BaristaStatus
	LastSeen       time.Time
	OrdersPrepared int
	CreatedAt      time.Time
}

type BaristaStatus string

const (
	BaristaStatusOnline  BaristaStatus = "online"
	BaristaStatusOffline BaristaStatus = "offline"
)

func NewBarista(name, branchID string) (*Barista, error) {
	if name == "" {
		return nil, errors.New("barista name is required")
	}

	return &Barista{
		Name:      name,
		BranchID:  branchID,
		Status:    BaristaStatusOnline,
		LastSeen:  time.Now(),
		CreatedAt: time.Now(),
	}, nil
}

// UpdateHeartbeat refreshes the last seen timestamp.
func (b *Barista) UpdateHeartbeat() {
	b.LastSeen = time.Now()
	b.Status = BaristaStatusOnline
}

func (b *Barista) SetOffline() {
	b.Status = BaristaStatusOffline
}

// IsOnline checks the barista against the heartbeat timeout.
func (b *Barista) IsOnline(heartbeatTimeout time.Duration) bool {
	if b.Status == BaristaStatusOffline {
		return false
	}
	return time.Since(b.LastSeen) <= heartbeatTimeout
}
