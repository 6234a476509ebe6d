package model

import (
	"time"

	"github.com/google/uuid"
)

// RewardKind enumerates reward variants.
type RewardKind string

const (
	RewardKindBadge  RewardKind = "badge"
	RewardKindStamp  RewardKind = "stamp"
	RewardKindPoints RewardKind = "points"
)

// Reward is a badge, stamp, or point total granted when a hunt completes.
type Reward struct {
	Kind   RewardKind `json:"kind"`
	Name   string     `json:"name,omitempty"`
	Points int        `json:"points,omitempty"`
}

// GrantedReward is a persisted reward attributed to a user.
type GrantedReward struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	HuntID    uuid.UUID  `json:"hunt_id"`
	Kind      RewardKind `json:"kind"`
	Name      string     `json:"name,omitempty"`
	Points    int        `json:"points,omitempty"`
	AwardedAt time.Time  `json:"awarded_at"`
}
