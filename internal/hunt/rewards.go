package hunt

import (
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// Fixed reward rules. Not configurable at runtime.
const (
	ExplorerBadgeThreshold = 200
	ExplorerBadgeName      = "Explorer"
	CollectorStampName     = "Heritage Collector"
)

// CalculateRewards derives the rewards for a finished attempt. Pure function
// of final progress and the hunt. The returned order — badges, stamps, then
// points — is a display contract and must stay stable.
func CalculateRewards(p *model.Progress, h *model.Hunt) []model.Reward {
	var rewards []model.Reward

	if p.TotalPoints >= ExplorerBadgeThreshold {
		rewards = append(rewards, model.Reward{Kind: model.RewardKindBadge, Name: ExplorerBadgeName})
	}
	if len(p.CompletedClueIDs) == len(h.Clues) {
		rewards = append(rewards, model.Reward{Kind: model.RewardKindStamp, Name: CollectorStampName})
	}
	rewards = append(rewards, model.Reward{Kind: model.RewardKindPoints, Points: p.TotalPoints})

	return rewards
}
