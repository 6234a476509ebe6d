package hunt

import (
	"testing"
	"time"

	"github.com/lakbayapp/lakbay-backend/internal/model"
)

func finishedProgress(h *model.Hunt, points int, completed int) *model.Progress {
	p := model.NewProgress("user-1", h.ID, time.Now())
	p.TotalPoints = points
	for i := 0; i < completed; i++ {
		p.CompletedClueIDs = append(p.CompletedClueIDs, h.Clues[i].ID)
	}
	p.Status = model.ProgressStatusCompleted
	return p
}

func TestCalculateRewards(t *testing.T) {
	h := testHunt()

	tests := []struct {
		name      string
		points    int
		completed int
		wantKinds []model.RewardKind
	}{
		{
			name:   "badge and stamp at full completion over threshold",
			points: 265, completed: 4,
			wantKinds: []model.RewardKind{model.RewardKindBadge, model.RewardKindStamp, model.RewardKindPoints},
		},
		{
			name:   "exactly at badge threshold",
			points: 200, completed: 4,
			wantKinds: []model.RewardKind{model.RewardKindBadge, model.RewardKindStamp, model.RewardKindPoints},
		},
		{
			name:   "below threshold still earns the stamp",
			points: 120, completed: 4,
			wantKinds: []model.RewardKind{model.RewardKindStamp, model.RewardKindPoints},
		},
		{
			name:   "partial completion over threshold earns no stamp",
			points: 210, completed: 3,
			wantKinds: []model.RewardKind{model.RewardKindBadge, model.RewardKindPoints},
		},
		{
			name:   "minimum outcome is the points reward",
			points: 0, completed: 0,
			wantKinds: []model.RewardKind{model.RewardKindPoints},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := finishedProgress(h, tt.points, tt.completed)
			rewards := CalculateRewards(p, h)

			if len(rewards) != len(tt.wantKinds) {
				t.Fatalf("rewards = %+v, want kinds %v", rewards, tt.wantKinds)
			}
			for i, kind := range tt.wantKinds {
				if rewards[i].Kind != kind {
					t.Errorf("reward[%d].Kind = %s, want %s", i, rewards[i].Kind, kind)
				}
			}

			// The points reward always carries the final score.
			last := rewards[len(rewards)-1]
			if last.Points != tt.points {
				t.Errorf("points reward = %d, want %d", last.Points, tt.points)
			}
		})
	}
}

func TestCalculateRewardsNames(t *testing.T) {
	h := testHunt()
	p := finishedProgress(h, 265, 4)

	rewards := CalculateRewards(p, h)
	if rewards[0].Name != ExplorerBadgeName {
		t.Errorf("badge name = %q, want %q", rewards[0].Name, ExplorerBadgeName)
	}
	if rewards[1].Name != CollectorStampName {
		t.Errorf("stamp name = %q, want %q", rewards[1].Name, CollectorStampName)
	}
}

func TestCalculateRewardsDeterministic(t *testing.T) {
	h := testHunt()
	p := finishedProgress(h, 265, 4)

	a := CalculateRewards(p, h)
	b := CalculateRewards(p, h)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("reward[%d] differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
