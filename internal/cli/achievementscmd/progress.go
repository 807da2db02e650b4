package achievementscmd

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
)

type ProgressCmd struct {
	Unlocked bool `help:"Show only unlocked achievements."`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	result, err := ctx.RecomputeAchievements(ownerID)
	if err != nil {
		return err
	}

	recorded, err := ctx.Store.GetUserAchievements(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get recorded unlocks: %w", err)
	}
	unlocked := make(map[string]bool, len(recorded))
	for _, ua := range recorded {
		unlocked[ua.AchievementID+"|"+ua.PeriodKey] = true
	}

	fmt.Println("Achievements:")
	for _, p := range result.Progress {
		isUnlocked := unlocked[p.AchievementID+"|"+p.PeriodKey]
		if c.Unlocked && !isUnlocked {
			continue
		}

		title := p.AchievementID
		xp := 0
		for _, a := range ctx.Catalog {
			if a.ID == p.AchievementID {
				title = a.Title
				xp = a.RewardXP
			}
		}

		mark := " "
		if isUnlocked {
			mark = "🏆"
		}
		fmt.Printf("  %s %-20s %s: %d/%d (+%d XP)\n", mark, title, p.PeriodKey, p.Current, p.Target, xp)
	}

	if len(result.Unlocks) > 0 {
		fmt.Printf("\n%d new unlock(s) this pass!\n", len(result.Unlocks))
	}
	return nil
}
