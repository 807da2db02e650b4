package achievements

import (
	"fmt"
	"time"

	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/storage"
)

// Recompute re-derives achievement progress from the owner's stored history
// and records any newly earned unlocks. Every surface that writes a completion
// or outreach entry calls this right after the write, so a threshold crossed
// near the end of a week or month is recorded while that period is still the
// current one. Recording is idempotent, so recomputing over unchanged history
// is a no-op.
func Recompute(store storage.Provider, catalog []models.Achievement, ownerID string, now time.Time, loc *time.Location) (Result, error) {
	history, err := store.GetCompletions(ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get completion history: %w", err)
	}
	outreach, err := store.GetOutreachEntries(ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get outreach entries: %w", err)
	}
	recorded, err := store.GetUserAchievements(ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get recorded unlocks: %w", err)
	}

	result := New(catalog).Compute(history, outreach, recorded, now, loc)

	for _, ua := range result.Unlocks {
		ua.OwnerID = ownerID
		if err := store.RecordAchievementUnlock(ua); err != nil {
			return result, fmt.Errorf("failed to record unlock %s: %w", ua.AchievementID, err)
		}
	}
	return result, nil
}
