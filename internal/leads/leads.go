package leads

import (
	"context"
	"log/slog"

	"voicehub/internal/calls"
)

// Lead is the slice of the sales lead owned elsewhere that matching needs.
// The pipeline never writes lead rows; scoring goes through Scorer.
type Lead struct {
	ID      string `json:"id"`
	AgentID string `json:"agent_id"`
	Phone   string `json:"phone"`
	Score   int    `json:"score"`
}

// Repository finds candidate leads for a call.
type Repository interface {
	FindByAgentAndPhone(ctx context.Context, agentID, phone string) ([]Lead, error)
}

// Scorer is the external scoring capability.
type Scorer interface {
	Score(ctx context.Context, lead Lead, call calls.CallRecord) error
}

// Adapter matches a call to an existing lead and triggers scoring.
// Best-effort enrichment: zero or ambiguous matches are silent no-ops and
// errors are returned only so the channel boundary can log them.
type Adapter struct {
	repo   Repository
	scorer Scorer
	log    *slog.Logger
}

func NewAdapter(repo Repository, scorer Scorer, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{repo: repo, scorer: scorer, log: log}
}

// ScoreCall looks up a lead by (agent, caller phone) and scores it when the
// match is unambiguous.
func (a *Adapter) ScoreCall(ctx context.Context, call calls.CallRecord) error {
	if a.repo == nil || a.scorer == nil {
		return nil
	}
	phone := call.CallerPhoneNumber()
	if phone == "" || call.AgentID == "" {
		return nil
	}

	matches, err := a.repo.FindByAgentAndPhone(ctx, call.AgentID, phone)
	if err != nil {
		return err
	}
	if len(matches) != 1 {
		if len(matches) > 1 {
			a.log.Debug("lead match ambiguous, skipping scoring",
				"agent_id", call.AgentID, "matches", len(matches))
		}
		return nil
	}
	return a.scorer.Score(ctx, matches[0], call)
}
