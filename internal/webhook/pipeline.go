package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voicehub/internal/actions"
	"voicehub/internal/agents"
	"voicehub/internal/calls"
	"voicehub/internal/dispatch"
	"voicehub/internal/eventlog"
	"voicehub/internal/forwarder"
	"voicehub/internal/provider"
	"voicehub/internal/redact"
)

// AgentConfigFetcher snapshots the provider's live agent configuration.
// Fetch failures are informational; they never fail the event.
type AgentConfigFetcher interface {
	GetAgentConfig(ctx context.Context, providerAgentID string) (provider.AgentConfig, error)
}

// OnceMarker gates side effects that must run at most once per key across
// replays and concurrent deliveries.
type OnceMarker interface {
	MarkOnce(ctx context.Context, key string) (bool, error)
}

// Pipeline runs the per-event-type processing behind the webhook endpoint.
// Every method returns an error only when the tenant's own state could not be
// updated; downstream side effects (forwarding, fan-out channels) degrade to
// log entries instead.
type Pipeline struct {
	Calls     *calls.Service
	EventLog  *eventlog.Service
	Agents    AgentConfigFetcher
	Redaction redact.ConfigReader
	Actions   actions.Reader
	Dispatch  *dispatch.Dispatcher
	Forwarder *forwarder.Forwarder
	Once      OnceMarker
	Log       *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

// HandleStarted creates the in-progress call record, enriched with a
// best-effort snapshot of the provider's agent configuration.
func (p *Pipeline) HandleStarted(ctx context.Context, ev provider.Event, id agents.Identity) error {
	metadata := ev.Call.Metadata
	if p.Agents != nil && ev.Call.AgentID != "" {
		cfg, err := p.Agents.GetAgentConfig(ctx, ev.Call.AgentID)
		if err != nil {
			p.logger().Warn("agent config snapshot unavailable",
				"agent_id", ev.Call.AgentID, "err", err)
		} else {
			if metadata == nil {
				metadata = map[string]any{}
			}
			metadata["agent_config"] = map[string]any{
				"model":          cfg.Model,
				"voice_id":       cfg.VoiceID,
				"denoising_mode": cfg.DenoisingMode,
				"pii_configured": cfg.PIIConfigured,
			}
		}
	}

	_, err := p.Calls.StartCall(ctx, calls.StartParams{
		OrganizationID: id.OrganizationID,
		ClientID:       id.ClientID,
		AgentID:        id.AgentID,
		ProviderCallID: ev.Call.CallID,
		FromNumber:     ev.Call.FromNumber,
		ToNumber:       ev.Call.ToNumber,
		Direction:      ev.Call.Direction,
		StartTimestamp: ev.Call.StartTimestamp,
		Metadata:       metadata,
	})
	return err
}

// HandleEnded completes the call record and forwards the raw payload to the
// tenant's registered endpoints. A never-started call is a tolerated no-op
// for the record; forwarding still runs, since it relays the provider's
// payload verbatim and needs no stored state.
func (p *Pipeline) HandleEnded(ctx context.Context, ev provider.Event, id agents.Identity, rawPayload []byte) error {
	_, err := p.Calls.CompleteCall(ctx, calls.EndParams{
		OrganizationID:      id.OrganizationID,
		ProviderCallID:      ev.Call.CallID,
		StartTimestamp:      ev.Call.StartTimestamp,
		EndTimestamp:        ev.Call.EndTimestamp,
		Transcript:          toDomainTranscript(ev.Call.Transcript),
		RecordingURL:        ev.Call.RecordingURL,
		DisconnectionReason: ev.Call.DisconnectionReason,
		CallType:            ev.Call.CallType,
	})
	if errors.Is(err, calls.ErrNotFound) {
		p.logger().Warn("ended event for unknown call", "call_id", ev.Call.CallID)
		err = nil
	}
	if err != nil {
		return err
	}

	if p.Forwarder != nil {
		result := p.Forwarder.Forward(ctx, id.OrganizationID, id.WebhookURL, rawPayload)
		if result != "" {
			if ferr := p.EventLog.SetForwardingResult(ctx, id.OrganizationID, ev.Call.CallID, string(ev.Event), result); ferr != nil {
				p.logger().Error("recording forwarding result",
					"call_id", ev.Call.CallID, "err", ferr)
			}
		}
	}
	return nil
}

// HandleAnalyzed merges analysis output, applies tenant redaction, and runs
// the post-call fan-out exactly once per call.
func (p *Pipeline) HandleAnalyzed(ctx context.Context, ev provider.Event, id agents.Identity) error {
	params := calls.AnalysisParams{
		OrganizationID: id.OrganizationID,
		ProviderCallID: ev.Call.CallID,
		Transcript:     toDomainTranscript(ev.Call.Transcript),
		RecordingURL:   ev.Call.RecordingURL,
	}
	if an := ev.Call.CallAnalysis; an != nil {
		if an.CallSummary != "" {
			s := an.CallSummary
			params.Summary = &s
		}
		params.Analysis = analysisMap(an)
	}

	rec, err := p.Calls.ApplyAnalysis(ctx, params)
	if err != nil {
		return err
	}

	if p.Redaction != nil && id.ClientID != "" {
		cfg, err := p.Redaction.ForClient(ctx, id.ClientID)
		if err != nil {
			p.logger().Error("loading redaction config", "client_id", id.ClientID, "err", err)
		} else if cfg.Enabled {
			filter, err := redact.NewFilter(cfg)
			if err != nil {
				p.logger().Error("compiling redaction filter", "client_id", id.ClientID, "err", err)
			} else if red, rerr := p.Calls.RedactContent(ctx, id.OrganizationID, ev.Call.CallID, filter); rerr != nil {
				p.logger().Error("redacting call content", "call_id", ev.Call.CallID, "err", rerr)
			} else {
				rec = red
			}
		}
	}

	if p.Once != nil {
		first, err := p.Once.MarkOnce(ctx, "fanout:"+id.OrganizationID+":"+ev.Call.CallID)
		if err != nil {
			// The guard failing open means a replayed event may fan out
			// twice; dropping automations silently would be worse.
			p.logger().Error("fan-out once guard unavailable", "call_id", ev.Call.CallID, "err", err)
		} else if !first {
			p.logger().Info("fan-out already ran for call", "call_id", ev.Call.CallID)
			return nil
		}
	}

	if p.Dispatch == nil {
		return nil
	}

	var acts []actions.Action
	if p.Actions != nil && id.ClientID != "" {
		acts, err = p.Actions.EnabledForClient(ctx, id.ClientID)
		if err != nil {
			return fmt.Errorf("loading post-call actions: %w", err)
		}
	}

	p.Dispatch.Dispatch(ctx, dispatch.Job{
		Call:         rec,
		ClientID:     id.ClientID,
		BusinessName: id.BusinessName,
		Actions:      acts,
	})
	return nil
}

func toDomainTranscript(in []provider.TranscriptEntry) []calls.TranscriptEntry {
	if in == nil {
		return nil
	}
	out := make([]calls.TranscriptEntry, len(in))
	for i, e := range in {
		out[i] = calls.TranscriptEntry{Role: e.Role, Content: e.Content}
	}
	return out
}

// analysisMap flattens the provider analysis block into the stored shape:
// custom analysis keys at the top level, sentiment and success flag alongside.
func analysisMap(an *provider.CallAnalysis) map[string]any {
	out := make(map[string]any, len(an.CustomAnalysisData)+2)
	for k, v := range an.CustomAnalysisData {
		out[k] = v
	}
	if an.UserSentiment != "" {
		out["user_sentiment"] = an.UserSentiment
	}
	if an.CallSuccessful != nil {
		out["call_successful"] = *an.CallSuccessful
	}
	return out
}
