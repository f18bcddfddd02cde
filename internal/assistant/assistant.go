// Package assistant runs one chat turn end to end: snapshot assembly,
// instruction building, and the provider call.
//
// The two error tiers meet here. Snapshot assembly is tolerant: a degraded
// or Unavailable snapshot still produces a chat turn. The provider call is
// strict: its failure fails the turn and is surfaced to the caller.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/config"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/finance"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/money"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/prompt"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/provider"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/snapshot"
)

// Assistant answers chat requests.
type Assistant struct {
	client    *provider.GeminiClient
	snapshots *snapshot.Builder
	cfg       *config.Config
	log       *zap.Logger

	// Now is a test hook; nil means time.Now.
	Now func() time.Time
}

// Request is one chat turn.
type Request struct {
	User               finance.User
	Family             finance.Family
	Prompt             string
	Model              string
	PreviousResponseID string
	Streamer           provider.Streamer
}

// New creates an Assistant.
func New(client *provider.GeminiClient, snapshots *snapshot.Builder, cfg *config.Config, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{client: client, snapshots: snapshots, cfg: cfg, log: log}
}

// Respond runs one chat turn and returns the normalized response.
func (a *Assistant) Respond(ctx context.Context, req Request) (*provider.ChatResponse, error) {
	snap := a.snapshots.Build(ctx, req.User, req.Family)
	if snap == snapshot.Unavailable {
		a.log.Warn("responding with degraded snapshot", zap.String("family", req.Family.ID))
	}

	chatCfg, err := prompt.BuildChatConfig(prompt.Context{
		UserName:      req.User.FirstName,
		Country:       req.Family.Country,
		Currency:      money.NewFormatter(req.Family.Currency).Preferences(),
		DateFormat:    req.User.DateFormat,
		DefaultPeriod: req.User.DefaultPeriodKey,
		Snapshot:      snap,
		Today:         a.now(),
	})
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = a.cfg.Model()
	}
	if model == "" {
		model = provider.DefaultModel
	}

	return a.client.ChatResponse(ctx, provider.ChatRequest{
		Prompt:             req.Prompt,
		Model:              model,
		Instructions:       chatCfg.Instructions,
		Functions:          chatCfg.Functions,
		PreviousResponseID: req.PreviousResponseID,
		Streamer:           req.Streamer,
	})
}

func (a *Assistant) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
