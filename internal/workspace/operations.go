package workspace

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/plenarlens/server/internal/agent/analysis"
	"github.com/plenarlens/server/internal/agent/conversations"
	"github.com/plenarlens/server/internal/agent/model"
	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/cache"
	"github.com/plenarlens/server/internal/credentials"
	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

// Operation kinds used for the in-flight guard.
const (
	opSummary = "summary"
	opDeep    = "deep"
)

func flightKey(id, op string) string {
	return id + "|" + op
}

// Summary returns the cached summary of the selected document or computes
// it. Failures yield analysis.SummaryUnavailable, which is never cached.
func (w *Workspace) Summary(ctx context.Context) (string, error) {
	doc, token, err := w.current()
	if err != nil {
		return "", err
	}
	if e, ok := w.cache.Get(doc.ID); ok && e.Summary != nil {
		return *e.Summary, nil
	}

	ch := w.inflight.DoChan(flightKey(doc.ID, opSummary), func() (any, error) {
		ctx, cancel := w.sharedContext(ctx)
		defer cancel()

		clients, err := w.modelClients(ctx)
		if err != nil {
			return nil, err
		}
		text, err := w.analysis.TrySummarize(ctx, clients, doc)
		if err != nil {
			return nil, err
		}
		w.cache.Merge(doc.ID, cache.Summary(text))
		return text, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	logx.Debug().Str("doc_id", doc.ID).Bool("shared", res.Shared).Msg("summary requested")

	if !w.isCurrent(token) {
		return "", ErrStale
	}
	if res.Err != nil {
		logx.Warn().Err(res.Err).Str("doc_id", doc.ID).Msg("summary unavailable")
		return analysis.SummaryUnavailable, nil
	}
	return res.Val.(string), nil
}

// DeepAnalysis returns the cached deep analysis of the selected document or
// computes it. Unlike Summary, failures are returned.
func (w *Workspace) DeepAnalysis(ctx context.Context) (*cache.DeepAnalysis, error) {
	doc, token, err := w.current()
	if err != nil {
		return nil, err
	}
	if e, ok := w.cache.Get(doc.ID); ok && e.Deep != nil {
		return e.Deep, nil
	}

	ch := w.inflight.DoChan(flightKey(doc.ID, opDeep), func() (any, error) {
		ctx, cancel := w.sharedContext(ctx)
		defer cancel()

		clients, err := w.modelClients(ctx)
		if err != nil {
			return nil, err
		}
		res, err := w.analysis.DeepAnalyze(ctx, clients, doc)
		if err != nil {
			return nil, err
		}
		w.cache.Merge(doc.ID, cache.Deep(*res))
		return *res, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	if !w.isCurrent(token) {
		return nil, ErrStale
	}
	if res.Err != nil {
		return nil, res.Err
	}
	deep := res.Val.(cache.DeepAnalysis)
	return &deep, nil
}

// sharedContext detaches a shared call from the caller that happened to
// start it, so its cancellation does not fail the other waiters. The
// analysis timeout still applies.
func (w *Workspace) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), w.analysis.Config().Timeout)
}

// Ask submits a chat turn about the selected document.
func (w *Workspace) Ask(ctx context.Context, text string) (model.Turn, error) {
	s, token, err := w.session()
	if err != nil {
		return model.Turn{}, err
	}
	turn, err := s.Submit(ctx, text)
	if errors.Is(err, conversations.ErrStale) || !w.isCurrent(token) {
		return model.Turn{}, ErrStale
	}
	return turn, err
}

// Conversation returns the turns of the active chat session.
func (w *Workspace) Conversation() []model.Turn {
	if s := w.chats.Active(); s != nil {
		return s.Turns()
	}
	return nil
}

// VerifyReport is the joined result of checking both keys.
type VerifyReport struct {
	DocumentsOK      bool
	DocumentsMessage string
	Model            analysis.KeyStatus
}

// Verify checks candidate keys without saving them. The document API
// check and the model check are independent.
func (w *Workspace) Verify(ctx context.Context, keys credentials.Keys) VerifyReport {
	var (
		report VerifyReport
		g      errgroup.Group
	)
	cfg := w.analysis.Config()

	g.Go(func() error {
		ctx, cancel := context.WithTimeout(ctx, cfg.VerifyTimeout)
		defer cancel()
		if keys.Bundestag == "" {
			report.DocumentsMessage = errx.UserMessage(errx.Credential(bundestag.CredentialName))
			return nil
		}
		if err := w.docs.Verify(ctx, keys.Bundestag, cfg.VerifyPeriod); err != nil {
			report.DocumentsMessage = errx.UserMessage(err)
			return nil
		}
		report.DocumentsOK = true
		return nil
	})
	g.Go(func() error {
		report.Model = w.analysis.VerifyKey(ctx, w.dial, keys.Gemini)
		return nil
	})
	_ = g.Wait()
	return report
}

// SaveKeys persists keys and makes them current.
func (w *Workspace) SaveKeys(ctx context.Context, keys credentials.Keys) error {
	return w.keys.Save(ctx, keys)
}
