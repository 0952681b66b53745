package service

import (
	"context"
	"sync"

	"ai-verification-be/internal/entity"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/internal/repository/contract"
	"ai-verification-be/internal/repository/specification"
	"ai-verification-be/internal/repository/unitofwork"
	"ai-verification-be/pkg/events"
)

type fakeCampaignRepo struct {
	byOnchainID map[string]*entity.Campaign
	err         error
}

func (r *fakeCampaignRepo) Create(_ context.Context, c *entity.Campaign) error {
	r.byOnchainID[c.OnchainCampaignId] = c
	return nil
}

func (r *fakeCampaignRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Campaign, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.ByOnchainCampaignID); ok {
			return r.byOnchainID[s.OnchainCampaignID], nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.byOnchainID)), nil
}

type fakeUnitOfWork struct {
	campaigns contract.CampaignRepository
}

func (u fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u fakeUnitOfWork) Commit() error               { return nil }
func (u fakeUnitOfWork) Rollback() error             { return nil }

func (u fakeUnitOfWork) CampaignRepository() contract.CampaignRepository {
	return u.campaigns
}

type fakeFactory struct {
	repo *fakeCampaignRepo
}

func (f fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return fakeUnitOfWork{campaigns: f.repo}
}

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

var _ logger.ILogger = (*recordingLogger)(nil)

func (l *recordingLogger) add(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, module, message, details})
}

func (l *recordingLogger) Debug(m, msg string, d map[string]interface{}) { l.add("debug", m, msg, d) }
func (l *recordingLogger) Info(m, msg string, d map[string]interface{})  { l.add("info", m, msg, d) }
func (l *recordingLogger) Warn(m, msg string, d map[string]interface{})  { l.add("warn", m, msg, d) }
func (l *recordingLogger) Error(m, msg string, d map[string]interface{}) { l.add("error", m, msg, d) }
func (l *recordingLogger) Sync() error                                   { return nil }

func (l *recordingLogger) Entries() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakeEventPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakeEventPublisher) Published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}
