package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/internal/testutil"
)

type fixture struct {
	db   *gorm.DB
	repo *repo.GormRepo
	cat  models.Category
	book models.Product
	lamp models.Product
}

// newEnv seeds one category with a 19.99 book (stock 10) and a 100.00 lamp (stock 5).
func newEnv(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	cat := testutil.Category(t, db, "Home")
	return &fixture{
		db:   db,
		repo: repo.New(db),
		cat:  cat,
		book: testutil.Product(t, db, cat.ID, "Cookbook", "19.99", 10),
		lamp: testutil.Product(t, db, cat.ID, "Desk lamp", "100.00", 5),
	}
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeIndexer struct {
	indexed []uint
	ids     []uint
	err     error
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.ids)), f.ids, nil
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }
