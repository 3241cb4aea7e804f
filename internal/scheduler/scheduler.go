package scheduler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rcardoso/feedbase/internal/metrics"
	"github.com/rcardoso/feedbase/internal/repo"
)

const checkTimeout = 10 * time.Second

// Checker probes active feed URLs in the background and records the result
// on each feed (last_checked_at / last_check_ok).
type Checker struct {
	Feeds  *repo.FeedRepo
	Client *http.Client
}

func NewChecker(feeds *repo.FeedRepo) *Checker {
	return &Checker{
		Feeds:  feeds,
		Client: &http.Client{Timeout: checkTimeout},
	}
}

// Run starts a cron that checks every active feed at the given interval and
// returns the started cron so callers can Stop it on shutdown. A zero
// interval disables the checker.
func (c *Checker) Run(interval time.Duration) *cron.Cron {
	if interval <= 0 {
		return nil
	}

	cr := cron.New()
	_, err := cr.AddFunc("@every "+interval.String(), func() { c.CheckAll(context.Background()) })
	if err != nil {
		log.Printf("scheduler: invalid interval %s: %v", interval, err)
		return nil
	}
	cr.Start()
	log.Printf("scheduler: feed checker running every %s", interval)
	return cr
}

// CheckAll probes every active feed once.
func (c *Checker) CheckAll(ctx context.Context) {
	feeds, err := c.Feeds.ListActive(ctx)
	if err != nil {
		log.Printf("scheduler: list active feeds: %v", err)
		return
	}

	for _, f := range feeds {
		ok := c.probe(ctx, f.URL)
		if err := c.Feeds.MarkChecked(ctx, f.ID, ok, time.Now().UTC()); err != nil {
			log.Printf("scheduler: mark checked id=%s: %v", f.ID, err)
			continue
		}
		if ok {
			metrics.IncFeedCheck("ok")
		} else {
			metrics.IncFeedCheck("failed")
			log.Printf("scheduler: feed unreachable id=%s url=%s", f.ID, f.URL)
		}
	}
}

func (c *Checker) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}
