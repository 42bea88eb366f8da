// Package resilience groups the fault tolerance patterns used for every
// external call: news sources, inference endpoints and article pages.
//
// The subpackages provide:
//   - circuitbreaker: gobreaker wrappers with per-endpoint presets
//   - retry: exponential backoff with optional jitter and injectable sleep
//
// Hosted inference calls are only retried, and their attempt cap is the
// whole policy; NewsAPI is called once. Feeds, article pages, LLM APIs and
// the local model also sit behind a breaker, and retry wraps it so an open
// circuit ends the retry loop immediately:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    items, err := circuitbreaker.Run(cb, func() ([]FeedItem, error) {
//	        return fetchFeed(ctx, url)
//	    })
//	    ...
//	})
package resilience
