package http

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/linkit/relay/internal/logger"
)

const (
	headerRateLimitReset     = "x-ratelimit-reset"
	headerRateLimitRemaining = "x-ratelimit-remaining"
)

// ThrottledTransport follows the rate limit headers answered by each target host.
// Once a host says no call remains, requests to it wait for the announced reset.
type ThrottledTransport struct {
	log          logger.Logger
	wrap         http.RoundTripper
	now          func() time.Time
	mu           sync.Mutex
	resetAt      map[string]time.Time
	ratelimiters map[string]*rate.Limiter
}

func NewThrottledTransport(wrap http.RoundTripper, log logger.Logger) *ThrottledTransport {
	return &ThrottledTransport{
		log:          log,
		wrap:         wrap,
		now:          time.Now,
		ratelimiters: make(map[string]*rate.Limiter),
		resetAt:      make(map[string]time.Time),
	}
}

func (c *ThrottledTransport) getRequestKey(request *http.Request) string {
	return strings.ToLower(request.URL.Host)
}

func (c *ThrottledTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	requestKey := c.getRequestKey(request)
	if requestKey == "" {
		return c.wrap.RoundTrip(request)
	}

	c.mu.Lock()
	resetAt, needToWait := c.resetAt[requestKey]
	limiter := c.ratelimiters[requestKey]
	c.mu.Unlock()

	if needToWait {
		durationToWait := resetAt.Sub(c.now())
		if durationToWait > 0 {
			c.log.WithFields(logrus.Fields{
				"host":            requestKey,
				"seconds_to_wait": durationToWait.Seconds(),
			}).Trace("No calls remaining, waiting to the next reset")
			timer := time.NewTimer(durationToWait)
			select {
			case <-request.Context().Done():
				timer.Stop()
				return nil, request.Context().Err() //nolint:wrapcheck
			case <-timer.C:
			}
		}
	}
	if limiter != nil {
		err := limiter.Wait(request.Context())
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	resp, err := c.wrap.RoundTrip(request)
	if resp != nil {
		c.updateRate(requestKey, resp)
	}
	return resp, err //nolint:wrapcheck
}

func (c *ThrottledTransport) updateRate(requestKey string, resp *http.Response) {
	resetTimestamp, timestampErr := strconv.ParseInt(resp.Header.Get(headerRateLimitReset), 10, 64)
	remainingCalls, remainingCallsErr := strconv.ParseFloat(resp.Header.Get(headerRateLimitRemaining), 64)
	if timestampErr != nil || remainingCallsErr != nil {
		return
	}

	resetDate := time.Unix(resetTimestamp, 0)
	durationUntilReset := resetDate.Sub(c.now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if remainingCalls <= 0 {
		c.resetAt[requestKey] = resetDate
		return
	}
	delete(c.resetAt, requestKey)
	if durationUntilReset <= 0 {
		delete(c.ratelimiters, requestKey)
		return
	}
	newRate := remainingCalls / durationUntilReset.Seconds()
	c.log.WithFields(logrus.Fields{
		"rate":                newRate,
		"host":                requestKey,
		"remaining_calls":     remainingCalls,
		"seconds_until_reset": durationUntilReset.Seconds(),
	}).Trace("updated new rate")
	c.ratelimiters[requestKey] = rate.NewLimiter(rate.Limit(newRate), 1)
}
