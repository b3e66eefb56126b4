package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultCacheSize      = 1024
	defaultCacheTTL       = 10 * time.Minute
)

// Client talks to the Codeforces API. user.status is never cached: a
// challenge is claimed right after the accepted submission lands, so the
// caller always needs the latest list. Ratings and user info only change
// after rated rounds and are cached for a short while.
type Client struct {
	baseUrl        *url.URL
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         *logrus.Entry
	infoCache      *expirable.LRU[string, User]
	ratingCache    *expirable.LRU[string, []RatingChange]
}

// Judge is what the services need from the judge. *Client implements it.
type Judge interface {
	UserStatus(ctx context.Context, handle string) ([]Submission, error)
	UserRating(ctx context.Context, handle string) ([]RatingChange, error)
	UserInfo(ctx context.Context, handles ...string) ([]User, error)
}

var _ Judge = (*Client)(nil)

type Option func(*Client)

func WithHttpClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.infoCache = expirable.NewLRU[string, User](defaultCacheSize, nil, ttl)
		c.ratingCache = expirable.NewLRU[string, []RatingChange](defaultCacheSize, nil, ttl)
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

func NewClient(apiUrl string, opts ...Option) (*Client, error) {
	if apiUrl == "" {
		apiUrl = DefaultApiUrl
	}
	if !strings.HasSuffix(apiUrl, "/") {
		apiUrl += "/"
	}
	parsedUrl, err := url.Parse(apiUrl)
	if err != nil {
		return nil, fmt.Errorf("%w, cannot parse codeforces api url %s: %w", tle_errors.ErrInternal, apiUrl, err)
	}

	c := &Client{
		baseUrl:        parsedUrl,
		httpClient:     http.DefaultClient,
		requestTimeout: defaultRequestTimeout,
		logger:         logrus.WithField("from", "codeforces-client"),
		infoCache:      expirable.NewLRU[string, User](defaultCacheSize, nil, defaultCacheTTL),
		ratingCache:    expirable.NewLRU[string, []RatingChange](defaultCacheSize, nil, defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UserStatus returns every submission of the handle, newest first.
func (c *Client) UserStatus(ctx context.Context, handle string) ([]Submission, error) {
	params := url.Values{}
	params.Add("handle", handle)
	return query[[]Submission](ctx, c, "user.status", params)
}

// UserRating returns the rating history of the handle.
func (c *Client) UserRating(ctx context.Context, handle string) ([]RatingChange, error) {
	key := strings.ToLower(handle)
	if changes, ok := c.ratingCache.Get(key); ok {
		return changes, nil
	}

	params := url.Values{}
	params.Add("handle", handle)
	changes, err := query[[]RatingChange](ctx, c, "user.rating", params)
	if err != nil {
		return nil, err
	}
	c.ratingCache.Add(key, changes)
	return changes, nil
}

// UserInfo returns the users for the given handles in request order.
func (c *Client) UserInfo(ctx context.Context, handles ...string) ([]User, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	// collect handles missing from the cache
	missing := make([]string, 0)
	for _, h := range handles {
		if _, ok := c.infoCache.Get(strings.ToLower(h)); !ok {
			missing = append(missing, h)
		}
	}

	if len(missing) > 0 {
		params := url.Values{}
		params.Add("handles", strings.Join(missing, ";"))
		users, err := query[[]User](ctx, c, "user.info", params)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			c.infoCache.Add(strings.ToLower(u.Handle), u)
		}
		// handles can be renamed on codeforces, keep the requested key too
		if len(users) == len(missing) {
			for i, h := range missing {
				c.infoCache.Add(strings.ToLower(h), users[i])
			}
		}
	}

	res := make([]User, 0, len(handles))
	for _, h := range handles {
		u, ok := c.infoCache.Get(strings.ToLower(h))
		if !ok {
			err := fmt.Errorf("%w, user.info did not return handle %s", tle_errors.ErrHttpResponse, h)
			c.logger.Error(err)
			return nil, err
		}
		res = append(res, u)
	}
	return res, nil
}

// Problemset returns every problem of the public problemset.
func (c *Client) Problemset(ctx context.Context) ([]Problem, error) {
	res, err := query[struct {
		Problems []Problem `json:"problems"`
	}](ctx, c, "problemset.problems", url.Values{})
	if err != nil {
		return nil, err
	}
	return res.Problems, nil
}

// Contests returns the regular contest list, gyms excluded.
func (c *Client) Contests(ctx context.Context) ([]Contest, error) {
	params := url.Values{}
	params.Add("gym", "false")
	return query[[]Contest](ctx, c, "contest.list", params)
}

func query[T any](
	ctx context.Context,
	c *Client,
	method string,
	params url.Values,
) (T, error) {
	var zero T

	methodUrl := c.baseUrl.JoinPath(method)
	methodUrl.RawQuery = params.Encode()

	// avoid indefinite wait on the judge
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, methodUrl.String(), nil)
	if err != nil {
		err = fmt.Errorf("%w, failed to create http request with ctx: %w", tle_errors.ErrInternal, err)
		c.logger.Error(err)
		return zero, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		// could be a timeout from the context or a network issue
		err = fmt.Errorf(
			"%w, failed to get response from %v: %w",
			tle_errors.ErrHttpResponse, method, err,
		)
		c.logger.Error(err)
		return zero, err
	}
	defer res.Body.Close()
	c.logger.Debugf("recieved response from %v", method)

	var resJson struct {
		Status  string `json:"status"`
		Result  T      `json:"result"`
		Comment string `json:"comment"`
	}

	if err = json.NewDecoder(res.Body).Decode(&resJson); err != nil {
		err = fmt.Errorf(
			"%w, cannot decode %v response (http %d): %w",
			tle_errors.ErrHttpResponse,
			method,
			res.StatusCode,
			err,
		)
		c.logger.Error(err)
		return zero, err
	}

	if resJson.Status == "FAILED" {
		// codeforces answers unknown handles with FAILED and a comment
		if strings.Contains(resJson.Comment, "not found") {
			return zero, fmt.Errorf("%w, %s", tle_errors.ErrNotFound, resJson.Comment)
		}
		err = fmt.Errorf(
			"%w, %v returned FAILED status, %s",
			tle_errors.ErrHttpResponse,
			method,
			resJson.Comment,
		)
		c.logger.Error(err)
		return zero, err
	} else if resJson.Status != "OK" {
		err = fmt.Errorf(
			"%w, %v response status is not \"OK\"",
			tle_errors.ErrHttpResponse,
			method,
		)
		c.logger.WithField("status", resJson.Status).Error(err)
		return zero, err
	}

	return resJson.Result, nil
}
