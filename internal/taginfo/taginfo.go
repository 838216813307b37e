package taginfo

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rvkinc/presetutils/internal/fetch"
	"github.com/rvkinc/presetutils/internal/preset"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL             string        `yaml:"base_url"`
	PageSize            int           `yaml:"page_size"`
	KeysPageSize        int           `yaml:"keys_page_size"`
	MinCount            int           `yaml:"min_count"`
	UseWiki             bool          `yaml:"use_wiki"`
	Throttle            time.Duration `yaml:"throttle"`
	CombinationThrottle time.Duration `yaml:"combination_throttle"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:             "https://taginfo.openstreetmap.org/api/4",
		PageSize:            20,
		KeysPageSize:        25,
		MinCount:            1,
		UseWiki:             true,
		Throttle:            time.Second,
		CombinationThrottle: 500 * time.Millisecond,
	}
}

// keys iD allows upper case values for
var canHaveUppercase = regexp.MustCompile(`network|taxon|genus|species|brand|grape_variety|rating|:output|_hours|_times|royal_cypher`)

// CanHaveUppercase reports whether values of key are allowed upper case
// letters without the field asking for it.
func CanHaveUppercase(key string) bool {
	return canHaveUppercase.MatchString(key)
}

// Error is returned for every failed round trip. The statistics service is
// an external dependency: callers treat it as fatal.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("taginfo %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Client queries the taginfo statistics API. Each call waits a fixed delay
// before the request so that a long run does not hammer the service.
type Client struct {
	config  *Config
	fetcher fetch.Fetcher
	l       *zap.Logger
	sleep   func(context.Context, time.Duration) error
}

func New(c *Config, f fetch.Fetcher, l *zap.Logger) *Client {
	if c == nil {
		c = DefaultConfig()
	}

	return &Client{
		config:  c,
		fetcher: f,
		l:       l,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ValuesQuery selects the values of one key.
type ValuesQuery struct {
	Key string
	// Filter is "", "nodes", "ways" or "relations".
	Filter string
	// MinCount is the usage a value needs unless it is documented in the wiki.
	MinCount int
	// PageSize limits the result, 0 fetches all values.
	PageSize int
	// UseWiki accepts any value documented in the wiki.
	UseWiki bool
	// AllowUppercase keeps values with upper case letters and the
	// characters "*=?".
	AllowUppercase bool
}

// Values returns the most used values of key, most frequent first, keeping
// only values iD would offer itself. filter is "", "nodes", "ways" or
// "relations". caseSensitive keeps upper case values for keys that are not
// known to need them.
func (c *Client) Values(ctx context.Context, key, filter string, caseSensitive bool) ([]preset.ValueAndDescription, error) {
	return c.Query(ctx, ValuesQuery{
		Key:            key,
		Filter:         filter,
		MinCount:       c.config.MinCount,
		PageSize:       c.config.PageSize,
		UseWiki:        c.config.UseWiki,
		AllowUppercase: caseSensitive || CanHaveUppercase(key),
	})
}

// Query returns the values of q.Key, most frequent first.
func (c *Client) Query(ctx context.Context, vq ValuesQuery) ([]preset.ValueAndDescription, error) {
	q := url.Values{}
	sort := "count_all"
	if vq.Filter != "" {
		q.Set("filter", vq.Filter)
		sort = "count_" + vq.Filter
	}
	q.Set("key", vq.Key)
	if vq.PageSize > 0 {
		q.Set("page", "1")
		q.Set("rp", strconv.Itoa(vq.PageSize))
	}
	q.Set("sortname", sort)
	q.Set("sortorder", "desc")

	data, err := c.get(ctx, "key values", "/key/values", q, c.config.Throttle)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []preset.ValueAndDescription
	data.ForEach(func(_, row gjson.Result) bool {
		value := strings.TrimSpace(row.Get("value").String())
		count := int(row.Get("count").Int())
		fraction := row.Get("fraction").Float()
		inWiki := row.Get("in_wiki").Bool()

		if value == "" || seen[value] {
			return true
		}
		if !((inWiki && vq.UseWiki) || (count >= vq.MinCount && fraction > 0)) {
			return true
		}
		if !acceptableValue(value, vq.AllowUppercase) {
			c.l.Debug("skip taginfo value", zap.String("key", vq.Key), zap.String("value", value))
			return true
		}
		seen[value] = true
		out = append(out, preset.ValueAndDescription{Value: value, Count: count})
		return true
	})

	return out, nil
}

func acceptableValue(v string, allowUppercase bool) bool {
	if !allowUppercase && (v != strings.ToLower(v) || strings.ContainsAny(v, "*=;?")) {
		return false
	}
	for _, r := range v {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return !strings.ContainsAny(v, ";,")
}

// Keys returns the suffixes of keys starting with prefix, for example
// "fuel:" yields "diesel", "lpg", ... Suffixes with a further ":" level are
// dropped.
func (c *Client) Keys(ctx context.Context, prefix string) ([]preset.ValueAndDescription, error) {
	q := url.Values{}
	q.Set("query", prefix)
	q.Set("sortname", "count_all")
	q.Set("sortorder", "desc")
	if c.config.KeysPageSize > 0 {
		q.Set("page", "1")
		q.Set("rp", strconv.Itoa(c.config.KeysPageSize))
	}

	data, err := c.get(ctx, "keys", "/keys/all", q, c.config.Throttle)
	if err != nil {
		return nil, err
	}

	var out []preset.ValueAndDescription
	data.ForEach(func(_, row gjson.Result) bool {
		key := strings.TrimSpace(row.Get("key").String())
		suffix := strings.TrimPrefix(key, prefix)
		if suffix == key || suffix == "" || strings.Contains(suffix, ":") {
			return true
		}
		out = append(out, preset.ValueAndDescription{Value: suffix, Count: int(row.Get("count_all").Int())})
		return true
	})

	return out, nil
}

// TagCount returns how often key=value is used on all element types.
func (c *Client) TagCount(ctx context.Context, key, value string) (int, error) {
	q := url.Values{}
	q.Set("key", key)
	q.Set("value", value)

	data, err := c.get(ctx, "tag stats", "/tag/stats", q, c.config.Throttle)
	if err != nil {
		return 0, err
	}

	count := 0
	data.ForEach(func(_, row gjson.Result) bool {
		if row.Get("type").String() == "all" {
			count = int(row.Get("count").Int())
			return false
		}
		return true
	})

	return count, nil
}

// Combinations returns keys used together with key at least minCount times,
// most frequent combination first.
func (c *Client) Combinations(ctx context.Context, key, filter string, minCount int) ([]preset.ValueAndDescription, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	q.Set("key", key)
	q.Set("sortname", "together_count")
	q.Set("sortorder", "desc")

	data, err := c.get(ctx, "key combinations", "/key/combinations", q, c.config.CombinationThrottle)
	if err != nil {
		return nil, err
	}

	var out []preset.ValueAndDescription
	data.ForEach(func(_, row gjson.Result) bool {
		together := int(row.Get("together_count").Int())
		other := strings.TrimSpace(row.Get("other_key").String())
		if other != "" && together >= minCount {
			out = append(out, preset.ValueAndDescription{Value: other, Count: together})
		}
		return true
	})

	return out, nil
}

// get performs one throttled call and returns the "data" array of the
// response. Other top level members are ignored.
func (c *Client) get(ctx context.Context, op, path string, q url.Values, delay time.Duration) (gjson.Result, error) {
	if err := c.sleep(ctx, delay); err != nil {
		return gjson.Result{}, &Error{Op: op, Err: err}
	}

	u := strings.TrimRight(c.config.BaseURL, "/") + path + "?" + q.Encode()
	c.l.Debug("taginfo request", zap.String("url", u))

	body, err := c.fetcher.Get(ctx, u)
	if err != nil {
		return gjson.Result{}, &Error{Op: op, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &Error{Op: op, Err: fmt.Errorf("invalid json from %s", u)}
	}

	return gjson.GetBytes(body, "data"), nil
}
