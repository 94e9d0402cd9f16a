package brandmeister

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"bmzone/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the BrandMeister API. Name lookups are rate limited to
// stay within the service's informal expectations.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	nameLimiter *rate.Limiter
}

// NewClient builds a client from the API configuration.
func NewClient(cfg config.APIConfig) *Client {
	perSec := cfg.NameLookupsPerSec
	if perSec <= 0 {
		perSec = 5
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		nameLimiter: rate.NewLimiter(rate.Limit(perSec), 1),
	}
}

// DeviceList returns every repeater known to the network. The raw payload is
// cached at cachePath; an existing cache is reused unless force is set.
// A fetch or decode failure here is fatal for the whole run.
func (c *Client) DeviceList(ctx context.Context, cachePath string, force bool) ([]Device, error) {
	result, err := c.fetchDeviceFile(ctx, cachePath, force)
	if err != nil {
		return nil, err
	}
	if result.Status == statusUpdated {
		log.WithFields(log.Fields{
			"url":   c.baseURL + "/device",
			"bytes": humanize.Bytes(uint64(result.Bytes)),
		}).Info("device list downloaded")
	} else {
		log.WithField("path", cachePath).Info("using cached device list")
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("brandmeister: read device cache: %w", err)
	}
	var devices []Device
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("brandmeister: decode device list: %w", err)
	}
	return devices, nil
}

// DeviceTalkgroups returns the (talkgroup, slot) assignments for a repeater.
// Entries without a slot are excluded. Pairs are ordered by (slot, talkgroup)
// so repeated runs emit channels in a stable order.
func (c *Client) DeviceTalkgroups(ctx context.Context, id DeviceID) ([]TalkgroupPair, error) {
	url := fmt.Sprintf("%s/device/%s/talkgroup", c.baseURL, id)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("brandmeister: talkgroups for device %s: %w", id, err)
	}
	var raw []rawTalkgroupEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("brandmeister: decode talkgroups for device %s: %w", id, err)
	}
	pairs := make([]TalkgroupPair, 0, len(raw))
	for _, entry := range raw {
		if entry.Slot == nil || entry.Talkgroup == 0 {
			continue
		}
		slot := int(*entry.Slot)
		if slot != 1 && slot != 2 {
			continue
		}
		pairs = append(pairs, TalkgroupPair{Talkgroup: int64(entry.Talkgroup), Slot: slot})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Slot != pairs[j].Slot {
			return pairs[i].Slot < pairs[j].Slot
		}
		return pairs[i].Talkgroup < pairs[j].Talkgroup
	})
	return pairs, nil
}

// TalkgroupName resolves the display name for a talkgroup ID. An empty name
// with a nil error means the service has no name on record.
func (c *Client) TalkgroupName(ctx context.Context, id int64) (string, error) {
	if err := c.nameLimiter.Wait(ctx); err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/talkgroup/%s", c.baseURL, strconv.FormatInt(id, 10))
	body, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("brandmeister: talkgroup %d: %w", id, err)
	}
	var detail talkgroupDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return "", fmt.Errorf("brandmeister: decode talkgroup %d: %w", id, err)
	}
	return detail.Name, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch failed: status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
