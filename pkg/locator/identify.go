package locator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/internal/resilience"
)

// IdentifyBuildings issues one identify call on a building layer.
func (c *client) IdentifyBuildings(ctx context.Context, q Query) ([]model.Building, error) {
	body, err := c.identify(ctx, q, -1)
	if err != nil {
		return nil, err
	}

	var buildings []model.Building
	if err := json.Unmarshal(body, &buildings); err != nil {
		return nil, eris.Wrap(err, "locator: parse building response")
	}
	return buildings, nil
}

// IdentifyUnits issues one identify call on a unit layer.
func (c *client) IdentifyUnits(ctx context.Context, q Query) ([]model.Unit, error) {
	body, err := c.identify(ctx, q, -1)
	if err != nil {
		return nil, err
	}

	var units []model.Unit
	if err := json.Unmarshal(body, &units); err != nil {
		return nil, eris.Wrap(err, "locator: parse unit response")
	}
	return units, nil
}

// FetchAllBuildings pages through building results until the service
// returns an empty page, deduplicating by record ID. A page that adds
// no new records also terminates the loop, so a service that ignores
// the page parameter cannot loop forever.
func (c *client) FetchAllBuildings(ctx context.Context, q Query) ([]model.Building, error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if q.Nearest <= 0 {
		q.Nearest = pageSize
	}

	seen := make(map[string]struct{})
	var all []model.Building
	for page := 0; ; page++ {
		body, err := c.identify(ctx, q, page)
		if err != nil {
			return nil, eris.Wrapf(err, "locator: fetch page %d", page)
		}

		var batch []model.Building
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, eris.Wrapf(err, "locator: parse page %d", page)
		}
		if len(batch) == 0 {
			break
		}

		added := 0
		for _, b := range batch {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
			all = append(all, b)
			added++
		}
		if added == 0 {
			break
		}
	}

	return all, nil
}

// identify performs one rate-limited, retried GET against the identify
// endpoint. A page value of -1 omits the page parameter.
func (c *client) identify(ctx context.Context, q Query, page int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "locator: rate limit")
	}

	params := url.Values{
		"layers":      {q.Layers},
		"filters":     {q.Filters},
		"coordinates": {formatCoordinates(q.Lon, q.Lat)},
		"nearest":     {strconv.Itoa(q.Nearest)},
	}
	if q.Associated != "" {
		params.Set("associated", q.Associated)
	}
	if page >= 0 {
		params.Set("page", strconv.Itoa(page))
	}
	reqURL := c.baseURL + "/locations/identify?" + params.Encode()

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "locator: build request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Referer", DefaultReferer)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "locator: identify request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("locator: identify returned status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "locator: read response body")
		}
		return body, nil
	})
}

// formatCoordinates renders the "lon,lat" query value.
func formatCoordinates(lon, lat float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
}
