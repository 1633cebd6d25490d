package falcon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// QueryIDs runs the list phase of q and returns the page of identifiers.
// Sort and filter are sent only when the family supports them. A 200 with
// an empty or absent resources array yields an empty IDList.
func (c *Client) QueryIDs(ctx context.Context, token domain.Token, q domain.ResourceQuery) (domain.IDList, error) {
	ep, err := EndpointFor(q.Family)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("offset", strconv.Itoa(q.Page.Offset))
	params.Set("limit", strconv.Itoa(q.Page.Limit))
	if ep.SupportsSort && q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if ep.SupportsFilter && q.Filter != "" {
		params.Set("filter", q.Filter)
	}

	resp, err := c.transport.do(ctx, &request{
		Method: http.MethodGet,
		Path:   ep.ListPath,
		Query:  params,
		Token:  token,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newRequestError(http.MethodGet, ep.ListPath, resp)
	}

	body, err := decodeResources[string](resp)
	if err != nil {
		return nil, err
	}

	if p := body.Meta.Pagination; p != nil {
		logger.L(ctx).Debug("list page",
			"family", q.Family.String(),
			"offset", p.Offset,
			"limit", p.Limit,
			"total", p.Total,
		)
	}

	return domain.IDList(body.Resources), nil
}

// GetEntities runs the hydrate phase for ids. Devices are fetched with GET
// and repeated ids query parameters; every other family POSTs {"ids":[...]}.
func (c *Client) GetEntities(ctx context.Context, token domain.Token, family domain.Family, ids domain.IDList) ([]json.RawMessage, error) {
	ep, err := EndpointFor(family)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("hydrate requires at least one id")
	}

	req := &request{
		Method: ep.HydrateMethod,
		Path:   ep.HydratePath,
		Token:  token,
	}
	if ep.HydrateMethod == http.MethodGet {
		req.Query = url.Values{"ids": append([]string(nil), ids...)}
	} else {
		req.JSON = idsBody{IDs: ids}
	}

	resp, err := c.transport.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newRequestError(ep.HydrateMethod, ep.HydratePath, resp)
	}

	body, err := decodeResources[json.RawMessage](resp)
	if err != nil {
		return nil, err
	}
	return body.Resources, nil
}

type idsBody struct {
	IDs []string `json:"ids"`
}
