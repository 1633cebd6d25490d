package falcon

import (
	"net/http"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// Endpoint describes how one resource family is listed and hydrated.
// All families list with GET; hydration is POST with a JSON ids body,
// except devices which take ids as repeated query parameters on a GET.
type Endpoint struct {
	ListPath       string
	HydrateMethod  string
	HydratePath    string
	SupportsSort   bool
	SupportsFilter bool
}

// Falcon API paths.
const (
	pathOAuthToken        = "/oauth2/token"
	pathDetectsQuery      = "/detects/queries/detects/v1"
	pathDetectsSummaries  = "/detects/entities/summaries/GET/v1"
	pathIncidentsQuery    = "/incidents/queries/incidents/v1"
	pathIncidentsEntities = "/incidents/entities/incidents/GET/v1"
	pathBehaviorsQuery    = "/incidents/queries/behaviors/v1"
	pathBehaviorsEntities = "/incidents/entities/behaviors/GET/v1"
	pathDevicesQuery      = "/devices/queries/devices/v1"
	pathDevicesEntities   = "/devices/entities/devices/v1"
)

// ProbePath is the endpoint used to test a cached token.
const ProbePath = pathDetectsQuery

var endpoints = map[domain.Family]Endpoint{
	domain.FamilyDetection: {
		ListPath:       pathDetectsQuery,
		HydrateMethod:  http.MethodPost,
		HydratePath:    pathDetectsSummaries,
		SupportsSort:   true,
		SupportsFilter: true,
	},
	domain.FamilyIncident: {
		ListPath:       pathIncidentsQuery,
		HydrateMethod:  http.MethodPost,
		HydratePath:    pathIncidentsEntities,
		SupportsSort:   true,
		SupportsFilter: true,
	},
	domain.FamilyBehavior: {
		ListPath:      pathBehaviorsQuery,
		HydrateMethod: http.MethodPost,
		HydratePath:   pathBehaviorsEntities,
	},
	domain.FamilyDevice: {
		ListPath:       pathDevicesQuery,
		HydrateMethod:  http.MethodGet,
		HydratePath:    pathDevicesEntities,
		SupportsFilter: true,
	},
}

// EndpointFor returns the endpoint table entry of a family.
func EndpointFor(f domain.Family) (Endpoint, error) {
	ep, ok := endpoints[f]
	if !ok {
		return Endpoint{}, domain.ErrUnknownFamily.WithDetails(string(f))
	}
	return ep, nil
}
