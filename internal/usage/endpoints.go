// Package usage transforms sparse usage snapshots from the metering
// service into dense, chart-ready series. Every function here is pure:
// no I/O, no shared state, fresh outputs on every call.
package usage

// Known endpoint identifiers as reported by the metering service. The
// set has grown over time and must stay open: unknown identifiers are
// still counted into totals, they just get no named chart series.
const (
	EndpointTweet       = "/tweet"
	EndpointUser        = "/user"
	EndpointCommunity   = "/community"
	EndpointFollows     = "/follows"
	EndpointCommunities = "/communities"
)

var shortNames = map[string]string{
	EndpointTweet:       "tweet",
	EndpointUser:        "user",
	EndpointCommunity:   "community",
	EndpointFollows:     "follows",
	EndpointCommunities: "communities",
}

// KnownEndpoints returns the endpoint identifiers with named chart
// series, in display order.
func KnownEndpoints() []string {
	return []string{
		EndpointTweet,
		EndpointUser,
		EndpointCommunity,
		EndpointFollows,
		EndpointCommunities,
	}
}

// ShortName maps an endpoint identifier to its chart series name.
// The second return is false for identifiers without a named series.
func ShortName(endpointID string) (string, bool) {
	name, ok := shortNames[endpointID]
	return name, ok
}
