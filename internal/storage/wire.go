package storage

// Query service methods as they appear in the HTTP path
// /api/orm/{model}/{method}.
const (
	MethodSearchCount = "search_count"
	MethodReadGroup   = "read_group"
	MethodSearchRead  = "search_read"
)

// QueryRequest is the JSON body of a query service call. Each method reads
// the parts it needs.
type QueryRequest struct {
	Domain  Domain   `json:"domain,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	GroupBy []string `json:"groupby,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
	Order   string   `json:"order,omitempty"`
}

// CountResponse is the body returned by search_count.
type CountResponse struct {
	Count int `json:"count"`
}
