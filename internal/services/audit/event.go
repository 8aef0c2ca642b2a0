package audit

// Event records one accepted bulk request: when, from where and into which indices.
type Event struct {
	IPAddress string   `json:"ip_address"`
	Indices   []string `json:"indices"`
	Timestamp int64    `json:"ts"`
	Documents int      `json:"documents"`
}
