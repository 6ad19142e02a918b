package natsx

import (
	"github.com/nats-io/nats.go"
)

// NewClient connects to the NATS server at url. Without options the
// connection is named "lynx" and uses compression.
func NewClient(url string, opts ...nats.Option) (*nats.Conn, error) {
	if len(opts) == 0 {
		opts = append(opts, nats.Name("lynx"), nats.Compression(true))
	}
	if url == "" {
		url = nats.DefaultURL
	}
	return nats.Connect(url, opts...)
}
