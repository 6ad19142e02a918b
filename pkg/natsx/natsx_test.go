package natsx

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunServerAndConnect(t *testing.T) {
	ns, err := RunServer("127.0.0.1", -1)
	require.NoError(t, err)
	t.Cleanup(ns.Shutdown)

	nc, err := NewClient(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	sub, err := nc.SubscribeSync("ping")
	require.NoError(t, err)
	require.NoError(t, nc.Publish("ping", []byte("pong")))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(msg.Data))
}

func TestNewClient_CustomOptions(t *testing.T) {
	ns, err := RunServer("127.0.0.1", -1)
	require.NoError(t, err)
	t.Cleanup(ns.Shutdown)

	nc, err := NewClient(ns.ClientURL(), nats.Name("custom"))
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	assert.Equal(t, "custom", nc.Opts.Name)
}
