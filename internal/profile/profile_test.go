package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validProfile() *Profile {
	return &Profile{
		Mode:   "dev",
		Addr:   "",
		Port:   8230,
		Driver: "memory",
	}
}

func TestValidateDefaults(t *testing.T) {
	p := validProfile()
	p.Mode = "staging"

	require.NoError(t, p.Validate())
	require.Equal(t, "dev", p.Mode)
	require.True(t, p.IsDev())
	require.Equal(t, 15*time.Second, p.AITimeout)
	require.Equal(t, 3, p.AIMaxRetries)
}

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		p := validProfile()
		p.Port = port
		require.Error(t, p.Validate(), "port %d", port)
	}
}

func TestValidateDriver(t *testing.T) {
	p := validProfile()
	p.Driver = "redis"
	require.Error(t, p.Validate(), "redis driver without an address")

	p.RedisAddr = "localhost:6379"
	require.NoError(t, p.Validate())

	p = validProfile()
	p.Driver = "postgres"
	require.Error(t, p.Validate())
}

func TestValidateRejectsNegativeSessionTTL(t *testing.T) {
	p := validProfile()
	p.SessionTTL = -time.Minute
	require.Error(t, p.Validate())
}

func TestListenAddr(t *testing.T) {
	p := &Profile{Addr: "127.0.0.1", Port: 8230}
	require.Equal(t, "127.0.0.1:8230", p.ListenAddr())
}
