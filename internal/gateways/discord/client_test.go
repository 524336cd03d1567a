package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := upstream("guilds", cause)

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsUpstream(err))
	assert.EqualError(t, err, "discord guilds: dial tcp: connection refused")

	assert.Nil(t, upstream("guilds", nil))
	assert.False(t, IsUpstream(cause))
}

func TestRestClient_Unconfigured(t *testing.T) {
	c := NewRestClient(Config{})
	require.False(t, c.Configured())

	ctx := context.Background()

	_, err := c.Guilds(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = c.Commands(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.BotIdentity(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRestClient_SetToken(t *testing.T) {
	c := NewRestClient(Config{})
	c.SetToken("token")
	defer c.Close(context.Background())

	assert.True(t, c.Configured())
}

func TestToApplication(t *testing.T) {
	app := toApplication(discord.Application{
		ID:    snowflake.ID(1000),
		Name:  "OrbitalBot",
		Owner: &discord.User{ID: snowflake.ID(42), Username: "owner"},
	})

	assert.Equal(t, &Application{ID: "1000", Name: "OrbitalBot", OwnerID: "42"}, app)
}

func TestToIdentity(t *testing.T) {
	global := "Orbital"
	tests := []struct {
		name string
		user discord.User
		want string
	}{
		{name: "global name wins", user: discord.User{ID: 7, Username: "orbitalbot", GlobalName: &global}, want: "Orbital"},
		{name: "falls back to username", user: discord.User{ID: 7, Username: "orbitalbot"}, want: "orbitalbot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toIdentity(tt.user)
			assert.Equal(t, "7", got.ID)
			assert.Equal(t, tt.want, got.DisplayName)
		})
	}
}

func TestIconURL(t *testing.T) {
	hash := "abc"
	empty := ""

	assert.Nil(t, iconURL(1, nil))
	assert.Nil(t, iconURL(1, &empty))
	require.NotNil(t, iconURL(5, &hash))
	assert.Equal(t, "https://cdn.discordapp.com/icons/5/abc.png", *iconURL(5, &hash))
}
