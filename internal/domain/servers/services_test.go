package servers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/gateways/discord"
	"github.com/orbitalbot/dashboard/internal/gateways/discord/mock"
)

type fakeRepo struct {
	servers  []Server
	replaced bool
}

func (r *fakeRepo) ListServers(context.Context) ([]Server, error) {
	return append([]Server(nil), r.servers...), nil
}

func (r *fakeRepo) ReplaceServers(_ context.Context, list []Server) error {
	r.servers = append([]Server(nil), list...)
	r.replaced = true
	return nil
}

type fakeAudit struct{ entries []activity.Entry }

func (a *fakeAudit) Record(_ context.Context, e activity.Entry) (activity.Log, error) {
	a.entries = append(a.entries, e)
	return activity.Log{}, nil
}

var (
	now     = time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC)
	joined  = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	storedA = Server{ID: "111", Name: "Gaming Hub", MemberCount: 1000, Status: StatusOnline, JoinedAt: joined}
	storedB = Server{ID: "999", Name: "Old Server", MemberCount: 10, Status: StatusOffline, JoinedAt: joined}
)

func TestService_List(t *testing.T) {
	tests := []struct {
		name         string
		guilds       []discord.Guild
		err          error
		want         []Server
		wantLive     bool
		wantReplaced bool
		wantAudit    string
		wantErr      bool
	}{
		{
			name:   "live replaces store",
			guilds: mock.Guilds,
			want: []Server{
				{ID: "111", Name: "Gaming Hub", MemberCount: 1200, Status: StatusOnline, JoinedAt: joined},
				{ID: "222", Name: "Study Group", MemberCount: 87, Status: StatusOnline, JoinedAt: now},
			},
			wantLive:     true,
			wantReplaced: true,
			wantAudit:    "Dados de 2 servidor(es) carregados do Discord",
		},
		{
			name: "upstream failure serves stored list",
			err:  mock.Unavailable,
			want: []Server{storedA, storedB},
		},
		{
			name:    "local failure propagates",
			err:     errors.New("bug"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{servers: []Server{storedA, storedB}}
			audit := &fakeAudit{}
			source := mock.NewMockClient(gomock.NewController(t))
			source.EXPECT().Guilds(gomock.Any()).Return(tt.guilds, tt.err)

			s := NewService(repo, source, audit, clock.Fixed(now))
			got, live, err := s.List(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, repo.replaced)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLive, live)
			assert.Equal(t, tt.wantReplaced, repo.replaced)
			if tt.wantAudit != "" {
				require.Len(t, audit.entries, 1)
				assert.Equal(t, tt.wantAudit, audit.entries[0].Description)
			} else {
				assert.Empty(t, audit.entries)
			}
		})
	}
}

func TestService_FetchDoesNotAudit(t *testing.T) {
	repo := &fakeRepo{servers: []Server{storedA, storedB}}
	audit := &fakeAudit{}
	source := mock.NewMockClient(gomock.NewController(t))
	source.EXPECT().Guilds(gomock.Any()).Return(mock.Guilds, nil).Times(3)

	s := NewService(repo, source, audit, clock.Fixed(now))
	for i := 0; i < 3; i++ {
		got, live, err := s.Fetch(context.Background())
		require.NoError(t, err)
		assert.True(t, live)
		assert.Len(t, got, 2)
	}

	assert.True(t, repo.replaced)
	assert.Empty(t, audit.entries)
}

func TestTotals(t *testing.T) {
	servers, members, online := Totals([]Server{storedA, storedB})
	assert.Equal(t, 2, servers)
	assert.Equal(t, 1010, members)
	assert.Equal(t, 1, online)
}
