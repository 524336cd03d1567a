package memory

import (
	"time"

	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
	"github.com/orbitalbot/dashboard/internal/domain/stats"
)

// Seed fills the store with demo data anchored at now. Existing data is replaced.
func (s *Store) Seed(now time.Time) {
	now = now.UTC()
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	str := func(v string) *string { return &v }

	cmds := []commands.Command{
		{ID: "1", Name: "help", Description: "Exibe todos os comandos disponíveis", Category: "Utilidade", UsageCount: 1250, Enabled: true, LastUsed: ago(time.Hour)},
		{ID: "2", Name: "ping", Description: "Verifica a latência do bot", Category: "Utilidade", UsageCount: 892, Enabled: true, LastUsed: ago(2 * time.Hour)},
		{ID: "3", Name: "kick", Description: "Expulsa um membro do servidor", Category: "Moderação", UsageCount: 45, Enabled: true, LastUsed: ago(24 * time.Hour)},
		{ID: "4", Name: "ban", Description: "Bane um membro do servidor", Category: "Moderação", UsageCount: 23, Enabled: true, LastUsed: ago(48 * time.Hour)},
		{ID: "5", Name: "mute", Description: "Silencia um membro temporariamente", Category: "Moderação", UsageCount: 67, Enabled: false, LastUsed: ago(72 * time.Hour)},
		{ID: "6", Name: "play", Description: "Reproduz música no canal de voz", Category: "Música", UsageCount: 3421, Enabled: true, LastUsed: ago(30 * time.Minute)},
		{ID: "7", Name: "skip", Description: "Pula para a próxima música", Category: "Música", UsageCount: 2156, Enabled: true, LastUsed: ago(40 * time.Minute)},
		{ID: "8", Name: "queue", Description: "Mostra a fila de músicas", Category: "Música", UsageCount: 1534, Enabled: true, LastUsed: ago(50 * time.Minute)},
		{ID: "9", Name: "avatar", Description: "Mostra o avatar de um usuário", Category: "Diversão", UsageCount: 432, Enabled: true, LastUsed: ago(4 * time.Hour)},
		{ID: "10", Name: "poll", Description: "Cria uma enquete", Category: "Utilidade", UsageCount: 189, Enabled: true, LastUsed: ago(12 * time.Hour)},
	}

	day := 24 * time.Hour
	srv := []servers.Server{
		{ID: "guild1", Name: "Servidor Geral", MemberCount: 1250, Status: servers.StatusOnline, JoinedAt: *ago(90 * day)},
		{ID: "guild2", Name: "Servidor de Música", MemberCount: 850, Status: servers.StatusOnline, JoinedAt: *ago(60 * day)},
		{ID: "guild3", Name: "Comunidade Gaming", MemberCount: 2100, Status: servers.StatusOnline, JoinedAt: *ago(30 * day)},
		{ID: "guild4", Name: "Dev Squad", MemberCount: 420, Status: servers.StatusOnline, JoinedAt: *ago(15 * day)},
		{ID: "guild5", Name: "Anime Lovers", MemberCount: 1890, Status: servers.StatusOnline, JoinedAt: *ago(10 * day)},
	}

	logs := []activity.Log{
		{ID: "log1", Timestamp: *ago(10 * time.Minute), Type: activity.TypeCommand, Description: "Comando /help executado", ServerName: str("Servidor Geral"), UserID: str("user123"), Username: str("João#1234"), Details: str("Categoria: Utilidade")},
		{ID: "log2", Timestamp: *ago(20 * time.Minute), Type: activity.TypeCommand, Description: "Comando /play executado", ServerName: str("Servidor de Música"), UserID: str("user456"), Username: str("Maria#5678"), Details: str("Música: Never Gonna Give You Up")},
		{ID: "log3", Timestamp: *ago(30 * time.Minute), Type: activity.TypeJoin, Description: "Bot adicionado a um novo servidor", ServerName: str("Comunidade Gaming"), Details: str("150 membros")},
		{ID: "log4", Timestamp: *ago(time.Hour), Type: activity.TypeConfig, Description: "Prefixo alterado de ! para /", UserID: str("admin789"), Username: str("Admin#0001")},
		{ID: "log5", Timestamp: *ago(2 * time.Hour), Type: activity.TypeCommand, Description: "Comando /kick executado", ServerName: str("Servidor Geral"), UserID: str("mod123"), Username: str("Moderador#9999"), Details: str("Usuário expulso: Spam#1111")},
		{ID: "log6", Timestamp: *ago(3 * time.Hour), Type: activity.TypeError, Description: "Erro ao conectar ao canal de voz", ServerName: str("Servidor de Música"), Details: str("Permissões insuficientes")},
		{ID: "log7", Timestamp: *ago(4 * time.Hour), Type: activity.TypeCommand, Description: "Comando /queue executado", ServerName: str("Servidor de Música"), UserID: str("user789"), Username: str("Pedro#4321"), Details: str("5 músicas na fila")},
		{ID: "log8", Timestamp: *ago(6 * time.Hour), Type: activity.TypeConfig, Description: "Status do bot alterado para 'Ouvindo música'", UserID: str("admin789"), Username: str("Admin#0001")},
	}

	dailyCommands := []int{312, 428, 275, 389, 456, 501, 347}
	dailyMessages := []int{1520, 2210, 1890, 2675, 1430, 2980, 2105}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	baseline := make([]stats.Baseline, 0, stats.ChartDays)
	for i := 0; i < stats.ChartDays; i++ {
		baseline = append(baseline, stats.Baseline{
			Day:      today.AddDate(0, 0, i-(stats.ChartDays-1)),
			Commands: dailyCommands[i],
			Messages: dailyMessages[i],
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = cmds
	s.servers = srv
	s.logs = logs
	s.baseline = baseline
}
