package catalog

import "quotedesk/internal/domain"

// Demo returns the offline sample dataset
func Demo() []domain.Record {
	return []domain.Record{
		{ID: 1, Title: "Clube de Leitura Aventura", Category: CategoryClubs, Icon: "📚",
			Description: "Um espaço acolhedor para amantes de livros discutirem suas obras favoritas."},
		{ID: 2, Title: "Clube de Fotografia", Category: CategoryClubs, Icon: "📷",
			Description: "Explore o mundo através das lentes e compartilhe suas melhores capturas."},
		{ID: 3, Title: "Festival de Música 2025", Category: CategoryEvents, Icon: "🎵",
			Description: "Grande evento com as melhores bandas locais e internacionais."},
		{ID: 4, Title: "Workshop de Programação", Category: CategoryEvents, Icon: "💻",
			Description: "Aprenda as melhores práticas de desenvolvimento web moderno."},
		{ID: 5, Title: "Maria Silva", Category: CategoryMembers, Icon: "👤",
			Description: "Coordenadora do Clube de Leitura, apaixonada por literatura brasileira."},
		{ID: 6, Title: "João Santos", Category: CategoryMembers, Icon: "👤",
			Description: "Fotógrafo profissional e líder do Clube de Fotografia."},
		{ID: 7, Title: "Clube de Culinária", Category: CategoryClubs, Icon: "🍳",
			Description: "Descubra novos sabores e aprenda receitas incríveis com chefs amadores."},
		{ID: 8, Title: "Torneio de Xadrez", Category: CategoryEvents, Icon: "♟️",
			Description: "Competição amistosa para jogadores de todos os níveis."},
		{ID: 9, Title: "Ana Costa", Category: CategoryMembers, Icon: "👤",
			Description: "Organizadora de eventos e entusiasta de atividades ao ar livre."},
		{ID: 10, Title: "Clube de Corrida", Category: CategoryClubs, Icon: "🏃",
			Description: "Grupo de corrida para todos os níveis, com treinos semanais."},
	}
}
