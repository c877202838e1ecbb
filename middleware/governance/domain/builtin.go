package domain

import "time"

const minute = time.Minute

// defaultCategories é a tabela aplicada a domínios sem tabela própria.
func defaultCategories() map[string]RateRule {
	return map[string]RateRule{
		"high_priority":   {Requests: 200, Window: minute},
		"medium_priority": {Requests: 100, Window: minute},
		"low_priority":    {Requests: 50, Window: minute},
		GeneralCategory:   {Requests: 120, Window: minute},
		"admin":           {Requests: 30, Window: minute},
	}
}

// DefaultConfig é a governança aplicada a um prefixo desconhecido:
// sem headers obrigatórios, sem restrição de horário, limites genéricos.
func DefaultConfig(prefix string) DomainConfig {
	return DomainConfig{
		Prefix:     prefix,
		Hours:      BusinessHours{Start: 0, End: 24},
		Categories: defaultCategories(),
		LogEndpoints: map[string]Severity{
			"/create": SeverityInfo,
			"/update": SeverityWarning,
			"/delete": SeverityCritical,
			"/admin":  SeverityWarning,
		},
	}
}

// BuiltinConfigs retorna as configurações dos domínios conhecidos.
// Cada vertical tem seu próprio perfil de tráfego, headers e horários.
func BuiltinConfigs() []DomainConfig {
	return []DomainConfig{
		{
			// Academia de idiomas: tráfego concentrado em cursos, níveis e grupos.
			Prefix: "lang_",
			Hours:  BusinessHours{Start: 0, End: 24},
			Categories: map[string]RateRule{
				"courses":       {Requests: 120, Window: minute},
				"levels":        {Requests: 200, Window: minute},
				"groups":        {Requests: 180, Window: minute},
				GeneralCategory: {Requests: 150, Window: minute},
				"admin":         {Requests: 50, Window: minute},
			},
			CategoryRoutes: []CategoryRoute{
				{Fragment: "/cursos", Category: "courses"},
				{Fragment: "/niveles", Category: "levels"},
				{Fragment: "/grupos", Category: "groups"},
				{Fragment: "/admin", Category: "admin"},
			},
			LogEndpoints: map[string]Severity{
				"/cursos":  SeverityInfo,
				"/niveles": SeverityInfo,
				"/grupos":  SeverityWarning,
				"/admin":   SeverityCritical,
			},
		},
		{
			// Clínica veterinária: exige licença e atende das 8h às 20h,
			// com exceção para emergências.
			Prefix:             "vet_",
			RequiredHeaders:    []string{"X-Vet-License"},
			Hours:              BusinessHours{Start: 8, End: 20},
			EmergencyFragments: []string{"/emergency"},
			Categories:         defaultCategories(),
			LogEndpoints: map[string]Severity{
				"/historial": SeverityCritical,
				"/emergency": SeverityCritical,
				"/update":    SeverityWarning,
				"/delete":    SeverityCritical,
			},
		},
		{
			// Instituição de ensino: reservas bloqueadas no fim de semana.
			Prefix:            "edu_",
			RequiredHeaders:   []string{"X-Institution-ID"},
			Hours:             BusinessHours{Start: 6, End: 22},
			WeekendRestricted: []string{"booking"},
			Categories:        defaultCategories(),
			LogEndpoints: map[string]Severity{
				"/booking":    SeverityInfo,
				"/schedule":   SeverityInfo,
				"/enrollment": SeverityWarning,
				"/admin":      SeverityWarning,
			},
		},
		{
			// Academia de ginástica: controle de capacidade simultânea.
			Prefix:          "gym_",
			RequiredHeaders: []string{"X-Gym-Membership"},
			Hours:           BusinessHours{Start: 5, End: 23},
			CapacityLimit:   50,
			Categories:      defaultCategories(),
			LogEndpoints: map[string]Severity{
				"/checkin":    SeverityInfo,
				"/equipment":  SeverityInfo,
				"/membership": SeverityWarning,
				"/access":     SeverityInfo,
			},
		},
		{
			// Farmácia: medicamentos controlados exigem prescrição.
			Prefix:              "pharma_",
			RequiredHeaders:     []string{"X-Pharmacy-License"},
			Hours:               BusinessHours{Start: 7, End: 21},
			EmergencyFragments:  []string{"/emergency"},
			ControlledFragments: []string{"controlled"},
			ControlledHeader:    "X-Prescription-ID",
			Categories:          defaultCategories(),
			LogEndpoints: map[string]Severity{
				"/inventory": SeverityInfo,
				"/sales":     SeverityWarning,
				"/price":     SeverityInfo,
				"/admin":     SeverityCritical,
			},
		},
	}
}
