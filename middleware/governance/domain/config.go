package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Severity é o nível configurado para logging de um endpoint.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// RateRule define o limite de uma categoria: no máximo Requests aceitos
// dentro de uma janela deslizante de Window.
type RateRule struct {
	Requests int           `validate:"gt=0"`
	Window   time.Duration `validate:"gt=0"`
}

// BusinessHours representa o horário de atendimento em horas locais (0..23).
// Quando Start > End o intervalo cruza a meia-noite (ex: 22→6).
type BusinessHours struct {
	Start int `validate:"gte=0,lte=24"`
	End   int `validate:"gte=0,lte=24"`
}

// Contains informa se a hora está dentro do horário de atendimento.
// Os dois extremos são inclusivos.
func (h BusinessHours) Contains(hour int) bool {
	if h.Start <= h.End {
		return hour >= h.Start && hour <= h.End
	}
	return hour >= h.Start || hour <= h.End
}

// CategoryRoute associa um fragmento de path a uma categoria de rate limit.
// A ordem importa: o primeiro fragmento presente no path vence.
type CategoryRoute struct {
	Fragment string `validate:"required"`
	Category string `validate:"required"`
}

// GeneralCategory é a categoria usada quando nenhum CategoryRoute casa.
const GeneralCategory = "general"

// DomainConfig concentra toda a configuração de governança de um domínio
// de negócio. É resolvida uma única vez no bootstrap e imutável depois.
type DomainConfig struct {
	// Prefix identifica o domínio (ex: "lang_", "vet_").
	Prefix string `validate:"required"`

	// RequiredHeaders são exigidos em toda requisição do domínio
	// (comparação de nome case-insensitive).
	RequiredHeaders []string

	Hours BusinessHours

	// EmergencyFragments fazem o path ignorar o horário de atendimento.
	EmergencyFragments []string

	// WeekendRestricted bloqueia os fragmentos listados aos sábados e domingos.
	WeekendRestricted []string

	// ControlledFragments exigem a presença de ControlledHeader.
	ControlledFragments []string
	ControlledHeader    string

	// CapacityLimit limita requisições simultâneas no domínio (0 desliga).
	CapacityLimit int `validate:"gte=0"`

	// Categories deve conter ao menos a categoria "general".
	Categories     map[string]RateRule `validate:"required,dive"`
	CategoryRoutes []CategoryRoute     `validate:"dive"`

	// LogEndpoints mapeia fragmento de path → severidade; paths que não
	// casam com nenhum fragmento não são logados.
	LogEndpoints map[string]Severity
}

// RouteRoot é a raiz das rotas do domínio ("lang_" → "/lang").
// Requisições fora da raiz passam intocadas por toda a cadeia.
func (c DomainConfig) RouteRoot() string {
	return "/" + strings.TrimSuffix(c.Prefix, "_")
}

// Applies informa se a governança do domínio se aplica ao path.
func (c DomainConfig) Applies(path string) bool {
	return strings.HasPrefix(path, c.RouteRoot())
}

// CategoryFor resolve a categoria de rate limit do path.
func (c DomainConfig) CategoryFor(path string) string {
	for _, route := range c.CategoryRoutes {
		if strings.Contains(path, route.Fragment) {
			return route.Category
		}
	}
	return GeneralCategory
}

// RuleFor retorna a regra da categoria, caindo para "general" quando a
// categoria não existe na tabela.
func (c DomainConfig) RuleFor(category string) RateRule {
	if rule, ok := c.Categories[category]; ok {
		return rule
	}
	return c.Categories[GeneralCategory]
}

// SeverityFor informa se o path deve ser logado e com qual severidade.
func (c DomainConfig) SeverityFor(path string) (Severity, bool) {
	for fragment, sev := range c.LogEndpoints {
		if strings.Contains(path, fragment) {
			return sev, true
		}
	}
	return SeverityInfo, false
}

// Registry resolve DomainConfig por prefixo, montado uma vez no bootstrap
// (nada de comparações de prefixo espalhadas pelos componentes).
type Registry map[string]DomainConfig

// NewRegistry valida e indexa as configurações recebidas.
func NewRegistry(configs ...DomainConfig) (Registry, error) {
	v := validator.New()
	reg := make(Registry, len(configs))
	for _, cfg := range configs {
		if err := v.Struct(cfg); err != nil {
			return nil, fmt.Errorf("domain %q: %w", cfg.Prefix, err)
		}
		if _, ok := cfg.Categories[GeneralCategory]; !ok {
			return nil, fmt.Errorf("domain %q: missing %q category", cfg.Prefix, GeneralCategory)
		}
		if _, dup := reg[cfg.Prefix]; dup {
			return nil, fmt.Errorf("domain %q: duplicate prefix", cfg.Prefix)
		}
		reg[cfg.Prefix] = cfg
	}
	return reg, nil
}

// Resolve retorna a configuração do prefixo, ou a configuração padrão
// quando o prefixo não está registrado.
func (r Registry) Resolve(prefix string) DomainConfig {
	if cfg, ok := r[prefix]; ok {
		return cfg
	}
	return DefaultConfig(prefix)
}
