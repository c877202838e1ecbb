package cache

import "time"

// Nomes das classes de dado com política própria de expiração.
const (
	TTLFrequentData  = "frequent_data"
	TTLStableData    = "stable_data"
	TTLReferenceData = "reference_data"
	TTLDefault       = "default"
)

// DefaultTTL é aplicado a classes desconhecidas.
const DefaultTTL = 5 * time.Minute

// Policies mapeia classe de dado → TTL. Carregada uma vez no bootstrap e
// imutável depois.
type Policies map[string]time.Duration

// NewPolicies retorna a tabela padrão: dados frequentes expiram rápido,
// catálogos de referência vivem um dia.
func NewPolicies() Policies {
	return Policies{
		TTLFrequentData:  5 * time.Minute,
		TTLStableData:    time.Hour,
		TTLReferenceData: 24 * time.Hour,
		TTLDefault:       DefaultTTL,
	}
}

// DurationFor resolve o TTL de uma classe. Classes desconhecidas degradam
// silenciosamente para DefaultTTL (um typo de configuração não deve virar
// erro em tempo de requisição).
func (p Policies) DurationFor(ttlType string) time.Duration {
	if d, ok := p[ttlType]; ok {
		return d
	}
	return DefaultTTL
}
