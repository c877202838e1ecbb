package domain

import "time"

// RejectionKind classifica por que o Validator barrou a requisição.
type RejectionKind string

const (
	RejectOutOfHours     RejectionKind = "out_of_hours"
	RejectMissingHeaders RejectionKind = "missing_headers"
	RejectRuleViolation  RejectionKind = "rule_violation"
)

// Rejection é a decisão negativa do Validator, com os detalhes que a
// camada HTTP ecoa de volta para o cliente.
type Rejection struct {
	Kind    RejectionKind
	Message string

	// AllowedHours é preenchido apenas em RejectOutOfHours.
	AllowedHours *BusinessHours
	// MissingHeaders é preenchido apenas em RejectMissingHeaders.
	MissingHeaders []string
}

// Headers abstrai o acesso case-insensitive a headers da requisição.
// http.Header satisfaz a interface sem este pacote importar net/http.
type Headers interface {
	Get(key string) string
}

// LimitDecision é o resultado de uma passada pelo rate limiter.
type LimitDecision struct {
	Allowed  bool
	Domain   string
	Category string
	Limit    int
	Window   time.Duration

	// Degraded indica que o store compartilhado estava indisponível e a
	// decisão veio da política de falha (fail-open/closed/local).
	Degraded bool
}
