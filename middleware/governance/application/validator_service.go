package application

import (
	"fmt"
	"strings"
	"time"

	"governance-gateway/middleware/governance/domain"
)

// ValidatorService aplica as regras estáticas do domínio a uma requisição.
//
// Ele não sabe nada sobre HTTP (status/serialização), apenas devolve uma
// Rejection (ou nil quando a requisição passa).
type ValidatorService struct {
	Config domain.DomainConfig

	// Now é injetável para testes; nil usa time.Now.
	Now func() time.Time
}

func (s ValidatorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Validate roda as três famílias de regras na ordem: horário de
// atendimento, headers obrigatórios e regras específicas do domínio.
// A primeira violação encerra a validação.
func (s ValidatorService) Validate(path string, headers domain.Headers) *domain.Rejection {
	if rej := s.validateBusinessHours(path); rej != nil {
		return rej
	}
	if rej := s.validateRequiredHeaders(headers); rej != nil {
		return rej
	}
	return s.validateDomainRules(path, headers)
}

func (s ValidatorService) validateBusinessHours(path string) *domain.Rejection {
	// Fragmentos de emergência ignoram o horário incondicionalmente.
	for _, fragment := range s.Config.EmergencyFragments {
		if strings.Contains(path, fragment) {
			return nil
		}
	}

	hours := s.Config.Hours
	if hours.Contains(s.now().Hour()) {
		return nil
	}
	return &domain.Rejection{
		Kind:         domain.RejectOutOfHours,
		Message:      "outside business hours",
		AllowedHours: &hours,
	}
}

func (s ValidatorService) validateRequiredHeaders(headers domain.Headers) *domain.Rejection {
	var missing []string
	for _, name := range s.Config.RequiredHeaders {
		if headers.Get(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &domain.Rejection{
		Kind:           domain.RejectMissingHeaders,
		Message:        "missing required headers",
		MissingHeaders: missing,
	}
}

func (s ValidatorService) validateDomainRules(path string, headers domain.Headers) *domain.Rejection {
	if s.now().Weekday() == time.Saturday || s.now().Weekday() == time.Sunday {
		for _, fragment := range s.Config.WeekendRestricted {
			if strings.Contains(path, fragment) {
				return &domain.Rejection{
					Kind:    domain.RejectRuleViolation,
					Message: fmt.Sprintf("%q is not available on weekends", fragment),
				}
			}
		}
	}

	if s.Config.ControlledHeader != "" {
		for _, fragment := range s.Config.ControlledFragments {
			if strings.Contains(path, fragment) && headers.Get(s.Config.ControlledHeader) == "" {
				return &domain.Rejection{
					Kind:    domain.RejectRuleViolation,
					Message: fmt.Sprintf("controlled resource requires header %s", s.Config.ControlledHeader),
				}
			}
		}
	}
	return nil
}
