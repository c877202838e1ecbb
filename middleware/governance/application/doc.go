// Package application contém os casos de uso da governança de requisições:
// validação de regras estáticas do domínio, decisão de rate limit na janela
// deslizante e aquisição de vaga de capacidade.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: LimiterService.Decide(...) retorna uma LimitDecision (allow/deny +
// metadados para a resposta 429).
package application
