// Package governance fornece os adapters HTTP (net/http) da camada de
// governança de requisições por domínio de negócio.
//
// Visão geral (camadas):
//
//   - domain: contratos, tipos e tabelas de configuração por domínio
//   - application: casos de uso (validação, decisão de janela deslizante,
//     capacidade) sem net/http
//   - infra: implementações concretas (sorted set no Redis, gêmeos em
//     memória, token bucket local, semáforo)
//   - governance (este pacote): middlewares HTTP + extração de chave +
//     tradução das decisões para status/headers/JSON
//
// Fluxo por requisição (a ordem importa: validação → logging → rate limit
// → capacidade):
//
//  1. Validator checa horário de atendimento, headers obrigatórios e
//     regras específicas do domínio (403/400/422)
//  2. Logger emite request_start/request_end estruturados para os
//     endpoints configurados, sem alterar a resposta
//  3. RateLimit consulta a janela deslizante e responde 429 com os
//     metadados da categoria quando estoura
//  4. Capacity segura requisições simultâneas além da lotação (503)
//
// Todos os estágios se aplicam apenas a paths sob a raiz do domínio
// (DomainConfig.RouteRoot); o resto do tráfego passa intocado.
package governance
