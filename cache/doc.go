// Package cache implementa a camada de cache com políticas de TTL por
// classe de dado ("frequent_data", "stable_data", "reference_data").
//
// O Manager constrói chaves determinísticas, serializa valores em JSON e
// delega a persistência a um Store (Redis em produção, memória em testes).
// Cache aqui é otimização, não fonte de verdade: qualquer falha do store
// vira ErrUnavailable e o chamador DEVE ter um caminho de fallback para a
// fonte autoritativa.
package cache
