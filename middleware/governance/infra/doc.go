// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisWindowStore: janela deslizante em sorted set, com poda+contagem+
//     inserção condicional num único script server-side
//   - MemoryWindowStore: gêmeo em memória para testes e desenvolvimento
//   - BucketStore: token bucket local por chave usando golang.org/x/time/rate,
//     usado como fallback quando o store compartilhado está fora do ar
//   - ChanPool: semáforo simples para controle de capacidade
package infra
