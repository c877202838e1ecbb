package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Upstream mínimo para validar o gateway manualmente: ecoa método, path e
// headers de qualquer requisição que atravessar a cadeia de governança.
func main() {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method":  r.Method,
			"path":    r.URL.Path,
			"headers": r.Header,
		})
	})

	fmt.Println("upstream-echo rodando em http://localhost:9000")
	if err := http.ListenAndServe(":9000", nil); err != nil {
		fmt.Printf("erro ao subir o servidor: %s\n", err)
	}
}
