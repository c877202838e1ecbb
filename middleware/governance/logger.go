package governance

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"governance-gateway/middleware/governance/domain"

	"github.com/google/uuid"
)

// LevelCritical fica acima de Error na escala do slog, espelhando a
// severidade CRITICAL das tabelas de logging por endpoint.
const LevelCritical = slog.LevelError + 4

type LoggerOptions struct {
	Config domain.DomainConfig
	Logger *slog.Logger
	Clock  func() time.Time
}

// NewDomainLogger cria um logger JSON com o domínio fixado como atributo.
// O sink é por domínio: cada vertical escreve no próprio arquivo/writer.
func NewDomainLogger(prefix string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("domain", prefix))
}

// OpenDomainLog abre (criando se preciso) o arquivo de log do domínio no
// diretório informado, em modo append.
func OpenDomainLog(dir, prefix string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := filepath.Join(dir, prefix+"domain.log")
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func severityLevel(sev domain.Severity) slog.Level {
	switch sev {
	case domain.SeverityCritical:
		return LevelCritical
	case domain.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Logger registra request_start/request_end para os endpoints configurados
// do domínio. É um observador: nunca altera requisição nem resposta.
func Logger(opts LoggerOptions) Middleware {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if opts.Logger == nil || !opts.Config.Applies(path) {
				next.ServeHTTP(w, r)
				return
			}

			sev, ok := opts.Config.SeverityFor(path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			attrs := []any{
				slog.String("request_id", uuid.NewString()),
				slog.String("method", r.Method),
				slog.String("path", path),
				slog.String("client_ip", clientHost(r)),
				slog.String("user_agent", r.UserAgent()),
			}

			start := now()
			opts.Logger.Log(r.Context(), severityLevel(sev), "request_start", attrs...)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			endLevel := severityLevel(sev)
			switch {
			case rec.status >= http.StatusInternalServerError:
				endLevel = LevelCritical
			case rec.status >= http.StatusBadRequest:
				endLevel = slog.LevelWarn
			}

			attrs = append(attrs,
				slog.Int("status_code", rec.status),
				slog.Duration("elapsed", now().Sub(start)),
			)
			opts.Logger.Log(r.Context(), endLevel, "request_end", attrs...)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
