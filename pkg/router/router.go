package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/collabtext-lab/backend/config"
	"github.com/collabtext-lab/backend/pkg/logger"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may derive a new context; a
// returned error aborts the request with an error envelope.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

type Router struct {
	mux     *http.ServeMux
	cfg     config.Configs
	logger  logger.Logger
	db      *gorm.DB
	befores []MiddlewareFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// Branch returns a router sharing the same mux but with its own middleware
// chain, so route groups can differ in what runs before their handlers.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	return &clone
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, pattern, http.MethodGet, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, pattern, http.MethodPost, handler)
}

func register[Request, Response any](
	r *Router, pattern, method string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc{}, r.befores...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := req.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)

		err := func() error {
			var err error
			for _, m := range befores {
				if ctx, err = m(ctx, req); err != nil {
					return err
				}
			}

			var request Request
			if err := bindRequest(req, method, &request); err != nil {
				r.logger.Debugf("Cannot bind request of %s: %v", pattern, err)
				return errBadRequest
			}

			resp, err := handler(ctx, &request)
			if err != nil {
				return err
			}

			return writeJSON(w, newResponse(resp))
		}()

		if err != nil {
			if werr := writeJSON(w, newErrorResponse(err)); werr != nil {
				r.logger.Errorf("Cannot write the error response: %v", werr)
			}
		}

		logRequest(r.logger, req, err)
	})
}

func bindRequest(r *http.Request, method string, req any) error {
	switch method {
	case http.MethodGet:
		return bindQuery(r.URL.Query(), req)
	default:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}

		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, req)
	}
}

func logRequest(l logger.Logger, r *http.Request, err error) {
	info := r.Method + " | " + r.URL.Path
	if err != nil {
		l.Warnf("%s | %v", info, err)
	} else {
		l.Infof(info)
	}
}

func writeJSON(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
