// File: internal/gateway/proxy.go
package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// route is one compiled prefix-to-backend mapping.
type route struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

// Proxy forwards requests to backend services by longest matching path
// prefix. Paths are forwarded as-is; the services mount the same routes the
// gateway advertises.
type Proxy struct {
	routes []route
	writer *response.Writer
	logger *zap.Logger
}

func NewProxy(cfgRoutes []config.GatewayRoute, writer *response.Writer, logger *zap.Logger) (*Proxy, error) {
	routes := make([]route, 0, len(cfgRoutes))
	for _, r := range cfgRoutes {
		target, err := url.Parse(r.Target)
		if err != nil {
			return nil, err
		}
		rp := httputil.NewSingleHostReverseProxy(target)
		rp.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			logger.Error("backend unreachable",
				zap.String("path", req.URL.Path),
				zap.String("target", target.String()),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"httpStatus":502,"appCode":"UPSTREAM_UNAVAILABLE","message":"upstream service unavailable"}`))
		}
		routes = append(routes, route{prefix: r.Prefix, proxy: rp})
	}

	// Longest prefix first so /api/carts/items beats /api/carts.
	sort.Slice(routes, func(i, j int) bool {
		return len(routes[i].prefix) > len(routes[j].prefix)
	})

	return &Proxy{routes: routes, writer: writer, logger: logger}, nil
}

// Handler dispatches to the backend owning the request path.
func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, r := range p.routes {
			if strings.HasPrefix(c.Request.URL.Path, r.prefix) {
				r.proxy.ServeHTTP(c.Writer, c.Request)
				return
			}
		}
		p.writer.Error(c, http.StatusNotFound, "ROUTE_NOT_FOUND", "no route for path")
	}
}
