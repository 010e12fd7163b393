package chi

import (
	"errors"
	"io/fs"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/storefront/internal/logger"
)

const indexHTML = `<h1>Welcome to the Backend Server</h1>
<ul>
  <li><a href="/orders">Go to Orders</a></li>
  <li><a href="/lessons">Go to Lessons</a></li>
</ul>
`

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexHTML))
}

// Image handles GET /images/*. Anything that is not a regular file under the
// images directory is answered with a plain-text 404.
func (s *Server) Image(w http.ResponseWriter, r *http.Request) {
	if s.imagesDir == "" {
		imageNotFound(w)
		return
	}

	name := path.Clean("/" + chi.URLParam(r, "*"))
	f, err := http.Dir(s.imagesDir).Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logpkg.FromContext(r.Context()).Warn("open image", zap.String("name", name), zap.Error(err))
		}
		imageNotFound(w)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		imageNotFound(w)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func imageNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(msgImageNotFound))
}
