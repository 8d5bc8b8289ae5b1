package server

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/mlrawlings/marko-browser-playground-sub001/bundle"
	"github.com/mlrawlings/marko-browser-playground-sub001/livereload"
)

// Server is the playground dev server: it renders the page that loads the
// built bundle and serves the bundler's output directory. When a livereload
// hub is attached, connected pages reload after every rebuild.
type Server struct {
	router     *gin.Engine
	cfg        *bundle.Config
	bundleName string
	hub        *livereload.Hub
}

func New(cfg *bundle.Config, bundleName string, hub *livereload.Hub) *Server {
	s := &Server{
		router:     gin.Default(),
		cfg:        cfg,
		bundleName: bundleName,
		hub:        hub,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	pprof.Register(s.router)
	s.router.GET("/", s.index)
	s.router.GET(path.Join(s.cfg.URLPrefix, ":file"), s.static)
	if s.hub != nil {
		s.router.GET("/livereload", gin.WrapF(s.hub.HandleUpgrade))
	}
}

// Handler exposes the underlying router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) static(ctx *gin.Context) {
	file := ctx.Param("file")
	// The output dir is flat; anything that is not a plain file name is a
	// traversal attempt.
	if file != filepath.Base(file) || strings.HasPrefix(file, ".") {
		ctx.JSON(http.StatusBadRequest, gin.H{"pathError": "the provided data is invalid"})
		return
	}
	filePath := path.Join(s.cfg.OutputDir, file)
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"pathError": "the provided data is invalid"})
		return
	}
	ctx.File(absPath)
}

func (s *Server) index(ctx *gin.Context) {
	bundleURL := path.Join(s.cfg.URLPrefix, s.bundleName+".js")
	reload := ""
	if s.hub != nil {
		reload = "<script>" + livereload.ClientScript + "</script>"
	}
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>marko-browser playground</title>
</head>
<body>
<div id="app"></div>
<script src=%q></script>
%s
</body>
</html>
`, bundleURL, reload)
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
