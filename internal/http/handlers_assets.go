package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"booklog/internal/core"
	"booklog/internal/log"
	appweb "booklog/web"
)

const coverExt = ".jpg"

// handleCover serves /data/covers/{id}.jpg from the covers directory. A
// missing cover is remembered and redirected to the default image.
func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, core.CoverPathPrefix)
	id, ok := strings.CutSuffix(name, coverExt)
	if !ok || !coverIDPattern.MatchString(id) || strings.Contains(id, "..") {
		NotFoundError("Cover not found").Write(w)
		return
	}

	if s.failedCovers.Contains(id) {
		http.Redirect(w, r, core.DefaultCoverPath, http.StatusFound)
		return
	}

	file := filepath.Join(s.opts.CoversDir, id+coverExt)
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		s.failedCovers.Set(id, struct{}{})
		log.FromContext(r.Context()).DebugContext(r.Context(), "Cover missing, using default",
			log.FieldBookID, id)
		http.Redirect(w, r, core.DefaultCoverPath, http.StatusFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, file)
}

// handleDefaultCover serves the embedded placeholder cover.
func (s *Server) handleDefaultCover(w http.ResponseWriter, r *http.Request) {
	data, err := appweb.StaticFS.ReadFile(appweb.DefaultCoverFile)
	if err != nil {
		s.logger.Error("Default cover missing from embedded assets", log.FieldError, err)
		NotFoundError("Cover not found").Write(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
