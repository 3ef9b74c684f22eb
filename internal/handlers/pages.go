package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/finboardhq/finboard-portal/internal/common"
	"github.com/finboardhq/finboard-portal/internal/config"
)

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	devMode   bool
	jwtSecret []byte
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, devMode bool, jwtSecret []byte) *PageHandler {
	pagesDir := FindPagesDir()

	templates := template.Must(template.ParseGlob(filepath.Join(pagesDir, "*.html")))

	return &PageHandler{
		logger:    logger,
		templates: templates,
		devMode:   devMode,
		jwtSecret: jwtSecret,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// ServePage creates a handler function for serving a specific page template.
func (h *PageHandler) ServePage(templateName string, pageName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loggedIn, _ := IsLoggedIn(r, h.jwtSecret)
		h.render(w, templateName, pageName, loggedIn)
	}
}

// ServeDashboardPage serves a dashboard section, redirecting unauthenticated
// visitors to the login page.
func (h *PageHandler) ServeDashboardPage(templateName string, pageName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loggedIn, _ := IsLoggedIn(r, h.jwtSecret)
		if !loggedIn {
			http.Redirect(w, r, "/auth", http.StatusFound)
			return
		}
		h.render(w, templateName, pageName, true)
	}
}

// ServeAuthPage serves the login page. Authenticated visitors are sent
// straight to the dashboard.
func (h *PageHandler) ServeAuthPage(w http.ResponseWriter, r *http.Request) {
	loggedIn, _ := IsLoggedIn(r, h.jwtSecret)
	if loggedIn {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, "auth.html", "auth", false)
}

func (h *PageHandler) render(w http.ResponseWriter, templateName, pageName string, loggedIn bool) {
	data := map[string]interface{}{
		"Page":          pageName,
		"DevMode":       h.devMode,
		"LoggedIn":      loggedIn,
		"PortalVersion": config.GetVersion(),
	}

	if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", templateName).Err(err).Msg("failed to render page")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
