package delivery

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

// Renderer caches one parsed template set per page. Each page is parsed
// together with the shared partials so every page can redefine the base
// layout's content block.
type Renderer struct {
	mu       sync.RWMutex
	cache    map[string]*template.Template
	dir      string
	sessions *SessionManager
	log      *logrus.Logger
}

func NewRenderer(dir string, sessions *SessionManager, logger *logrus.Logger) (*Renderer, error) {
	r := &Renderer{
		cache:    make(map[string]*template.Template),
		dir:      dir,
		sessions: sessions,
		log:      logger,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"statusLabel": func(s string) string {
			return strings.ReplaceAll(s, "_", " ")
		},
	}
}

func (r *Renderer) load() error {
	partials, err := filepath.Glob(filepath.Join(r.dir, "partials", "*.html"))
	if err != nil {
		return err
	}
	pages, err := filepath.Glob(filepath.Join(r.dir, "*.html"))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, page := range pages {
		name := filepath.Base(page)
		files := append(append([]string{}, partials...), page)
		tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFiles(files...)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.cache[name] = tmpl
		r.log.Debugf("Renderer: cached template %s", name)
	}
	return nil
}

// HTML renders a cached page template. The base layout expects User, Flashes
// and CSRFField keys; handlers add their own page data on top.
func (r *Renderer) HTML(c *gin.Context, status int, page string, data gin.H) {
	r.mu.RLock()
	tmpl, ok := r.cache[page]
	r.mu.RUnlock()
	if !ok {
		r.log.Errorf("Renderer: template %s not found", page)
		c.String(500, "template not found")
		return
	}

	if data == nil {
		data = gin.H{}
	}
	if user, exists := c.Get(contextUserKey); exists {
		data["User"] = user
	}
	// Flashes are popped before the status line goes out; saving the session
	// writes a Set-Cookie header.
	data["Flashes"] = r.sessions.PopFlashes(c)
	data["CSRFField"] = csrf.TemplateField(c.Request)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := tmpl.ExecuteTemplate(c.Writer, "base", data); err != nil {
		r.log.Errorf("Renderer: failed to execute template %s: %v", page, err)
	}
}
