package handler

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/blogicum/backend/internal/interfaces/http/dto"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testPageTemplates mirrors the names of the real templates with trivial
// bodies so handlers can render without the web/ directory on disk
const testPageTemplates = `
{{define "pages/404.html"}}404 page{{end}}
{{define "pages/403.html"}}403 page{{end}}
{{define "pages/500.html"}}500 page{{end}}
{{define "pages/about.html"}}about{{end}}
{{define "pages/rules.html"}}rules{{end}}
{{define "registration/login.html"}}login {{.error}}{{end}}
{{define "registration/registration_form.html"}}registration {{.error}}{{end}}
{{define "registration/password_change.html"}}password-form {{.error}}{{end}}
{{define "blog/index.html"}}index {{len .page.Posts}} of {{.page.Total}}{{end}}
{{define "blog/category.html"}}category {{.category.Title}}{{end}}
{{define "blog/detail.html"}}detail {{.post.Title}} comments {{len .comments}}{{end}}
{{define "blog/create_post.html"}}post-form {{.error}}{{end}}
{{define "blog/delete_post.html"}}delete {{.post.Title}}{{end}}
{{define "blog/comment.html"}}comment-form{{end}}
{{define "blog/profile.html"}}profile {{.profile.Username}}{{end}}
{{define "blog/user.html"}}profile-form {{.error}}{{end}}
`

// newTestEngine returns an engine with the test templates loaded
func newTestEngine() *gin.Engine {
	_ = dto.RegisterFormValidations()
	engine := gin.New()
	engine.SetHTMLTemplate(template.Must(template.New("pages").Parse(testPageTemplates)))
	return engine
}

// withSession simulates a resolved session cookie
func withSession(userID uuid.UUID, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SessionUserIDKey, userID)
		c.Set(middleware.SessionUsernameKey, username)
		c.Next()
	}
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "404 page"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "403 page"},
		{"not author", shared.ErrNotAuthor, http.StatusForbidden, "403 page"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "500 page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()
			var base BaseHandler
			engine.GET("/boom", func(c *gin.Context) {
				base.HandleError(c, tt.err)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBaseHandler_HandleError_UnauthorizedRedirects(t *testing.T) {
	engine := newTestEngine()
	var base BaseHandler
	engine.GET("/boom", func(c *gin.Context) {
		base.HandleError(c, shared.ErrUnauthorized)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestBaseHandler_RenderAddsSessionContext(t *testing.T) {
	engine := gin.New()
	engine.SetHTMLTemplate(template.Must(template.New("probe").Parse(
		`{{define "probe.html"}}{{.authenticated}} {{.current_username}}{{end}}`,
	)))

	userID := uuid.New()
	var base BaseHandler
	engine.GET("/anon", func(c *gin.Context) {
		base.Render(c, http.StatusOK, "probe.html", nil)
	})
	engine.GET("/known", withSession(userID, "blogger"), func(c *gin.Context) {
		base.Render(c, http.StatusOK, "probe.html", nil)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, "false ", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/known", nil))
	assert.Equal(t, "true blogger", w.Body.String())
}

func TestFormError(t *testing.T) {
	assert.Equal(t, "Category not found", formError(shared.NewDomainError("INVALID_CATEGORY", "Category not found")))
	assert.Equal(t, "Something went wrong. Please try again.", formError(assert.AnError))
}
