package delivery

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	sessionName    = "electromart_session"
	sessionUserKey = "user_id"
	contextUserKey = "currentUser"
)

type FlashMessage struct {
	Type    string // "success", "error", "info"
	Message string
}

func init() {
	gob.Register(FlashMessage{})
}

// SessionManager wraps the cookie store so handlers never touch gorilla
// directly.
type SessionManager struct {
	store *sessions.CookieStore
	log   *logrus.Logger
}

func NewSessionManager(sessionKey []byte, secure bool, logger *logrus.Logger) *SessionManager {
	store := sessions.NewCookieStore(sessionKey)
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	return &SessionManager{store: store, log: logger}
}

func (sm *SessionManager) session(c *gin.Context) *sessions.Session {
	// Get never fails fatally; a broken cookie just yields a fresh session.
	session, err := sm.store.Get(c.Request, sessionName)
	if err != nil {
		sm.log.Warnf("Session: could not decode session cookie: %v", err)
	}
	return session
}

func (sm *SessionManager) SignIn(c *gin.Context, userID string) error {
	session := sm.session(c)
	session.Values[sessionUserKey] = userID
	return session.Save(c.Request, c.Writer)
}

func (sm *SessionManager) SignOut(c *gin.Context) error {
	session := sm.session(c)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

func (sm *SessionManager) UserID(c *gin.Context) (string, bool) {
	session := sm.session(c)
	id, ok := session.Values[sessionUserKey].(string)
	return id, ok && id != ""
}

func (sm *SessionManager) Flash(c *gin.Context, kind, message string) {
	session := sm.session(c)
	session.AddFlash(FlashMessage{Type: kind, Message: message})
	if err := session.Save(c.Request, c.Writer); err != nil {
		sm.log.Warnf("Session: failed to save flash message: %v", err)
	}
}

func (sm *SessionManager) PopFlashes(c *gin.Context) []FlashMessage {
	session := sm.session(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		if err := session.Save(c.Request, c.Writer); err != nil {
			sm.log.Warnf("Session: failed to clear flash messages: %v", err)
		}
	}
	flashes := make([]FlashMessage, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(FlashMessage); ok {
			flashes = append(flashes, fm)
		}
	}
	return flashes
}
