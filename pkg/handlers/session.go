package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName      = "chatlytics_session"
	sessionIDKey     = "conversation_id"
	sessionMaxAgeSec = 86400 * 7
)

// NewSessionStore creates the cookie store that ties a browser to its
// conversation. An empty key gets a random one, which logs everyone out on
// restart.
func NewSessionStore(key string) *sessions.CookieStore {
	if key == "" {
		key = uuid.NewString()
	}
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAgeSec,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// sessionID returns the conversation UUID for this request, minting and
// persisting a new one on first contact.
func sessionID(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	// An undecodable cookie still yields a usable new session, so the
	// error from Get is ignored on purpose.
	session, _ := store.Get(r, sessionName)

	if raw, ok := session.Values[sessionIDKey].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			return id, nil
		}
	}

	id := uuid.New()
	session.Values[sessionIDKey] = id.String()
	if err := session.Save(r, w); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
